package repository

import (
	"context"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// FoodRepository describes persistence operations with the menu.
type FoodRepository interface {
	Create(ctx context.Context, food model.Food) (*model.Food, error)
	Update(ctx context.Context, food model.Food) (*model.Food, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Food, error)
}
