package repository

import (
	"context"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, orders []model.Order) ([]model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error)
	Delete(ctx context.Context, id string) error
}
