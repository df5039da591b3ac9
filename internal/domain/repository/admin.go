package repository

import (
	"context"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// AdminRepository describes persistence operations for staff accounts.
type AdminRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
