package handlers

import (
	"context"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, in model.OrderInput) (*model.Order, error)
	PlaceOrders(ctx context.Context, in []model.OrderInput) ([]model.Order, error)
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string, actor model.Viewer) error
}

// FoodFacade provides menu operations.
type FoodFacade interface {
	Menu(ctx context.Context) ([]model.Food, error)
	AddFood(ctx context.Context, food model.Food) (*model.Food, error)
	UpdateFood(ctx context.Context, food model.Food) (*model.Food, error)
	DeleteFood(ctx context.Context, id string) error
}

// AdminFacade describes staff account capabilities required by handlers.
type AdminFacade interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
	CreateAdmin(ctx context.Context, email, password string) (*model.Admin, error)
	Admins(ctx context.Context) ([]model.Admin, error)
	DeleteAdmin(ctx context.Context, actorID, id int64) error
}

// HealthFacade reports storage availability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// FoodCourtFacade aggregates the full set of operations used across handlers.
type FoodCourtFacade interface {
	OrderFacade
	FoodFacade
	AdminFacade
	HealthFacade
}
