package app

import (
	"context"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// FoodCourtFacade exposes use cases to the transport layer.
type FoodCourtFacade struct {
	orders *usecase.OrderUseCase
	foods  *usecase.FoodUseCase
	admins *usecase.AdminUseCase
	health HealthChecker
}

func NewFoodCourtFacade(orders *usecase.OrderUseCase, foods *usecase.FoodUseCase, admins *usecase.AdminUseCase, health HealthChecker) *FoodCourtFacade {
	return &FoodCourtFacade{orders: orders, foods: foods, admins: admins, health: health}
}

func (f *FoodCourtFacade) PlaceOrder(ctx context.Context, in model.OrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, in)
}

func (f *FoodCourtFacade) PlaceOrders(ctx context.Context, in []model.OrderInput) ([]model.Order, error) {
	return f.orders.CreateBatch(ctx, in)
}

func (f *FoodCourtFacade) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, filter)
}

func (f *FoodCourtFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *FoodCourtFacade) UpdateOrderStatus(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, update)
}

func (f *FoodCourtFacade) DeleteOrder(ctx context.Context, id string, actor model.Viewer) error {
	return f.orders.Delete(ctx, id, actor)
}

func (f *FoodCourtFacade) Menu(ctx context.Context) ([]model.Food, error) {
	return f.foods.List(ctx)
}

func (f *FoodCourtFacade) AddFood(ctx context.Context, food model.Food) (*model.Food, error) {
	return f.foods.Add(ctx, food)
}

func (f *FoodCourtFacade) UpdateFood(ctx context.Context, food model.Food) (*model.Food, error) {
	return f.foods.Update(ctx, food)
}

func (f *FoodCourtFacade) DeleteFood(ctx context.Context, id string) error {
	return f.foods.Delete(ctx, id)
}

func (f *FoodCourtFacade) Login(ctx context.Context, email, password string) (string, error) {
	return f.admins.Login(ctx, email, password)
}

func (f *FoodCourtFacade) ParseToken(token string) (int64, error) {
	return f.admins.ParseToken(token)
}

func (f *FoodCourtFacade) CreateAdmin(ctx context.Context, email, password string) (*model.Admin, error) {
	return f.admins.Create(ctx, email, password)
}

func (f *FoodCourtFacade) Admins(ctx context.Context) ([]model.Admin, error) {
	return f.admins.List(ctx)
}

func (f *FoodCourtFacade) DeleteAdmin(ctx context.Context, actorID, id int64) error {
	return f.admins.Delete(ctx, actorID, id)
}

func (f *FoodCourtFacade) BootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	return f.admins.Bootstrap(ctx, email, password)
}

func (f *FoodCourtFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}
