package test

import (
	"context"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, model.OrderInput) (*model.Order, error)
	BulkFn   func(context.Context, []model.OrderInput) ([]model.Order, error)
	OrdersFn func(context.Context, model.OrderFilter) ([]model.Order, error)
	OrderFn  func(context.Context, string) (*model.Order, error)
	UpdateFn func(context.Context, string, model.OrderUpdate) (*model.Order, error)
	DeleteFn func(context.Context, string, model.Viewer) error
}

// PlaceOrder delegates to provided function or echoes input as a pending order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, in model.OrderInput) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, in)
	}
	o := orderFrom("o1", in)
	return &o, nil
}

// PlaceOrders echoes every input.
func (s OrderFacadeStub) PlaceOrders(ctx context.Context, in []model.OrderInput) ([]model.Order, error) {
	if s.BulkFn != nil {
		return s.BulkFn(ctx, in)
	}
	out := make([]model.Order, 0, len(in))
	for i, item := range in {
		out = append(out, orderFrom(string(rune('a'+i)), item))
	}
	return out, nil
}

// Orders returns predefined orders for given filter.
func (s OrderFacadeStub) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter)
	}
	return []model.Order{{ID: "o1", UserID: filter.UserID, FoodName: "Dosa", Quantity: 1, Status: model.OrderStatusPending}}, nil
}

// Order returns a single order.
func (s OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, FoodName: "Dosa", Quantity: 1, Status: model.OrderStatusPending}, nil
}

// UpdateOrderStatus applies update to a stub order.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, update)
	}
	o := &model.Order{ID: id, Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusUnpaid}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		o.PaymentStatus = *update.PaymentStatus
	}
	return o, nil
}

// DeleteOrder executes configured handler.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, id string, actor model.Viewer) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id, actor)
	}
	return nil
}

func orderFrom(id string, in model.OrderInput) model.Order {
	return model.Order{
		ID:            id,
		UserID:        in.UserID,
		UserEmail:     in.UserEmail,
		FoodName:      in.FoodName,
		Quantity:      in.Quantity,
		Price:         in.Price,
		TableNumber:   in.TableNumber,
		ContactNumber: in.ContactNumber,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
		CreatedAt:     time.Unix(0, 0).UTC(),
		UpdatedAt:     time.Unix(0, 0).UTC(),
	}
}

// FoodFacadeStub simulates menu operations.
type FoodFacadeStub struct {
	MenuFn   func(context.Context) ([]model.Food, error)
	AddFn    func(context.Context, model.Food) (*model.Food, error)
	UpdateFn func(context.Context, model.Food) (*model.Food, error)
	DeleteFn func(context.Context, string) error
}

// Menu returns preconfigured menu.
func (s FoodFacadeStub) Menu(ctx context.Context) ([]model.Food, error) {
	if s.MenuFn != nil {
		return s.MenuFn(ctx)
	}
	return []model.Food{{ID: "f1", Name: "Idli", Price: 40, Available: true}}, nil
}

// AddFood echoes the food with an assigned id.
func (s FoodFacadeStub) AddFood(ctx context.Context, food model.Food) (*model.Food, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, food)
	}
	food.ID = "f1"
	return &food, nil
}

// UpdateFood echoes the food.
func (s FoodFacadeStub) UpdateFood(ctx context.Context, food model.Food) (*model.Food, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, food)
	}
	return &food, nil
}

// DeleteFood executes configured handler.
func (s FoodFacadeStub) DeleteFood(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// AdminFacadeStub mimics staff account operations.
type AdminFacadeStub struct {
	LoginFn  func(context.Context, string, string) (string, error)
	ParseFn  func(string) (int64, error)
	CreateFn func(context.Context, string, string) (*model.Admin, error)
	ListFn   func(context.Context) ([]model.Admin, error)
	DeleteFn func(context.Context, int64, int64) error
}

// Login returns configured token or default value.
func (s AdminFacadeStub) Login(ctx context.Context, email, password string) (string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken validates tokens for middleware.
func (s AdminFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// CreateAdmin returns a new admin record.
func (s AdminFacadeStub) CreateAdmin(ctx context.Context, email, password string) (*model.Admin, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, email, password)
	}
	return &model.Admin{ID: 2, Email: email, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

// Admins lists preconfigured admins.
func (s AdminFacadeStub) Admins(ctx context.Context) ([]model.Admin, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.Admin{{ID: 1, Email: "root@example.com", PasswordHash: "secret"}}, nil
}

// DeleteAdmin executes configured handler.
func (s AdminFacadeStub) DeleteAdmin(ctx context.Context, actorID, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, actorID, id)
	}
	return nil
}

// HealthFacadeStub reports a configured storage state.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// FoodCourtFacadeStub aggregates all stubs for router tests.
type FoodCourtFacadeStub struct {
	OrderFacadeStub
	FoodFacadeStub
	AdminFacadeStub
	HealthFacadeStub
}
