package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic. Every successful mutation
// is announced through the publisher after the store accepted it.
type OrderUseCase struct {
	orders    repository.OrderRepository
	publisher event.Publisher
	newID     func() string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, publisher event.Publisher) *OrderUseCase {
	if publisher == nil {
		publisher = event.Discard
	}
	return &OrderUseCase{orders: orders, publisher: publisher, newID: uuid.NewString}
}

// Create places a single order.
func (u *OrderUseCase) Create(ctx context.Context, in model.OrderInput) (*model.Order, error) {
	created, err := u.CreateBatch(ctx, []model.OrderInput{in})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateBatch places all orders of a checkout or none of them.
func (u *OrderUseCase) CreateBatch(ctx context.Context, inputs []model.OrderInput) ([]model.Order, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no orders given", domainErrors.ErrInvalidOrder)
	}

	orders := make([]model.Order, 0, len(inputs))
	for i, in := range inputs {
		if err := ValidateOrderInput(in); err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		orders = append(orders, u.newOrder(in))
	}

	created, err := u.orders.Create(ctx, orders)
	if err != nil {
		return nil, err
	}

	for _, o := range created {
		u.publish(ctx, event.NewOrderPlaced{Order: o})
	}
	return created, nil
}

// UpdateStatus applies admin changes to status and payment fields.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	if err := ValidateOrderUpdate(update); err != nil {
		return nil, err
	}

	current, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.PaymentStatus != nil && *update.PaymentStatus == model.PaymentStatusUnpaid && current.PaymentStatus == model.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: paid order cannot become unpaid", domainErrors.ErrInvalidPaymentStatus)
	}

	updated, err := u.orders.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	statusChanged := updated.Status != current.Status
	paidNow := updated.PaymentStatus == model.PaymentStatusPaid && current.PaymentStatus != model.PaymentStatusPaid
	if statusChanged || updated.PaymentStatus != current.PaymentStatus {
		u.publish(ctx, event.OrderStatusChanged{Order: *updated})
	}
	if paidNow {
		u.publish(ctx, event.PaymentSuccess{Order: *updated})
	}
	return updated, nil
}

// Delete removes an order. Customers may only delete their own completed orders.
func (u *OrderUseCase) Delete(ctx context.Context, id string, actor model.Viewer) error {
	current, err := u.orders.Get(ctx, id)
	if err != nil {
		return err
	}

	if !actor.Admin() {
		if strings.TrimSpace(actor.UserID) == "" && strings.TrimSpace(actor.UserEmail) == "" {
			return fmt.Errorf("%w: customer identity required", domainErrors.ErrPermissionDenied)
		}
		if !current.BelongsTo(actor.UserID, actor.UserEmail) {
			return fmt.Errorf("%w: order belongs to another customer", domainErrors.ErrPermissionDenied)
		}
		if !current.Status.Terminal() {
			return fmt.Errorf("%w: only completed orders can be deleted", domainErrors.ErrPermissionDenied)
		}
	}

	if err := u.orders.Delete(ctx, id); err != nil {
		return err
	}

	u.publish(ctx, event.OrderDeleted{OrderID: current.ID, UserID: current.UserID, UserEmail: current.UserEmail})
	return nil
}

// Get returns single order.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.Get(ctx, id)
}

// List returns orders newest first.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	filter.UserEmail = strings.TrimSpace(filter.UserEmail)
	return u.orders.List(ctx, filter)
}

func (u *OrderUseCase) newOrder(in model.OrderInput) model.Order {
	o := model.Order{
		ID:            u.newID(),
		UserID:        strings.TrimSpace(in.UserID),
		UserEmail:     strings.TrimSpace(in.UserEmail),
		UserName:      strings.TrimSpace(in.UserName),
		FoodName:      strings.TrimSpace(in.FoodName),
		Category:      in.Category,
		FoodType:      in.FoodType,
		Quantity:      in.Quantity,
		Price:         in.Price,
		TableNumber:   in.TableNumber,
		ChairIndices:  in.ChairIndices,
		ContactNumber: in.ContactNumber,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
	}
	if o.ContactNumber != nil && strings.TrimSpace(*o.ContactNumber) == "" {
		o.ContactNumber = nil
	}
	return o
}

// publish detaches from request cancellation: the response does not depend on delivery.
func (u *OrderUseCase) publish(ctx context.Context, e event.Event) {
	u.publisher.Publish(context.WithoutCancel(ctx), e)
}
