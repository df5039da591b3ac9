// Package tracker keeps the list of active orders a viewer is watching and
// turns order events into user facing notifications.
package tracker

import (
	"fmt"
	"sync"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// Kind classifies notifications.
type Kind string

const (
	KindNew       Kind = "new"
	KindStatus    Kind = "status"
	KindCompleted Kind = "completed"
	KindPayment   Kind = "payment"
	KindDeleted   Kind = "deleted"
)

// Notification is surfaced to the viewer.
type Notification struct {
	Kind    Kind
	OrderID string
	Stage   model.CustomerStage
	Message string
}

// Notifier receives notifications.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Board is the active-orders view of a single viewer. Events may arrive twice
// and from several goroutines; every operation is keyed by order id.
type Board struct {
	viewer   model.Viewer
	notifier Notifier

	mu     sync.Mutex
	orders []model.Order
}

// NewBoard creates an empty board.
func NewBoard(viewer model.Viewer, notifier Notifier) *Board {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Board{viewer: viewer, notifier: notifier}
}

// Seed replaces the list with the visible, non terminal orders.
func (b *Board) Seed(orders []model.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = b.orders[:0]
	for _, o := range orders {
		if b.viewer.Sees(o) && !o.Status.Terminal() {
			b.orders = append(b.orders, o)
		}
	}
}

// Active returns a copy of the list, newest first.
func (b *Board) Active() []model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Order(nil), b.orders...)
}

// Apply folds an event into the list. Menu events are ignored.
func (b *Board) Apply(e event.Event) {
	switch v := e.(type) {
	case event.NewOrderPlaced:
		b.placed(v.Order)
	case event.OrderStatusChanged:
		b.changed(v.Order)
	case event.PaymentSuccess:
		b.paid(v.Order)
	case event.OrderDeleted:
		b.deleted(v)
	}
}

// Gone removes an order that left the watched listing without a known reason.
func (b *Board) Gone(o model.Order) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeLocked(o.ID)
}

func (b *Board) placed(o model.Order) {
	if !b.viewer.Sees(o) {
		return
	}
	if o.Status.Terminal() {
		b.changed(o)
		return
	}

	b.mu.Lock()
	if i := b.indexLocked(o.ID); i >= 0 {
		b.orders[i] = o
		b.mu.Unlock()
		return
	}
	b.orders = append([]model.Order{o}, b.orders...)
	b.mu.Unlock()

	msg := fmt.Sprintf("Order placed: %d × %s", o.Quantity, o.FoodName)
	if b.viewer.Admin() {
		msg = fmt.Sprintf("New order: %d × %s (%s)", o.Quantity, o.FoodName, placement(o))
	}
	b.notifier.Notify(Notification{Kind: KindNew, OrderID: o.ID, Stage: o.Status.CustomerStage(), Message: msg})
}

func (b *Board) changed(o model.Order) {
	if !b.viewer.Sees(o) {
		return
	}

	if o.Status.Terminal() {
		b.mu.Lock()
		removed := b.removeLocked(o.ID)
		b.mu.Unlock()
		if removed && b.owns(o.UserID, o.UserEmail) {
			b.notifier.Notify(Notification{
				Kind:    KindCompleted,
				OrderID: o.ID,
				Stage:   model.StageCompleted,
				Message: fmt.Sprintf("%s is completed, find it in your order history", o.FoodName),
			})
		}
		return
	}

	b.mu.Lock()
	moved, paidNow := true, false
	if i := b.indexLocked(o.ID); i >= 0 {
		prev := b.orders[i]
		moved = prev.Status != o.Status
		// Payment only moves forward; a stale frame must not undo it.
		if prev.PaymentStatus == model.PaymentStatusPaid {
			o.PaymentStatus = model.PaymentStatusPaid
			if o.PaymentMethod == "" {
				o.PaymentMethod = prev.PaymentMethod
			}
		}
		paidNow = prev.PaymentStatus != model.PaymentStatusPaid && o.PaymentStatus == model.PaymentStatusPaid
		b.orders[i] = o
	} else {
		b.orders = append([]model.Order{o}, b.orders...)
	}
	b.mu.Unlock()

	if moved {
		msg := fmt.Sprintf("%s is now %s", o.FoodName, o.Status.CustomerStage())
		if b.viewer.Admin() {
			msg = fmt.Sprintf("Order %s: %s is %s", o.ID, o.FoodName, o.Status)
		}
		b.notifier.Notify(Notification{Kind: KindStatus, OrderID: o.ID, Stage: o.Status.CustomerStage(), Message: msg})
	}
	if paidNow {
		b.notifyPaid(o)
	}
}

func (b *Board) paid(o model.Order) {
	b.mu.Lock()
	i := b.indexLocked(o.ID)
	if i < 0 {
		b.mu.Unlock()
		return
	}
	already := b.orders[i].PaymentStatus == model.PaymentStatusPaid
	if !already {
		b.orders[i].PaymentStatus = o.PaymentStatus
	}
	if o.PaymentMethod != "" {
		b.orders[i].PaymentMethod = o.PaymentMethod
	}
	current := b.orders[i]
	b.mu.Unlock()

	if already || current.PaymentStatus != model.PaymentStatusPaid {
		return
	}
	b.notifyPaid(current)
}

func (b *Board) notifyPaid(o model.Order) {
	b.notifier.Notify(Notification{
		Kind:    KindPayment,
		OrderID: o.ID,
		Stage:   o.Status.CustomerStage(),
		Message: fmt.Sprintf("Payment received for %s", o.FoodName),
	})
}

func (b *Board) deleted(d event.OrderDeleted) {
	b.mu.Lock()
	b.removeLocked(d.OrderID)
	b.mu.Unlock()

	if b.owns(d.UserID, d.UserEmail) {
		b.notifier.Notify(Notification{Kind: KindDeleted, OrderID: d.OrderID, Message: "An order was removed"})
	}
}

// owns reports whether a customer viewer placed the order.
func (b *Board) owns(userID, email string) bool {
	if b.viewer.Admin() {
		return false
	}
	return model.Order{UserID: userID, UserEmail: email}.BelongsTo(b.viewer.UserID, b.viewer.UserEmail)
}

func (b *Board) indexLocked(id string) int {
	for i, o := range b.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) removeLocked(id string) bool {
	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.orders = append(b.orders[:i], b.orders[i+1:]...)
	return true
}

func placement(o model.Order) string {
	if o.TableNumber != nil {
		return fmt.Sprintf("table %d", *o.TableNumber)
	}
	return "parcel"
}
