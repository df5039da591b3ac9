// Package event defines the closed set of order and menu change notifications
// and their wire representation. Wire names are only used at the edge
// (Encode/Decode); the rest of the code switches on concrete types.
package event

import "github.com/polkiloo/foodcourt/internal/domain/model"

// Wire names shared with browser clients.
const (
	NameNewOrderPlaced     = "newOrderPlaced"
	NameOrderStatusChanged = "orderStatusChanged"
	NamePaymentSuccess     = "paymentSuccess"
	NameOrderDeleted       = "orderDeleted"
	NameNewFoodAdded       = "newFoodAdded"
	NameFoodUpdated        = "foodUpdated"
	NameFoodDeleted        = "foodDeleted"
)

// Event is one of the variants declared in this package.
type Event interface {
	Name() string
	sealed()
}

// NewOrderPlaced is emitted for every order created at checkout.
type NewOrderPlaced struct {
	Order model.Order
}

// OrderStatusChanged is emitted when status or payment of an order changes.
type OrderStatusChanged struct {
	Order model.Order
}

// PaymentSuccess is emitted in addition to OrderStatusChanged once an order is paid.
type PaymentSuccess struct {
	Order model.Order
}

// OrderDeleted carries the owner so clients can filter without the full order.
type OrderDeleted struct {
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

// NewFoodAdded is emitted when a menu item is created.
type NewFoodAdded struct {
	Food model.Food
}

// FoodUpdated is emitted when a menu item changes.
type FoodUpdated struct {
	Food model.Food
}

// FoodDeleted is emitted when a menu item is removed.
type FoodDeleted struct {
	FoodID string `json:"foodId"`
}

func (NewOrderPlaced) Name() string     { return NameNewOrderPlaced }
func (OrderStatusChanged) Name() string { return NameOrderStatusChanged }
func (PaymentSuccess) Name() string     { return NamePaymentSuccess }
func (OrderDeleted) Name() string       { return NameOrderDeleted }
func (NewFoodAdded) Name() string       { return NameNewFoodAdded }
func (FoodUpdated) Name() string        { return NameFoodUpdated }
func (FoodDeleted) Name() string        { return NameFoodDeleted }

func (NewOrderPlaced) sealed()     {}
func (OrderStatusChanged) sealed() {}
func (PaymentSuccess) sealed()     {}
func (OrderDeleted) sealed()       {}
func (NewFoodAdded) sealed()       {}
func (FoodUpdated) sealed()        {}
func (FoodDeleted) sealed()        {}

// OrderOf returns the order carried by order-scoped events.
func OrderOf(e Event) (model.Order, bool) {
	switch v := e.(type) {
	case NewOrderPlaced:
		return v.Order, true
	case OrderStatusChanged:
		return v.Order, true
	case PaymentSuccess:
		return v.Order, true
	}
	return model.Order{}, false
}

// Names lists every domain event name in a stable order.
func Names() []string {
	return []string{
		NameNewOrderPlaced,
		NameOrderStatusChanged,
		NamePaymentSuccess,
		NameOrderDeleted,
		NameNewFoodAdded,
		NameFoodUpdated,
		NameFoodDeleted,
	}
}
