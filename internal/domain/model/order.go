package model

import (
	"strings"
	"time"
)

// OrderStatus describes kitchen lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCooking   OrderStatus = "Cooking"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusServed    OrderStatus = "Served"
	OrderStatusCompleted OrderStatus = "Completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusCooking:   1,
	OrderStatusReady:     2,
	OrderStatusServed:    3,
	OrderStatusCompleted: 4,
}

// Valid reports whether status belongs to the known progression.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// Rank returns position of status in the progression, -1 for unknown values.
func (s OrderStatus) Rank() int {
	if r, ok := orderStatusRank[s]; ok {
		return r
	}
	return -1
}

// Terminal reports whether order left the active views.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted
}

// CustomerStage is the simplified status shown to customers.
type CustomerStage string

const (
	StageOrder     CustomerStage = "Order"
	StagePreparing CustomerStage = "Preparing"
	StageServed    CustomerStage = "Served"
	StageCompleted CustomerStage = "Completed"
)

// CustomerStage collapses kitchen statuses into the customer facing set.
func (s OrderStatus) CustomerStage() CustomerStage {
	switch s {
	case OrderStatusCooking, OrderStatusReady:
		return StagePreparing
	case OrderStatusServed:
		return StageServed
	case OrderStatusCompleted:
		return StageCompleted
	default:
		return StageOrder
	}
}

// PaymentStatus is orthogonal to OrderStatus and only moves Unpaid -> Paid.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
	PaymentStatusPaid   PaymentStatus = "Paid"
)

// Valid reports whether payment status is known.
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPaid
}

// PaymentMethod describes how order was settled.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodCard   PaymentMethod = "Card"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodOnline PaymentMethod = "Online"
)

// Valid reports whether payment method is known.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodOnline:
		return true
	}
	return false
}

// Order is a single food line placed by a customer, either dine-in or parcel.
type Order struct {
	ID            string        `json:"_id"`
	UserID        string        `json:"userId,omitempty"`
	UserEmail     string        `json:"userEmail,omitempty"`
	UserName      string        `json:"userName,omitempty"`
	FoodName      string        `json:"foodName"`
	Category      string        `json:"category,omitempty"`
	FoodType      string        `json:"type,omitempty"`
	Quantity      int           `json:"quantity"`
	Price         float64       `json:"price"`
	TableNumber   *int          `json:"tableNumber,omitempty"`
	ChairIndices  []int32       `json:"chairIndices,omitempty"`
	ContactNumber *string       `json:"contactNumber,omitempty"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// DineIn reports whether order is served at a table.
func (o Order) DineIn() bool {
	return o.TableNumber != nil && o.ContactNumber == nil
}

// Parcel reports whether order is a takeaway or delivery.
func (o Order) Parcel() bool {
	return o.ContactNumber != nil && o.TableNumber == nil
}

// BelongsTo matches order owner by user id first and falls back to email.
func (o Order) BelongsTo(userID, email string) bool {
	if userID != "" && o.UserID != "" {
		return o.UserID == userID
	}
	if email != "" && o.UserEmail != "" {
		return strings.EqualFold(o.UserEmail, email)
	}
	return false
}

// OrderFilter scopes order listings.
type OrderFilter struct {
	UserID     string
	UserEmail  string
	ActiveOnly bool
}

// OrderInput carries customer supplied fields for a new order.
type OrderInput struct {
	UserID        string  `json:"userId"`
	UserEmail     string  `json:"userEmail"`
	UserName      string  `json:"userName"`
	FoodName      string  `json:"foodName"`
	Category      string  `json:"category"`
	FoodType      string  `json:"type"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	TableNumber   *int    `json:"tableNumber,omitempty"`
	ChairIndices  []int32 `json:"chairIndices,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`
}

// OrderUpdate carries admin changes; nil fields are left untouched.
type OrderUpdate struct {
	Status        *OrderStatus   `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
}

// Empty reports whether update carries no field.
func (u OrderUpdate) Empty() bool {
	return u.Status == nil && u.PaymentStatus == nil && u.PaymentMethod == nil
}
