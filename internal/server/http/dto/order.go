package dto

import "github.com/polkiloo/foodcourt/internal/domain/model"

// OrderRequest describes a single order placed at checkout.
type OrderRequest = model.OrderInput

// BulkOrderRequest describes a checkout of several food lines.
type BulkOrderRequest struct {
	Orders []OrderRequest `json:"orders"`
}

// StatusUpdateRequest carries admin changes of an order.
type StatusUpdateRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
}

// Update converts request to domain update; values are validated by the use case.
func (r StatusUpdateRequest) Update() model.OrderUpdate {
	var u model.OrderUpdate
	if r.Status != nil {
		s := model.OrderStatus(*r.Status)
		u.Status = &s
	}
	if r.PaymentStatus != nil {
		s := model.PaymentStatus(*r.PaymentStatus)
		u.PaymentStatus = &s
	}
	if r.PaymentMethod != nil {
		m := model.PaymentMethod(*r.PaymentMethod)
		u.PaymentMethod = &m
	}
	return u
}
