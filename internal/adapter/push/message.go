package push

import (
	"fmt"
	"strings"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// AudienceAdmins is the routing key of staff notifications.
const AudienceAdmins = "admins"

// Message is the JSON body handed to the push worker.
type Message struct {
	Event         string              `json:"event"`
	Audience      string              `json:"audience"`
	OrderID       string              `json:"orderId"`
	UserID        string              `json:"userId,omitempty"`
	UserEmail     string              `json:"userEmail,omitempty"`
	Status        model.OrderStatus   `json:"status,omitempty"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus,omitempty"`
	Title         string              `json:"title"`
	Body          string              `json:"body"`
}

// UserAudience returns routing key of a customer.
func UserAudience(userID string) string {
	return "user." + userID
}

// Messages maps an event to notifications; menu events and orders without an owner id yield none for customers.
func Messages(e event.Event) []Message {
	switch v := e.(type) {
	case event.NewOrderPlaced:
		o := v.Order
		msgs := []Message{newMessage(e, AudienceAdmins, o, "New order", fmt.Sprintf("%d × %s, %s", o.Quantity, o.FoodName, placement(o)))}
		if o.UserID != "" {
			msgs = append(msgs, newMessage(e, UserAudience(o.UserID), o, "Order received", fmt.Sprintf("We got your order for %s", o.FoodName)))
		}
		return msgs
	case event.OrderStatusChanged:
		o := v.Order
		if o.UserID == "" {
			return nil
		}
		return []Message{newMessage(e, UserAudience(o.UserID), o, statusTitle(o.Status), fmt.Sprintf("%s is now %s", o.FoodName, strings.ToLower(string(o.Status.CustomerStage()))))}
	case event.PaymentSuccess:
		o := v.Order
		msgs := []Message{newMessage(e, AudienceAdmins, o, "Payment received", fmt.Sprintf("%s paid via %s", o.FoodName, paymentMethod(o)))}
		if o.UserID != "" {
			msgs = append(msgs, newMessage(e, UserAudience(o.UserID), o, "Payment successful", fmt.Sprintf("Thanks! Payment for %s is confirmed", o.FoodName)))
		}
		return msgs
	case event.OrderDeleted:
		if v.UserID == "" {
			return nil
		}
		return []Message{{
			Event:     e.Name(),
			Audience:  UserAudience(v.UserID),
			OrderID:   v.OrderID,
			UserID:    v.UserID,
			UserEmail: v.UserEmail,
			Title:     "Order removed",
			Body:      "An order was removed from your history",
		}}
	}
	return nil
}

func newMessage(e event.Event, audience string, o model.Order, title, body string) Message {
	return Message{
		Event:         e.Name(),
		Audience:      audience,
		OrderID:       o.ID,
		UserID:        o.UserID,
		UserEmail:     o.UserEmail,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Title:         title,
		Body:          body,
	}
}

func statusTitle(s model.OrderStatus) string {
	switch s {
	case model.OrderStatusReady:
		return "Order ready"
	case model.OrderStatusServed:
		return "Order served"
	case model.OrderStatusCompleted:
		return "Order completed"
	default:
		return "Order update"
	}
}

func placement(o model.Order) string {
	if o.TableNumber != nil {
		return fmt.Sprintf("table %d", *o.TableNumber)
	}
	return "parcel"
}

func paymentMethod(o model.Order) string {
	if o.PaymentMethod == "" {
		return "unknown method"
	}
	return string(o.PaymentMethod)
}
