package hub

import (
	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// Room names.
const (
	RoomAdmins     = "admins"
	RoomUsers      = "users"
	userRoomPrefix = "user:"
)

// UserRoom returns the personal room of a customer.
func UserRoom(userID string) string {
	return userRoomPrefix + userID
}

// RoomsFor returns rooms a connection joins after identifying.
func RoomsFor(id event.Identify) []string {
	switch id.Type {
	case model.RoleAdmin:
		return []string{RoomAdmins}
	case model.RoleUser:
		rooms := []string{RoomUsers}
		if id.UserID != "" {
			rooms = append(rooms, UserRoom(id.UserID))
		}
		return rooms
	}
	return nil
}

// Route returns target rooms of an event; broadcast is true when every connection receives it.
func Route(e event.Event) (rooms []string, broadcast bool) {
	switch v := e.(type) {
	case event.NewOrderPlaced:
		rooms = []string{RoomAdmins}
		if v.Order.UserID != "" {
			rooms = append(rooms, UserRoom(v.Order.UserID))
		}
		return rooms, false
	case event.OrderStatusChanged:
		return statusRooms(v.Order), false
	case event.PaymentSuccess:
		return statusRooms(v.Order), false
	}
	return nil, true
}

// statusRooms includes the users catch-all for clients that never joined their own room.
func statusRooms(o model.Order) []string {
	rooms := []string{RoomAdmins, RoomUsers}
	if o.UserID != "" {
		rooms = append(rooms, UserRoom(o.UserID))
	}
	return rooms
}
