package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

func TestRoomsFor(t *testing.T) {
	assert.Equal(t, []string{RoomAdmins}, RoomsFor(event.Identify{Type: model.RoleAdmin, UserID: "ignored"}))
	assert.Equal(t, []string{RoomUsers, "user:u1"}, RoomsFor(event.Identify{Type: model.RoleUser, UserID: "u1"}))
	assert.Equal(t, []string{RoomUsers}, RoomsFor(event.Identify{Type: model.RoleUser}))
	assert.Nil(t, RoomsFor(event.Identify{Type: "chef"}))
}

func TestRoute(t *testing.T) {
	withUser := model.Order{ID: "o1", UserID: "u1"}
	anonymous := model.Order{ID: "o2", UserEmail: "guest@example.com"}

	cases := []struct {
		name      string
		event     event.Event
		rooms     []string
		broadcast bool
	}{
		{"placed with user", event.NewOrderPlaced{Order: withUser}, []string{RoomAdmins, "user:u1"}, false},
		{"placed without user", event.NewOrderPlaced{Order: anonymous}, []string{RoomAdmins}, false},
		{"status change", event.OrderStatusChanged{Order: withUser}, []string{RoomAdmins, RoomUsers, "user:u1"}, false},
		{"status change without user", event.OrderStatusChanged{Order: anonymous}, []string{RoomAdmins, RoomUsers}, false},
		{"payment", event.PaymentSuccess{Order: withUser}, []string{RoomAdmins, RoomUsers, "user:u1"}, false},
		{"deleted", event.OrderDeleted{OrderID: "o1", UserID: "u1"}, nil, true},
		{"food added", event.NewFoodAdded{}, nil, true},
		{"food updated", event.FoodUpdated{}, nil, true},
		{"food deleted", event.FoodDeleted{FoodID: "f1"}, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rooms, broadcast := Route(tc.event)
			assert.Equal(t, tc.rooms, rooms)
			assert.Equal(t, tc.broadcast, broadcast)
		})
	}
}
