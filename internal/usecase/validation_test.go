package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func validInput() model.OrderInput {
	return model.OrderInput{UserID: "u1", FoodName: "Pizza", Quantity: 1, Price: 300, TableNumber: intPtr(5), ChairIndices: []int32{0, 1}}
}

func TestValidateOrderInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.OrderInput)
		ok     bool
	}{
		{"dine-in", func(*model.OrderInput) {}, true},
		{"parcel", func(in *model.OrderInput) {
			in.TableNumber = nil
			in.ChairIndices = nil
			in.ContactNumber = strPtr("555-0100")
		}, true},
		{"email only", func(in *model.OrderInput) { in.UserID = ""; in.UserEmail = "a@b.c" }, true},
		{"both table and contact", func(in *model.OrderInput) { in.ContactNumber = strPtr("555") }, false},
		{"neither table nor contact", func(in *model.OrderInput) { in.TableNumber = nil; in.ChairIndices = nil }, false},
		{"blank contact counts as missing", func(in *model.OrderInput) {
			in.TableNumber = nil
			in.ChairIndices = nil
			in.ContactNumber = strPtr("  ")
		}, false},
		{"no requester", func(in *model.OrderInput) { in.UserID = "" }, false},
		{"no food", func(in *model.OrderInput) { in.FoodName = " " }, false},
		{"zero quantity", func(in *model.OrderInput) { in.Quantity = 0 }, false},
		{"negative price", func(in *model.OrderInput) { in.Price = -1 }, false},
		{"zero table", func(in *model.OrderInput) { in.TableNumber = intPtr(0) }, false},
		{"negative chair", func(in *model.OrderInput) { in.ChairIndices = []int32{-1} }, false},
		{"chairs without table", func(in *model.OrderInput) {
			in.TableNumber = nil
			in.ContactNumber = strPtr("555")
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := ValidateOrderInput(in)
			if tc.ok && err != nil {
				t.Fatalf("expected valid input, got %v", err)
			}
			if !tc.ok && !errors.Is(err, domainErrors.ErrInvalidOrder) {
				t.Fatalf("expected ErrInvalidOrder, got %v", err)
			}
		})
	}
}

func TestValidateOrderUpdate(t *testing.T) {
	status := model.OrderStatus("Burnt")
	payment := model.PaymentStatus("Refunded")
	method := model.PaymentMethod("Barter")
	good := model.OrderStatusServed

	if err := ValidateOrderUpdate(model.OrderUpdate{}); err != domainErrors.ErrEmptyUpdate {
		t.Fatalf("expected empty update error, got %v", err)
	}
	if err := ValidateOrderUpdate(model.OrderUpdate{Status: &status}); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if err := ValidateOrderUpdate(model.OrderUpdate{PaymentStatus: &payment}); !errors.Is(err, domainErrors.ErrInvalidPaymentStatus) {
		t.Fatalf("expected invalid payment status, got %v", err)
	}
	if err := ValidateOrderUpdate(model.OrderUpdate{PaymentMethod: &method}); !errors.Is(err, domainErrors.ErrInvalidPaymentMethod) {
		t.Fatalf("expected invalid payment method, got %v", err)
	}
	if err := ValidateOrderUpdate(model.OrderUpdate{Status: &good}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFood(t *testing.T) {
	if err := ValidateFood(model.Food{Name: "Pizza", Price: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFood(model.Food{Price: 10}); !errors.Is(err, domainErrors.ErrInvalidFood) {
		t.Fatalf("expected invalid food, got %v", err)
	}
	if err := ValidateFood(model.Food{Name: "x", Price: -2}); !errors.Is(err, domainErrors.ErrInvalidFood) {
		t.Fatalf("expected invalid food, got %v", err)
	}
}
