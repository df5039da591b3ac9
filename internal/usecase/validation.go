package usecase

import (
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// ValidateOrderInput checks required fields and the dine-in/parcel exclusivity.
func ValidateOrderInput(in model.OrderInput) error {
	if strings.TrimSpace(in.UserID) == "" && strings.TrimSpace(in.UserEmail) == "" {
		return fmt.Errorf("%w: user id or email is required", domainErrors.ErrInvalidOrder)
	}
	if strings.TrimSpace(in.FoodName) == "" {
		return fmt.Errorf("%w: food name is required", domainErrors.ErrInvalidOrder)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domainErrors.ErrInvalidOrder)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domainErrors.ErrInvalidOrder)
	}

	hasTable := in.TableNumber != nil
	hasContact := in.ContactNumber != nil && strings.TrimSpace(*in.ContactNumber) != ""
	switch {
	case hasTable && hasContact:
		return fmt.Errorf("%w: table and contact number are mutually exclusive", domainErrors.ErrInvalidOrder)
	case !hasTable && !hasContact:
		return fmt.Errorf("%w: table or contact number is required", domainErrors.ErrInvalidOrder)
	case hasTable && *in.TableNumber <= 0:
		return fmt.Errorf("%w: table number must be positive", domainErrors.ErrInvalidOrder)
	}
	if !hasTable && len(in.ChairIndices) > 0 {
		return fmt.Errorf("%w: chairs require a table", domainErrors.ErrInvalidOrder)
	}
	for _, c := range in.ChairIndices {
		if c < 0 {
			return fmt.Errorf("%w: chair index must not be negative", domainErrors.ErrInvalidOrder)
		}
	}
	return nil
}

// ValidateOrderUpdate checks that update is non-empty and every value is in its enum.
func ValidateOrderUpdate(u model.OrderUpdate) error {
	if u.Empty() {
		return domainErrors.ErrEmptyUpdate
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidStatus, *u.Status)
	}
	if u.PaymentStatus != nil && !u.PaymentStatus.Valid() {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidPaymentStatus, *u.PaymentStatus)
	}
	if u.PaymentMethod != nil && !u.PaymentMethod.Valid() {
		return fmt.Errorf("%w: %q", domainErrors.ErrInvalidPaymentMethod, *u.PaymentMethod)
	}
	return nil
}

// ValidateFood checks menu item fields.
func ValidateFood(f model.Food) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", domainErrors.ErrInvalidFood)
	}
	if f.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domainErrors.ErrInvalidFood)
	}
	return nil
}
