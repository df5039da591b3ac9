package poller

import (
	"slices"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// Pair holds both versions of a changed order.
type Pair struct {
	Updated  model.Order
	Previous model.Order
}

// Changes is the difference between two snapshots.
type Changes struct {
	Added   []model.Order
	Changed []Pair
	Gone    []model.Order
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Gone) == 0
}

// Diff compares snapshots by order id. Added and Changed follow next's order, Gone follows prev's.
func Diff(prev, next []model.Order) Changes {
	before := make(map[string]model.Order, len(prev))
	for _, o := range prev {
		before[o.ID] = o
	}
	seen := make(map[string]struct{}, len(next))

	var ch Changes
	for _, o := range next {
		seen[o.ID] = struct{}{}
		old, ok := before[o.ID]
		switch {
		case !ok:
			ch.Added = append(ch.Added, o)
		case !sameOrder(old, o):
			ch.Changed = append(ch.Changed, Pair{Updated: o, Previous: old})
		}
	}
	for _, o := range prev {
		if _, ok := seen[o.ID]; !ok {
			ch.Gone = append(ch.Gone, o)
		}
	}
	return ch
}

// sameOrder compares every field; timestamps by instant so decoded zones don't matter.
func sameOrder(a, b model.Order) bool {
	return a.ID == b.ID &&
		a.UserID == b.UserID &&
		a.UserEmail == b.UserEmail &&
		a.UserName == b.UserName &&
		a.FoodName == b.FoodName &&
		a.Category == b.Category &&
		a.FoodType == b.FoodType &&
		a.Quantity == b.Quantity &&
		a.Price == b.Price &&
		equalPtr(a.TableNumber, b.TableNumber) &&
		slices.Equal(a.ChairIndices, b.ChairIndices) &&
		equalPtr(a.ContactNumber, b.ContactNumber) &&
		a.Status == b.Status &&
		a.PaymentStatus == b.PaymentStatus &&
		a.PaymentMethod == b.PaymentMethod &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
