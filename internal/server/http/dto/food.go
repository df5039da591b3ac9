package dto

import "github.com/polkiloo/foodcourt/internal/domain/model"

// FoodRequest describes menu item payload.
type FoodRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Available *bool   `json:"available,omitempty"`
}

// Food converts request to domain model; items are available unless stated otherwise.
func (r FoodRequest) Food(id string) model.Food {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return model.Food{
		ID:        id,
		Name:      r.Name,
		Category:  r.Category,
		Type:      r.Type,
		Price:     r.Price,
		ImageURL:  r.ImageURL,
		Available: available,
	}
}
