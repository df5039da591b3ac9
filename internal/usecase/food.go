package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
)

// FoodUseCase manages the menu. Menu changes are broadcast to every client.
type FoodUseCase struct {
	foods     repository.FoodRepository
	publisher event.Publisher
	newID     func() string
}

// NewFoodUseCase constructs FoodUseCase.
func NewFoodUseCase(foods repository.FoodRepository, publisher event.Publisher) *FoodUseCase {
	if publisher == nil {
		publisher = event.Discard
	}
	return &FoodUseCase{foods: foods, publisher: publisher, newID: uuid.NewString}
}

// Add creates menu item.
func (u *FoodUseCase) Add(ctx context.Context, food model.Food) (*model.Food, error) {
	food.Name = strings.TrimSpace(food.Name)
	if err := ValidateFood(food); err != nil {
		return nil, err
	}
	food.ID = u.newID()

	created, err := u.foods.Create(ctx, food)
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(context.WithoutCancel(ctx), event.NewFoodAdded{Food: *created})
	return created, nil
}

// Update replaces menu item fields.
func (u *FoodUseCase) Update(ctx context.Context, food model.Food) (*model.Food, error) {
	food.Name = strings.TrimSpace(food.Name)
	if err := ValidateFood(food); err != nil {
		return nil, err
	}

	updated, err := u.foods.Update(ctx, food)
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(context.WithoutCancel(ctx), event.FoodUpdated{Food: *updated})
	return updated, nil
}

// Delete removes menu item.
func (u *FoodUseCase) Delete(ctx context.Context, id string) error {
	if err := u.foods.Delete(ctx, id); err != nil {
		return err
	}
	u.publisher.Publish(context.WithoutCancel(ctx), event.FoodDeleted{FoodID: id})
	return nil
}

// List returns the menu.
func (u *FoodUseCase) List(ctx context.Context) ([]model.Food, error) {
	return u.foods.List(ctx)
}
