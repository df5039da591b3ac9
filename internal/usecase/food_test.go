package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/test"
)

func TestFoodUseCaseLifecycle(t *testing.T) {
	repo := test.NewFoodRepositoryStub()
	rec := &test.PublisherRecorder{}
	uc := NewFoodUseCase(repo, rec)
	uc.newID = func() string { return "food-1" }

	created, err := uc.Add(context.Background(), model.Food{Name: "  Masala Dosa ", Category: "South Indian", Price: 120, Available: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "food-1" || created.Name != "Masala Dosa" {
		t.Fatalf("unexpected food: %+v", created)
	}

	created.Price = 130
	if _, err := uc.Update(context.Background(), *created); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if err := uc.Delete(context.Background(), "food-1"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	names := rec.Names()
	want := []string{event.NameNewFoodAdded, event.NameFoodUpdated, event.NameFoodDeleted}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestFoodUseCaseRejectsInvalidAndMissing(t *testing.T) {
	repo := test.NewFoodRepositoryStub()
	rec := &test.PublisherRecorder{}
	uc := NewFoodUseCase(repo, rec)

	if _, err := uc.Add(context.Background(), model.Food{Name: " ", Price: 10}); !errors.Is(err, domainErrors.ErrInvalidFood) {
		t.Fatalf("expected invalid food, got %v", err)
	}
	if _, err := uc.Update(context.Background(), model.Food{ID: "nope", Name: "Idli", Price: 40}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := uc.Delete(context.Background(), "nope"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(rec.Events()) != 0 {
		t.Fatalf("failed operations must not emit, got %v", rec.Names())
	}
}
