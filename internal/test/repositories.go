package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// OrderRepositoryStub keeps orders in memory and mimics the store's last-write-wins updates.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]model.Order
	seq    int
	Err    error
	Now    func() time.Time
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]model.Order)}
}

func (s *OrderRepositoryStub) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Unix(1_700_000_000, 0).Add(time.Duration(s.seq) * time.Second)
}

// Create stores all orders or none.
func (s *OrderRepositoryStub) Create(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Orders == nil {
		s.Orders = make(map[string]model.Order)
	}
	for _, o := range orders {
		if _, exists := s.Orders[o.ID]; exists {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	created := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		s.seq++
		o.CreatedAt = s.now()
		o.UpdatedAt = o.CreatedAt
		s.Orders[o.ID] = o
		created = append(created, o)
	}
	return created, nil
}

// Get returns order by id.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

// List returns orders matching filter, newest first.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, o := range s.Orders {
		if filter.ActiveOnly && o.Status.Terminal() {
			continue
		}
		if (filter.UserID != "" || filter.UserEmail != "") && !o.BelongsTo(filter.UserID, filter.UserEmail) {
			continue
		}
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// Update applies non-nil fields.
func (s *OrderRepositoryStub) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		o.PaymentStatus = *update.PaymentStatus
	}
	if update.PaymentMethod != nil {
		o.PaymentMethod = *update.PaymentMethod
	}
	s.seq++
	o.UpdatedAt = s.now()
	s.Orders[id] = o
	return &o, nil
}

// Delete removes order by id.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Orders, id)
	return nil
}

// FoodRepositoryStub keeps the menu in memory.
type FoodRepositoryStub struct {
	mu    sync.Mutex
	Foods map[string]model.Food
	Err   error
}

// NewFoodRepositoryStub constructs stub repository with initialized map.
func NewFoodRepositoryStub() *FoodRepositoryStub {
	return &FoodRepositoryStub{Foods: make(map[string]model.Food)}
}

// Create stores menu item.
func (s *FoodRepositoryStub) Create(ctx context.Context, food model.Food) (*model.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Foods == nil {
		s.Foods = make(map[string]model.Food)
	}
	s.Foods[food.ID] = food
	return &food, nil
}

// Update replaces menu item.
func (s *FoodRepositoryStub) Update(ctx context.Context, food model.Food) (*model.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.Foods[food.ID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	s.Foods[food.ID] = food
	return &food, nil
}

// Delete removes menu item.
func (s *FoodRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Foods[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Foods, id)
	return nil
}

// List returns menu sorted by name.
func (s *FoodRepositoryStub) List(ctx context.Context) ([]model.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Food
	for _, f := range s.Foods {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// AdminRepositoryStub stores admins in-memory for tests.
type AdminRepositoryStub struct {
	ByEmail map[string]*model.Admin
	ByID    map[int64]*model.Admin
	Next    int64
	Err     error
}

// NewAdminRepositoryStub constructs stub repository with initialized maps.
func NewAdminRepositoryStub() *AdminRepositoryStub {
	return &AdminRepositoryStub{
		ByEmail: make(map[string]*model.Admin),
		ByID:    make(map[int64]*model.Admin),
		Next:    1,
	}
}

// Create registers admin unless already exists or stub has explicit error.
func (s *AdminRepositoryStub) Create(ctx context.Context, email, passwordHash string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	admin := &model.Admin{ID: s.Next, Email: email, PasswordHash: passwordHash}
	s.Next++
	s.ByEmail[email] = admin
	s.ByID[admin.ID] = admin
	return admin, nil
}

// GetByEmail fetches admin by email or returns not found.
func (s *AdminRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if admin, ok := s.ByEmail[email]; ok {
		return admin, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches admin by identifier or returns not found.
func (s *AdminRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if admin, ok := s.ByID[id]; ok {
		return admin, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns admins ordered by id.
func (s *AdminRepositoryStub) List(ctx context.Context) ([]model.Admin, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Admin, 0, len(s.ByID))
	for _, a := range s.ByID {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes admin.
func (s *AdminRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	admin, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.ByID, id)
	delete(s.ByEmail, admin.Email)
	return nil
}

// Count returns number of admins.
func (s *AdminRepositoryStub) Count(ctx context.Context) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.ByID), nil
}
