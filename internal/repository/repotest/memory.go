// Package repotest provides in-memory repositories for service and handler tests.
package repotest

import (
	"context"
	"strings"
	"sync"
	"time"

	"pos-inventory/internal/domain"
	"pos-inventory/internal/repository"
)

// Store holds every table in memory and hands out repositories over it
type Store struct {
	mu sync.Mutex

	nextID     int64
	categories map[int64]*domain.Category
	products   map[int64]*domain.Product
	orders     map[int64]*domain.Order
	users      map[int64]*domain.User
	tokens     map[string]*domain.RefreshToken

	// FailProductWrites makes product Create and Update fail with this error
	FailProductWrites error
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		categories: make(map[int64]*domain.Category),
		products:   make(map[int64]*domain.Product),
		orders:     make(map[int64]*domain.Order),
		users:      make(map[int64]*domain.User),
		tokens:     make(map[string]*domain.RefreshToken),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s} }

func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }

func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s} }

func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

func (s *Store) RefreshTokens() repository.RefreshTokenRepository { return &tokenRepo{s} }

// ProductCount returns the number of stored product rows in any state
func (s *Store) ProductCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*domain.Category{}
	for id := int64(1); id <= r.s.nextID; id++ {
		if c, ok := r.s.categories[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	category.ID = r.s.id()
	category.CreatedAt, category.UpdatedAt = now, now
	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) Update(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.categories[category.ID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return repository.ErrConstraintViolation
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r *categoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.categories[id]
	return ok, nil
}

type productRepo struct{ s *Store }

func (r *productRepo) withCategory(p *domain.Product) *domain.Product {
	cp := *p
	if c, ok := r.s.categories[p.CategoryID]; ok {
		cc := *c
		cp.Category = &cc
	}
	return &cp
}

func (r *productRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := []*domain.Product{}
	for id := r.s.nextID; id >= 1; id-- {
		p, ok := r.s.products[id]
		if !ok || !filter.Visibility.Includes(p.State) {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Favorite != nil && p.Favorite != *filter.Favorite {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			(p.Description == nil || !strings.Contains(strings.ToLower(*p.Description), search)) {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	return out, nil
}

func (r *productRepo) FindByID(ctx context.Context, id int64, visibility domain.Visibility) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok || !visibility.Includes(p.State) {
		return nil, repository.ErrProductNotFound
	}
	return r.withCategory(p), nil
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.FailProductWrites != nil {
		return r.s.FailProductWrites
	}
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return repository.ErrConstraintViolation
	}

	now := time.Now()
	product.ID = r.s.id()
	product.State = domain.StateActive
	product.DeletedAt = nil
	product.CreatedAt, product.UpdatedAt = now, now
	product.Category = nil
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *productRepo) Update(ctx context.Context, product *domain.Product, visibility domain.Visibility) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.FailProductWrites != nil {
		return r.s.FailProductWrites
	}
	existing, ok := r.s.products[product.ID]
	if !ok || !visibility.Includes(existing.State) {
		return repository.ErrProductNotFound
	}
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return repository.ErrConstraintViolation
	}

	product.State = existing.State
	product.DeletedAt = existing.DeletedAt
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	product.Category = nil
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *productRepo) transition(id int64, t domain.Transition, missing error) (*domain.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, missing
	}
	if err := p.Apply(t, time.Now()); err != nil {
		return nil, missing
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) SoftDelete(ctx context.Context, id int64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.transition(id, domain.TransitionSoftDelete, repository.ErrProductNotFound)
}

func (r *productRepo) Restore(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, err := r.transition(id, domain.TransitionRestore, repository.ErrProductNotInTrash)
	return err
}

func (r *productRepo) HardDelete(ctx context.Context, id int64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, err := r.transition(id, domain.TransitionHardDelete, repository.ErrProductNotInTrash)
	if err != nil {
		return nil, err
	}
	delete(r.s.products, id)
	return p, nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) withCashier(o *domain.Order) *domain.Order {
	cp := *o
	if u, ok := r.s.users[o.CashierID]; ok {
		cp.Cashier = &domain.Cashier{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	return &cp
}

func (r *orderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*domain.Order{}
	for id := r.s.nextID; id >= 1; id-- {
		if o, ok := r.s.orders[id]; ok {
			out = append(out, r.withCashier(o))
		}
	}
	return out, nil
}

func (r *orderRepo) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return r.withCashier(o), nil
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[order.CashierID]; !ok {
		return repository.ErrConstraintViolation
	}
	now := time.Now()
	order.ID = r.s.id()
	order.CreatedAt, order.UpdatedAt = now, now
	order.Cashier = nil
	cp := *order
	r.s.orders[order.ID] = &cp
	return nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.orders[order.ID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	updated := *existing
	updated.TotalPrice = order.TotalPrice
	updated.TotalItem = order.TotalItem
	updated.PaymentAmount = order.PaymentAmount
	updated.PaymentMethod = order.PaymentMethod
	updated.UpdatedAt = time.Now()
	r.s.orders[order.ID] = &updated
	*order = updated
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(r.s.orders, id)
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	now := time.Now()
	user.ID = r.s.id()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.users[id]
	return ok, nil
}

type tokenRepo struct{ s *Store }

func (r *tokenRepo) Create(ctx context.Context, token *domain.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token.ID = r.s.id()
	token.CreatedAt = time.Now()
	cp := *token
	r.s.tokens[token.Token] = &cp
	return nil
}

func (r *tokenRepo) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[token]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if t.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	cp := *t
	return &cp, nil
}

func (r *tokenRepo) Revoke(ctx context.Context, userID int64, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[token]
	if !ok || t.UserID != userID {
		return repository.ErrRefreshTokenNotFound
	}
	t.Revoked = true
	return nil
}

func (r *tokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}
