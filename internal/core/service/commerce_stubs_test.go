package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	seq      int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	product.ID = fmt.Sprintf("product-%d", r.seq)
	cp := *product
	r.products[product.ID] = &cp
	return product, nil
}

func (r *fakeProductRepo) FindActiveByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || !p.IsActive || p.IsDeleted {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(ctx context.Context, in ports.ListProductsInput) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.products {
		if !p.IsActive || p.IsDeleted {
			continue
		}
		if in.Category != "" && p.Category != in.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id string, patch ports.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return nil, domain.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsDeleted = true
	p.IsActive = false
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
	seq   int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *fakeCartRepo) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cart.ID = fmt.Sprintf("cart-%d", r.seq)
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	r.carts[cart.ID] = &cp
	return cart, nil
}

func (r *fakeCartRepo) FindActiveByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.carts {
		if c.UserID == userID && c.IsActive && !c.IsDeleted {
			cp := *c
			cp.Items = append([]domain.CartItem(nil), c.Items...)
			return &cp, nil
		}
	}
	return nil, domain.ErrCartNotFound
}

func (r *fakeCartRepo) ReplaceItems(ctx context.Context, cartID string, items []domain.CartItem) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	c.Items = append([]domain.CartItem(nil), items...)
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	return &cp, nil
}

func (r *fakeCartRepo) SoftDelete(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[cartID]
	if !ok {
		return domain.ErrCartNotFound
	}
	c.IsDeleted = true
	c.IsActive = false
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	seq    int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	order.ID = fmt.Sprintf("order-%d", r.seq)
	cp := *order
	r.orders[order.OrderNumber] = &cp
	return order, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderNumber]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, in ports.ListOrdersInput) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if in.UserID != "" && o.UserID != in.UserID {
			continue
		}
		if in.Status != "" && string(o.Status) != in.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, ts time.Time, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderNumber]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, domain.StatusHistoryEntry{Status: status, Timestamp: ts, Notes: notes})
	return nil
}

type stubDispatcher struct {
	mu       sync.Mutex
	enqueued []ports.OrderNotification
}

func (d *stubDispatcher) Enqueue(n ports.OrderNotification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enqueued = append(d.enqueued, n)
}
