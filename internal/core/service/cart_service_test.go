package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

func newCartStack(t *testing.T) (*fakeCartRepo, *fakeProductRepo, *CartService) {
	t.Helper()
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	svc := NewCartService(carts, products, zerolog.Nop())
	return carts, products, svc
}

func seedProduct(t *testing.T, products *fakeProductRepo, name string, price float64) *domain.Product {
	t.Helper()
	p, err := products.Create(context.Background(), &domain.Product{
		Name:     name,
		Price:    price,
		Currency: "USD",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	_, products, svc := newCartStack(t)
	p := seedProduct(t, products, "mug", 9.5)

	cart, err := svc.AddItem(context.Background(), "user-1", p.ID, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Qty != 2 {
		t.Fatalf("unexpected cart contents: %+v", cart.Items)
	}
}

func TestAddItem_BumpsExistingLine(t *testing.T) {
	_, products, svc := newCartStack(t)
	p := seedProduct(t, products, "mug", 9.5)

	if _, err := svc.AddItem(context.Background(), "user-1", p.ID, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), "user-1", p.ID, 3)
	if err != nil {
		t.Fatalf("add item again: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Qty != 5 {
		t.Fatalf("expected one line with qty 5, got %+v", cart.Items)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	_, _, svc := newCartStack(t)

	if _, err := svc.AddItem(context.Background(), "user-1", "missing", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpdateItem_SetsQuantity(t *testing.T) {
	_, products, svc := newCartStack(t)
	p := seedProduct(t, products, "mug", 9.5)

	if _, err := svc.AddItem(context.Background(), "user-1", p.ID, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	cart, err := svc.UpdateItem(context.Background(), "user-1", p.ID, 7)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if cart.Items[0].Qty != 7 {
		t.Fatalf("expected qty 7, got %d", cart.Items[0].Qty)
	}
}

func TestRemoveItem_DropsLine(t *testing.T) {
	_, products, svc := newCartStack(t)
	mug := seedProduct(t, products, "mug", 9.5)
	pen := seedProduct(t, products, "pen", 1.5)

	if _, err := svc.AddItem(context.Background(), "user-1", mug.ID, 1); err != nil {
		t.Fatalf("add mug: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), "user-1", pen.ID, 1); err != nil {
		t.Fatalf("add pen: %v", err)
	}

	cart, err := svc.RemoveItem(context.Background(), "user-1", mug.ID)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != pen.ID {
		t.Fatalf("unexpected cart after removal: %+v", cart.Items)
	}

	if _, err := svc.RemoveItem(context.Background(), "user-1", mug.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("removing an absent line must fail, got %v", err)
	}
}

func TestClear_EmptiesCart(t *testing.T) {
	carts, products, svc := newCartStack(t)
	p := seedProduct(t, products, "mug", 9.5)

	if _, err := svc.AddItem(context.Background(), "user-1", p.ID, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := svc.Clear(context.Background(), "user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	cart, err := carts.FindActiveByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("find cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart not emptied: %+v", cart.Items)
	}
}
