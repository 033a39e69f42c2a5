package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func sampleCart() *Cart {
	cart := EmptyCart()
	cart.Items = append(cart.Items,
		CartLine{ID: "l1", ProductID: "p1", VariantID: "v1", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 2},
		CartLine{ID: "l2", ProductID: "p2", VariantID: "v2", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1},
	)
	cart.Recalculate()
	return cart
}

func TestEmptyCart(t *testing.T) {
	cart := EmptyCart()
	if cart.Items == nil || len(cart.Items) != 0 {
		t.Fatalf("expected initialized empty items slice")
	}
	if cart.TotalItems != 0 || !cart.TotalAmount.IsZero() {
		t.Fatalf("expected zeroed totals, got %d / %s", cart.TotalItems, cart.TotalAmount)
	}
}

func TestRecalculateDerivesTotals(t *testing.T) {
	cart := sampleCart()
	if cart.TotalItems != 3 {
		t.Fatalf("expected 3 total items, got %d", cart.TotalItems)
	}
	if want := decimal.RequireFromString("15.00"); !cart.TotalAmount.Equal(want) {
		t.Fatalf("expected amount %s, got %s", want, cart.TotalAmount)
	}

	cart.Items = cart.Items[:1]
	cart.Recalculate()
	if cart.TotalItems != 2 {
		t.Fatalf("totals should track mutations, got %d", cart.TotalItems)
	}
	if want := decimal.RequireFromString("5.00"); !cart.TotalAmount.Equal(want) {
		t.Fatalf("expected amount %s, got %s", want, cart.TotalAmount)
	}
}

func TestFindLineAndLookupHelpers(t *testing.T) {
	cart := sampleCart()

	if i := cart.FindLine("p1", "v1"); i != 0 {
		t.Fatalf("expected index 0, got %d", i)
	}
	if i := cart.FindLine("p1", "v2"); i != -1 {
		t.Fatalf("pair match must include both ids, got %d", i)
	}

	if !cart.IsInCart("p2", "v2") {
		t.Fatalf("expected p2/v2 in cart")
	}
	if cart.IsInCart("p3", "v3") {
		t.Fatalf("did not expect p3/v3 in cart")
	}

	if qty := cart.LineQuantity("p1", "v1"); qty != 2 {
		t.Fatalf("expected quantity 2, got %d", qty)
	}
	if qty := cart.LineQuantity("p3", "v3"); qty != 0 {
		t.Fatalf("expected quantity 0 for absent pair, got %d", qty)
	}
}
