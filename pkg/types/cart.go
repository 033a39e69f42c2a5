package types

import "github.com/shopspring/decimal"

// CartLine is a single product-variant entry in a cart. The ID is assigned by
// this service for guest lines and by the upstream backend for server lines.
type CartLine struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantSKU  string          `json:"variant_sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url"`
	BrandName   string          `json:"brand_name"`
}

// Cart is the logical cart view. TotalItems and TotalAmount are always the
// exact reduction over Items; callers mutate Items and call Recalculate,
// never the totals directly.
type Cart struct {
	Items       []CartLine      `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EmptyCart returns a cart with no items and zeroed totals.
func EmptyCart() *Cart {
	return &Cart{Items: []CartLine{}, TotalAmount: decimal.Zero}
}

// Recalculate recomputes the derived totals from the current lines.
func (c *Cart) Recalculate() {
	total := 0
	amount := decimal.Zero
	for _, line := range c.Items {
		total += line.Quantity
		amount = amount.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	c.TotalItems = total
	c.TotalAmount = amount
}

// FindLine returns the index of the line matching the product/variant pair,
// or -1 when absent.
func (c *Cart) FindLine(productID, variantID string) int {
	for i, line := range c.Items {
		if line.ProductID == productID && line.VariantID == variantID {
			return i
		}
	}
	return -1
}

// IsInCart reports whether a line for the product/variant pair exists.
func (c *Cart) IsInCart(productID, variantID string) bool {
	return c.FindLine(productID, variantID) >= 0
}

// LineQuantity returns the quantity for the product/variant pair, or zero.
func (c *Cart) LineQuantity(productID, variantID string) int {
	if i := c.FindLine(productID, variantID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}
