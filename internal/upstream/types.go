package upstream

import "github.com/shopspring/decimal"

// Cart mirrors the commerce backend's cart payload.
type Cart struct {
	ID        string     `json:"id"`
	AccountID string     `json:"accountId"`
	Items     []CartItem `json:"items"`
}

// CartItem is a single server-side cart line with its nested catalog data.
type CartItem struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Variant  Variant `json:"variant"`
}

// Variant carries the purchasable unit plus its imagery and product.
type Variant struct {
	ID      string          `json:"id"`
	SKU     string          `json:"sku"`
	Price   decimal.Decimal `json:"price"`
	Images  []Image         `json:"images"`
	Product Product         `json:"product"`
}

// Image is one variant image; at most one is flagged primary.
type Image struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

// Product holds the display data snapshotted onto cart lines.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand Brand  `json:"brand"`
}

// Brand supplies the fallback image when a variant has none.
type Brand struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}
