package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/shoplane/cartsync-backend/internal/cart"
)

// AddItemRequest carries the add-line payload. Authenticated sessions only
// need variant_id and quantity; guest sessions also supply the display
// snapshot, which the service enforces per mode.
type AddItemRequest struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id" validate:"required"`
	ProductName string          `json:"product_name"`
	VariantSKU  string          `json:"variant_sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	ImageURL    string          `json:"image_url"`
	BrandName   string          `json:"brand_name"`
}

func toAddItemInput(req AddItemRequest) cartsvc.AddItemInput {
	return cartsvc.AddItemInput{
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		ProductName: req.ProductName,
		VariantSKU:  req.VariantSKU,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
		BrandName:   req.BrandName,
	}
}
