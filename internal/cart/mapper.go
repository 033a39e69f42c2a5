package cart

import (
	"github.com/shoplane/cartsync-backend/internal/upstream"
	"github.com/shoplane/cartsync-backend/pkg/types"
)

// FromUpstream converts the server cart payload into the internal view. A nil
// or empty payload maps to an empty cart; the backend is authoritative, so no
// field is second-guessed beyond dropping non-positive quantities.
func FromUpstream(remote *upstream.Cart) *types.Cart {
	cart := types.EmptyCart()
	if remote == nil {
		return cart
	}

	for _, item := range remote.Items {
		if item.Quantity < 1 {
			continue
		}
		cart.Items = append(cart.Items, types.CartLine{
			ID:          item.ID,
			ProductID:   item.Variant.Product.ID,
			VariantID:   item.Variant.ID,
			ProductName: item.Variant.Product.Name,
			VariantSKU:  item.Variant.SKU,
			UnitPrice:   item.Variant.Price,
			Quantity:    item.Quantity,
			ImageURL:    lineImageURL(item.Variant),
			BrandName:   item.Variant.Product.Brand.Name,
		})
	}

	cart.Recalculate()
	return cart
}

// lineImageURL picks the primary image, else the first image, else the brand
// logo.
func lineImageURL(variant upstream.Variant) string {
	for _, img := range variant.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(variant.Images) > 0 {
		return variant.Images[0].URL
	}
	return variant.Product.Brand.LogoURL
}
