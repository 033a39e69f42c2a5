package cart

import (
	"context"

	"github.com/shoplane/cartsync-backend/internal/upstream"
	"github.com/shoplane/cartsync-backend/pkg/types"
)

// ServerGateway is the narrow surface of the commerce backend's cart API used
// by the reconciliation service.
type ServerGateway interface {
	FetchCart(ctx context.Context, token string) (*upstream.Cart, error)
	AddItem(ctx context.Context, token string, params upstream.AddItemParams) (*upstream.Cart, error)
	UpdateItem(ctx context.Context, token, itemID string, quantity int) (*upstream.Cart, error)
	RemoveItem(ctx context.Context, token, itemID string) (*upstream.Cart, error)
	ClearCart(ctx context.Context, token string) (*upstream.Cart, error)
}

// GuestStore persists guest carts keyed by guest id. Load returns an empty
// cart, not an error, when no cart exists yet; the guest store is the only
// copy of a guest cart and must never be dropped on a failed remote call.
type GuestStore interface {
	Load(ctx context.Context, guestID string) (*types.Cart, error)
	Save(ctx context.Context, guestID string, cart *types.Cart) error
	Delete(ctx context.Context, guestID string) error
}
