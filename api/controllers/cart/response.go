package cart

import (
	cartsvc "github.com/shoplane/cartsync-backend/internal/cart"
	"github.com/shoplane/cartsync-backend/pkg/types"
)

// CartResponse is the cart view returned by every mutation, tagged with the
// session mode that produced it.
type CartResponse struct {
	SessionMode string      `json:"session_mode"`
	Cart        *types.Cart `json:"cart"`
}

func newCartResponse(sess cartsvc.Session, cart *types.Cart) CartResponse {
	if cart == nil {
		cart = types.EmptyCart()
	}
	return CartResponse{
		SessionMode: string(sess.Mode),
		Cart:        cart,
	}
}
