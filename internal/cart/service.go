package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/shoplane/cartsync-backend/internal/upstream"
	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
	"github.com/shoplane/cartsync-backend/pkg/logger"
	"github.com/shoplane/cartsync-backend/pkg/metrics"
	"github.com/shoplane/cartsync-backend/pkg/types"
)

// Service maintains a single logical cart view per session, regardless of
// whether the backing store is the guest store or the upstream backend, and
// migrates guest carts to the server exactly once on login.
//
// Overlapping mutations from the same session are last-write-wins: guest
// operations are read-modify-write with no version stamp, and server
// operations adopt whatever cart the upstream returns. The upstream API
// exposes no version token, so no compare-and-swap is possible here.
type Service interface {
	Get(ctx context.Context, sess Session) (*types.Cart, error)
	AddItem(ctx context.Context, sess Session, input AddItemInput) (*types.Cart, error)
	UpdateQuantity(ctx context.Context, sess Session, itemID string, quantity int) (*types.Cart, error)
	RemoveItem(ctx context.Context, sess Session, itemID string) (*types.Cart, error)
	Clear(ctx context.Context, sess Session) (*types.Cart, error)
	ReconcileOnLogin(ctx context.Context, sess Session) (*types.Cart, error)
	Lookup(ctx context.Context, sess Session, productID, variantID string) (*LookupResult, error)
}

type service struct {
	gateway ServerGateway
	guest   GuestStore
	metrics *metrics.CartMetrics
	logg    *logger.Logger
}

// NewService builds the reconciliation service backed by the provided stack.
func NewService(gateway ServerGateway, guest GuestStore, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("server gateway required")
	}
	if guest == nil {
		return nil, fmt.Errorf("guest store required")
	}
	return &service{
		gateway: gateway,
		guest:   guest,
		metrics: cartMetrics,
		logg:    logg,
	}, nil
}

// AddItemInput captures the payload for adding a line. Authenticated sessions
// only need the variant and quantity; guest sessions carry the full display
// snapshot since there is no catalog to join against later.
type AddItemInput struct {
	ProductID   string
	VariantID   string
	ProductName string
	VariantSKU  string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageURL    string
	BrandName   string
}

// LookupResult answers the pure isInCart/lineQuantity queries.
type LookupResult struct {
	InCart   bool `json:"in_cart"`
	Quantity int  `json:"quantity"`
}

// Get returns the session's current cart view.
func (s *service) Get(ctx context.Context, sess Session) (*types.Cart, error) {
	cart, err := s.get(ctx, sess)
	s.count("get", sess, err)
	return cart, err
}

func (s *service) get(ctx context.Context, sess Session) (*types.Cart, error) {
	if err := sess.validate(); err != nil {
		return nil, err
	}
	if sess.Authenticated() {
		remote, err := s.gateway.FetchCart(ctx, sess.AccessToken)
		if err != nil {
			return nil, err
		}
		return FromUpstream(remote), nil
	}
	return s.guest.Load(ctx, sess.GuestID)
}

// AddItem adds quantity of a variant to the cart. Guest lines merge on the
// (product, variant) pair; a new pair appends a fresh line with a generated
// id.
func (s *service) AddItem(ctx context.Context, sess Session, input AddItemInput) (*types.Cart, error) {
	cart, err := s.addItem(ctx, sess, input)
	s.count("add_item", sess, err)
	return cart, err
}

func (s *service) addItem(ctx context.Context, sess Session, input AddItemInput) (*types.Cart, error) {
	if err := sess.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.VariantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if sess.Authenticated() {
		remote, err := s.gateway.AddItem(ctx, sess.AccessToken, upstream.AddItemParams{
			VariantID: input.VariantID,
			Quantity:  input.Quantity,
		})
		if err != nil {
			return nil, err
		}
		return FromUpstream(remote), nil
	}

	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	cart, err := s.guest.Load(ctx, sess.GuestID)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLine(input.ProductID, input.VariantID); i >= 0 {
		cart.Items[i].Quantity += input.Quantity
	} else {
		cart.Items = append(cart.Items, types.CartLine{
			ID:          uuid.NewString(),
			ProductID:   input.ProductID,
			VariantID:   input.VariantID,
			ProductName: input.ProductName,
			VariantSKU:  input.VariantSKU,
			UnitPrice:   input.UnitPrice,
			Quantity:    input.Quantity,
			ImageURL:    input.ImageURL,
			BrandName:   input.BrandName,
		})
	}

	cart.Recalculate()
	if err := s.guest.Save(ctx, sess.GuestID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a line's quantity directly; a quantity of zero or less
// removes the line.
func (s *service) UpdateQuantity(ctx context.Context, sess Session, itemID string, quantity int) (*types.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sess, itemID)
	}
	cart, err := s.updateQuantity(ctx, sess, itemID, quantity)
	s.count("update_quantity", sess, err)
	return cart, err
}

func (s *service) updateQuantity(ctx context.Context, sess Session, itemID string, quantity int) (*types.Cart, error) {
	if err := sess.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	if sess.Authenticated() {
		remote, err := s.gateway.UpdateItem(ctx, sess.AccessToken, itemID, quantity)
		if err != nil {
			return nil, err
		}
		return FromUpstream(remote), nil
	}

	cart, err := s.guest.Load(ctx, sess.GuestID)
	if err != nil {
		return nil, err
	}

	updated := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			updated = true
			break
		}
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	cart.Recalculate()
	if err := s.guest.Save(ctx, sess.GuestID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line. Removing an id that is already gone is a no-op
// so a double-tap in the UI cannot fail.
func (s *service) RemoveItem(ctx context.Context, sess Session, itemID string) (*types.Cart, error) {
	cart, err := s.removeItem(ctx, sess, itemID)
	s.count("remove_item", sess, err)
	return cart, err
}

func (s *service) removeItem(ctx context.Context, sess Session, itemID string) (*types.Cart, error) {
	if err := sess.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	if sess.Authenticated() {
		remote, err := s.gateway.RemoveItem(ctx, sess.AccessToken, itemID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return s.get(ctx, sess)
			}
			return nil, err
		}
		return FromUpstream(remote), nil
	}

	cart, err := s.guest.Load(ctx, sess.GuestID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, line := range cart.Items {
		if line.ID != itemID {
			kept = append(kept, line)
		}
	}
	cart.Items = kept

	cart.Recalculate()
	if err := s.guest.Save(ctx, sess.GuestID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear removes every line from the session's cart.
func (s *service) Clear(ctx context.Context, sess Session) (*types.Cart, error) {
	cart, err := s.clear(ctx, sess)
	s.count("clear", sess, err)
	return cart, err
}

func (s *service) clear(ctx context.Context, sess Session) (*types.Cart, error) {
	if err := sess.validate(); err != nil {
		return nil, err
	}

	if sess.Authenticated() {
		remote, err := s.gateway.ClearCart(ctx, sess.AccessToken)
		if err != nil {
			return nil, err
		}
		return FromUpstream(remote), nil
	}

	cart := types.EmptyCart()
	if err := s.guest.Save(ctx, sess.GuestID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ReconcileOnLogin migrates the guest cart into the server cart. Each guest
// line is replayed as a server add; the adds are independent and carry an
// idempotency key derived from the guest line, so a retried merge after a
// partial failure replays the same keys instead of double-adding. The guest
// store is cleared only after every line has landed; on any failure the guest
// cart is left untouched.
func (s *service) ReconcileOnLogin(ctx context.Context, sess Session) (*types.Cart, error) {
	start := time.Now()
	cart, merged, err := s.reconcile(ctx, sess)
	s.count("reconcile", sess, err)
	if err == nil {
		s.metrics.ObserveMerge(time.Since(start), merged)
	}
	return cart, err
}

func (s *service) reconcile(ctx context.Context, sess Session) (*types.Cart, int, error) {
	if !sess.Authenticated() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "reconcile requires an authenticated session")
	}
	if err := sess.validate(); err != nil {
		return nil, 0, err
	}
	if sess.GuestID == "" {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "guest id is required")
	}

	guestCart, err := s.guest.Load(ctx, sess.GuestID)
	if err != nil {
		return nil, 0, err
	}

	if len(guestCart.Items) == 0 {
		remote, err := s.gateway.FetchCart(ctx, sess.AccessToken)
		if err != nil {
			return nil, 0, err
		}
		return FromUpstream(remote), 0, nil
	}

	var mergeErr error
	for _, line := range guestCart.Items {
		_, err := s.gateway.AddItem(ctx, sess.AccessToken, upstream.AddItemParams{
			VariantID:      line.VariantID,
			Quantity:       line.Quantity,
			IdempotencyKey: mergeKey(sess.GuestID, line.ID),
		})
		if err != nil {
			mergeErr = multierr.Append(mergeErr, fmt.Errorf("merge line %s: %w", line.ID, err))
		}
	}
	if mergeErr != nil {
		if s.logg != nil {
			ctx := s.logg.WithGuestID(ctx, sess.GuestID)
			s.logg.Error(ctx, "cart.merge_failed", mergeErr)
		}
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, mergeErr, "merge guest cart")
	}

	if err := s.guest.Delete(ctx, sess.GuestID); err != nil {
		return nil, 0, err
	}

	remote, err := s.gateway.FetchCart(ctx, sess.AccessToken)
	if err != nil {
		return nil, 0, err
	}
	return FromUpstream(remote), len(guestCart.Items), nil
}

// Lookup answers whether a product/variant pair is in the cart and at what
// quantity.
func (s *service) Lookup(ctx context.Context, sess Session, productID, variantID string) (*LookupResult, error) {
	if strings.TrimSpace(productID) == "" || strings.TrimSpace(variantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id and variant id are required")
	}
	cart, err := s.get(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &LookupResult{
		InCart:   cart.IsInCart(productID, variantID),
		Quantity: cart.LineQuantity(productID, variantID),
	}, nil
}

func (s *service) count(operation string, sess Session, err error) {
	s.metrics.IncOperation(operation, string(sess.Mode), err == nil)
}

func mergeKey(guestID, lineID string) string {
	return fmt.Sprintf("merge-%s-%s", guestID, lineID)
}
