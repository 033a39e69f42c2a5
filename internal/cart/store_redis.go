package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
	"github.com/shoplane/cartsync-backend/pkg/redis"
	"github.com/shoplane/cartsync-backend/pkg/types"
)

// RedisGuestStore keeps each guest cart under a single namespaced key holding
// the serialized cart JSON, refreshed with the configured TTL on every write.
type RedisGuestStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuestStore builds the redis-backed guest store.
func NewRedisGuestStore(client *redis.Client, ttl time.Duration) (*RedisGuestStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("guest cart ttl must be positive")
	}
	return &RedisGuestStore{client: client, ttl: ttl}, nil
}

// Load returns the guest's cart, or an empty cart when none is stored.
func (s *RedisGuestStore) Load(ctx context.Context, guestID string) (*types.Cart, error) {
	payload, err := s.client.GetGuestCart(ctx, guestID)
	if err != nil {
		if redis.IsNil(err) {
			return types.EmptyCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
	}

	var cart types.Cart
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		// Corrupt payloads are unrecoverable; start the guest over rather
		// than wedging every cart operation.
		return types.EmptyCart(), nil
	}
	if cart.Items == nil {
		cart.Items = []types.CartLine{}
	}
	cart.Recalculate()
	return &cart, nil
}

// Save overwrites the guest's serialized cart.
func (s *RedisGuestStore) Save(ctx context.Context, guestID string, cart *types.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal guest cart")
	}
	if err := s.client.StoreGuestCart(ctx, guestID, string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest cart")
	}
	return nil
}

// Delete removes the guest's cart key.
func (s *RedisGuestStore) Delete(ctx context.Context, guestID string) error {
	if err := s.client.DeleteGuestCart(ctx, guestID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete guest cart")
	}
	return nil
}
