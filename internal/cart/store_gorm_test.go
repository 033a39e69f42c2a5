package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplane/cartsync-backend/pkg/db/models"
	"github.com/shoplane/cartsync-backend/pkg/types"
)

func setupGuestStoreDB(t *testing.T) *GormGuestStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := NewGormGuestStore(conn)
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate())
	return store
}

func TestGormGuestStoreLoadMissingReturnsEmptyCart(t *testing.T) {
	store := setupGuestStoreDB(t)

	cart, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.Zero(t, cart.TotalItems)
}

func TestGormGuestStoreSaveLoadRoundTrip(t *testing.T) {
	store := setupGuestStoreDB(t)
	ctx := context.Background()

	cart := types.EmptyCart()
	cart.Items = append(cart.Items, types.CartLine{
		ID:        "line-1",
		ProductID: "p1",
		VariantID: "v1",
		UnitPrice: decimal.RequireFromString("3.25"),
		Quantity:  2,
	})
	cart.Recalculate()

	require.NoError(t, store.Save(ctx, "guest-1", cart))

	loaded, err := store.Load(ctx, "guest-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	require.Equal(t, "line-1", loaded.Items[0].ID)
	require.Equal(t, 2, loaded.TotalItems)
	require.True(t, loaded.TotalAmount.Equal(decimal.RequireFromString("6.50")))
}

func TestGormGuestStoreSaveUpserts(t *testing.T) {
	store := setupGuestStoreDB(t)
	ctx := context.Background()

	first := types.EmptyCart()
	first.Items = append(first.Items, types.CartLine{ID: "line-1", ProductID: "p1", VariantID: "v1", Quantity: 1})
	first.Recalculate()
	require.NoError(t, store.Save(ctx, "guest-1", first))

	second := types.EmptyCart()
	second.Items = append(second.Items, types.CartLine{ID: "line-2", ProductID: "p2", VariantID: "v2", Quantity: 5})
	second.Recalculate()
	require.NoError(t, store.Save(ctx, "guest-1", second))

	loaded, err := store.Load(ctx, "guest-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	require.Equal(t, "line-2", loaded.Items[0].ID)
	require.Equal(t, 5, loaded.TotalItems)
}

func TestGormGuestStoreDeleteIsIdempotent(t *testing.T) {
	store := setupGuestStoreDB(t)
	ctx := context.Background()

	cart := types.EmptyCart()
	cart.Items = append(cart.Items, types.CartLine{ID: "line-1", ProductID: "p1", VariantID: "v1", Quantity: 1})
	cart.Recalculate()
	require.NoError(t, store.Save(ctx, "guest-1", cart))

	require.NoError(t, store.Delete(ctx, "guest-1"))
	require.NoError(t, store.Delete(ctx, "guest-1"))

	loaded, err := store.Load(ctx, "guest-1")
	require.NoError(t, err)
	require.Empty(t, loaded.Items)
}

func TestGormGuestStoreCorruptPayloadStartsOver(t *testing.T) {
	store := setupGuestStoreDB(t)
	ctx := context.Background()

	record := models.GuestCartRecord{GuestID: "guest-1", Payload: []byte("{not json")}
	require.NoError(t, store.db.WithContext(ctx).Create(&record).Error)

	loaded, err := store.Load(ctx, "guest-1")
	require.NoError(t, err)
	require.Empty(t, loaded.Items)
}
