package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shoplane/cartsync-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
	"github.com/shoplane/cartsync-backend/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGuestStore is the durable guest-store variant, one row per guest id
// with the cart serialized into a payload column. Used where guest carts must
// survive a redis flush.
type GormGuestStore struct {
	db *gorm.DB
}

// NewGormGuestStore builds the SQL-backed guest store.
func NewGormGuestStore(db *gorm.DB) (*GormGuestStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm connection required")
	}
	return &GormGuestStore{db: db}, nil
}

// AutoMigrate creates the guest_carts table when the dev flag enables it.
func (s *GormGuestStore) AutoMigrate() error {
	return s.db.AutoMigrate(&models.GuestCartRecord{})
}

// Load returns the guest's cart, or an empty cart when no row exists.
func (s *GormGuestStore) Load(ctx context.Context, guestID string) (*types.Cart, error) {
	var record models.GuestCartRecord
	err := s.db.WithContext(ctx).Where("guest_id = ?", guestID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.EmptyCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
	}

	var cart types.Cart
	if err := json.Unmarshal(record.Payload, &cart); err != nil {
		return types.EmptyCart(), nil
	}
	if cart.Items == nil {
		cart.Items = []types.CartLine{}
	}
	cart.Recalculate()
	return &cart, nil
}

// Save upserts the guest's serialized cart.
func (s *GormGuestStore) Save(ctx context.Context, guestID string, cart *types.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal guest cart")
	}

	record := models.GuestCartRecord{GuestID: guestID, Payload: payload}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save guest cart")
	}
	return nil
}

// Delete removes the guest's row; deleting a missing row is a no-op.
func (s *GormGuestStore) Delete(ctx context.Context, guestID string) error {
	err := s.db.WithContext(ctx).Where("guest_id = ?", guestID).Delete(&models.GuestCartRecord{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete guest cart")
	}
	return nil
}
