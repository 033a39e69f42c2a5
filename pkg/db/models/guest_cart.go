package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestCartRecord persists one serialized cart per guest session. The payload
// holds the full cart JSON; lines are never updated individually since the
// guest cart is always read-modify-written as a whole.
type GuestCartRecord struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	GuestID   string    `gorm:"column:guest_id;uniqueIndex;not null"`
	Payload   []byte    `gorm:"column:payload;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (GuestCartRecord) TableName() string {
	return "guest_carts"
}

// BeforeCreate assigns the id client-side so the model works on both the
// postgres and sqlite drivers.
func (r *GuestCartRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
