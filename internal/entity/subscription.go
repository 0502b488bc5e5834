package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subscription is a catalog row for a purchasable plan, keyed by the
// billing provider's price id.
type Subscription struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`

	PriceID    string `gorm:"column:price_id_stripe;type:varchar(255);uniqueIndex;not null"`
	IsActive   bool   `gorm:"default:true;not null"`
	ThemeColor string `gorm:"type:varchar(32)"`

	Coupons datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
