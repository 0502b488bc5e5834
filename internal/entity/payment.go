package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	ProviderRef string `gorm:"type:varchar(255);index"`
	Amount      int64  `gorm:"not null"`
	Currency    string `gorm:"type:varchar(8);not null"`
	Status      string `gorm:"type:varchar(32);not null"`

	CreatedAt time.Time
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
