package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChargeType string

const (
	ChargeMonthly ChargeType = "MONTHLY"
	ChargeAnnual  ChargeType = "ANNUAL"
)

// UserSubscription links a user to a plan for one billing period.
type UserSubscription struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;not null;index"`

	RegistrationDate  time.Time  `gorm:"not null"`
	ExpiresAt         time.Time  `gorm:"not null"`
	BillingCustomerID string     `gorm:"type:varchar(255)"`
	TypeOfCharge      ChargeType `gorm:"type:varchar(16);not null"`

	CreatedAt time.Time
}

func (s *UserSubscription) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
