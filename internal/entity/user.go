package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileType string

const (
	ProfileIndividual ProfileType = "individual"
	ProfileBusiness   ProfileType = "business"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	CountryCode  string    `gorm:"type:varchar(8);not null"`
	PhoneNumber  string    `gorm:"type:varchar(32);not null"`

	ProfileType ProfileType `gorm:"type:varchar(16);default:'individual';not null"`
	CompanyName *string     `gorm:"type:varchar(255)"`

	// Empty until the first billing interaction resolves a customer.
	BillingCustomerID string `gorm:"type:varchar(255);index"`

	EmailVerified              bool `gorm:"default:false;not null"`
	EmailVerificationCode      *string
	EmailVerificationExpiresAt *time.Time

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Addresses     []Address
	Subscriptions []UserSubscription
	Payments      []Payment
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
