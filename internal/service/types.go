package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EmailSender delivers a rendered message. Implementations are long-lived and
// shared across requests.
type EmailSender interface {
	Send(ctx context.Context, to string, subject string, html string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type TokenIssuer interface {
	Sign(userID uuid.UUID) (string, error)
}

// BillingGateway is the consumed surface of the external subscription and
// checkout provider.
type BillingGateway interface {
	FindOrCreateCustomer(ctx context.Context, email string, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (string, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error)
}

type CheckoutSessionParams struct {
	PriceID           string
	Quantity          int64
	Customer          string
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	Currency          string
	Coupon            string
}

type CheckoutSession struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Subscription string `json:"subscription"`
}

type SubscriptionDetails struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	Status             string `json:"status"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
