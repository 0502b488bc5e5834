package dto

import "encoding/json"

type CheckoutRequest struct {
	PriceID  string `json:"priceId" validate:"required"`
	UserID   string `json:"userId" validate:"required,uuid"`
	Quantity int64  `json:"quantity" validate:"omitempty,min=1"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// WebhookEvent mirrors the envelope the billing provider posts: an event
// kind plus the affected object and, for updates, the set of changed fields.
type WebhookEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

type WebhookEventData struct {
	Object             json.RawMessage            `json:"object"`
	PreviousAttributes map[string]json.RawMessage `json:"previous_attributes"`
}

type ProductObject struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Active       bool              `json:"active"`
	DefaultPrice string            `json:"default_price"`
	Metadata     map[string]string `json:"metadata"`
}

type SubscriptionObject struct {
	ID                 string `json:"id"`
	Customer           string `json:"customer"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	Items              struct {
		Data []SubscriptionItem `json:"data"`
	} `json:"items"`
}

type SubscriptionItem struct {
	Plan struct {
		ID string `json:"id"`
	} `json:"plan"`
	Quantity int64 `json:"quantity"`
}
