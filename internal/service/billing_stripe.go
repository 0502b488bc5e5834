package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeGateway talks to the Stripe REST API over plain HTTP with bearer
// auth and form-encoded bodies; only the four endpoints the account flows
// need are implemented.
type StripeGateway struct {
	APIKey     string
	HTTPClient *http.Client
	BaseURL    string
}

func NewStripeGateway(apiKey string) *StripeGateway {
	return &StripeGateway{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    "https://api.stripe.com",
	}
}

type stripeCustomer struct {
	ID string `json:"id"`
}

type stripeCustomerList struct {
	Data []stripeCustomer `json:"data"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *StripeGateway) FindOrCreateCustomer(ctx context.Context, email string, name string) (string, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("limit", "1")

	var list stripeCustomerList
	if err := g.do(ctx, http.MethodGet, "/v1/customers?"+query.Encode(), nil, &list); err != nil {
		return "", err
	}
	if len(list.Data) > 0 {
		return list.Data[0].ID, nil
	}

	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)

	var customer stripeCustomer
	if err := g.do(ctx, http.MethodPost, "/v1/customers", form, &customer); err != nil {
		return "", err
	}
	return customer.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (string, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", strconv.FormatInt(params.Quantity, 10))
	form.Set("customer", params.Customer)
	form.Set("client_reference_id", params.ClientReferenceID)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.Currency != "" {
		form.Set("currency", params.Currency)
	}
	if params.Coupon != "" {
		form.Set("discounts[0][coupon]", params.Coupon)
	}

	var session CheckoutSession
	if err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return "", err
	}
	return session.URL, nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := g.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error) {
	var subscription SubscriptionDetails
	if err := g.do(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(subscriptionID), nil, &subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (g *StripeGateway) do(ctx context.Context, method string, path string, form url.Values, target any) error {
	if strings.TrimSpace(g.APIKey) == "" {
		return fmt.Errorf("billing gateway not configured")
	}
	if g.HTTPClient == nil {
		g.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	request, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+g.APIKey)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	response, err := g.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		var apiErr stripeError
		if err := json.NewDecoder(response.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe request failed with status %d: %s", response.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe request failed with status %d", response.StatusCode)
	}
	return json.NewDecoder(response.Body).Decode(target)
}
