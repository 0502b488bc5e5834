package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newStripeTestServer(t *testing.T, handler http.HandlerFunc) *StripeGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	gateway := NewStripeGateway("sk_test_123")
	gateway.BaseURL = server.URL
	return gateway
}

func requireBearer(t *testing.T, r *http.Request) {
	t.Helper()
	if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
		t.Errorf("unexpected authorization header %q", got)
	}
}

func TestFindOrCreateCustomerReturnsExisting(t *testing.T) {
	gateway := newStripeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		if r.Method != http.MethodGet || r.URL.Path != "/v1/customers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("email") != "a@x.com" {
			t.Errorf("unexpected email filter %q", r.URL.Query().Get("email"))
		}
		w.Write([]byte(`{"data":[{"id":"cus_existing"}]}`))
	})

	id, err := gateway.FindOrCreateCustomer(context.Background(), "a@x.com", "a")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if id != "cus_existing" {
		t.Fatalf("expected cus_existing, got %q", id)
	}
}

func TestFindOrCreateCustomerCreatesWhenMissing(t *testing.T) {
	gateway := newStripeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"data":[]}`))
			return
		}
		if r.Method != http.MethodPost || r.URL.Path != "/v1/customers" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("email") != "a@x.com" || r.PostForm.Get("name") != "a" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"id":"cus_new"}`))
	})

	id, err := gateway.FindOrCreateCustomer(context.Background(), "a@x.com", "a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "cus_new" {
		t.Fatalf("expected cus_new, got %q", id)
	}
}

func TestCreateCheckoutSessionForm(t *testing.T) {
	gateway := newStripeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requireBearer(t, r)
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		expect := map[string]string{
			"mode":                    "subscription",
			"payment_method_types[0]": "card",
			"line_items[0][price]":    "price_pro",
			"line_items[0][quantity]": "12",
			"customer":                "cus_42",
			"client_reference_id":     "user-1",
			"success_url":             "https://app.test/success",
			"cancel_url":              "https://app.test/cancel",
			"currency":                "inr",
			"discounts[0][coupon]":    "SAVE20",
		}
		for key, want := range expect {
			if got := r.PostForm.Get(key); got != want {
				t.Errorf("form %s = %q, want %q", key, got, want)
			}
		}
		w.Write([]byte(`{"id":"cs_123","url":"https://checkout.stripe.com/c/cs_123"}`))
	})

	url, err := gateway.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		PriceID:           "price_pro",
		Quantity:          12,
		Customer:          "cus_42",
		ClientReferenceID: "user-1",
		SuccessURL:        "https://app.test/success",
		CancelURL:         "https://app.test/cancel",
		Currency:          "inr",
		Coupon:            "SAVE20",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if url != "https://checkout.stripe.com/c/cs_123" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestGetCheckoutSessionAndSubscription(t *testing.T) {
	gateway := newStripeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/checkout/sessions/cs_123":
			w.Write([]byte(`{"id":"cs_123","subscription":"sub_9"}`))
		case "/v1/subscriptions/sub_9":
			w.Write([]byte(`{"id":"sub_9","customer":"cus_42","status":"active","current_period_start":1748736000,"current_period_end":1751328000}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	session, err := gateway.GetCheckoutSession(context.Background(), "cs_123")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.Subscription != "sub_9" {
		t.Fatalf("expected sub_9, got %q", session.Subscription)
	}

	subscription, err := gateway.GetSubscription(context.Background(), session.Subscription)
	if err != nil {
		t.Fatalf("subscription: %v", err)
	}
	if subscription.Status != "active" || subscription.Customer != "cus_42" {
		t.Fatalf("unexpected subscription %+v", subscription)
	}
	if subscription.CurrentPeriodStart != 1748736000 || subscription.CurrentPeriodEnd != 1751328000 {
		t.Fatalf("unexpected period %d-%d", subscription.CurrentPeriodStart, subscription.CurrentPeriodEnd)
	}
}

func TestStripeErrorStatus(t *testing.T) {
	gateway := newStripeTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	})

	_, err := gateway.FindOrCreateCustomer(context.Background(), "a@x.com", "a")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "stripe request failed with status 402: Your card was declined." {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestStripeUnconfigured(t *testing.T) {
	gateway := NewStripeGateway("")
	if _, err := gateway.FindOrCreateCustomer(context.Background(), "a@x.com", "a"); err == nil {
		t.Fatal("expected error when the api key is empty")
	}
}
