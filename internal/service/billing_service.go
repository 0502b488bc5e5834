package service

import (
	"context"
	"encoding/json"
	"time"

	"shallbuy/internal/dto"
	"shallbuy/internal/entity"
	"shallbuy/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BillingConfig struct {
	SuccessURL string
	CancelURL  string
	Currency   string
}

type BillingService struct {
	users   repository.UserRepository
	plans   repository.SubscriptionRepository
	gateway BillingGateway
	logger  *logrus.Logger
	config  BillingConfig
}

func NewBillingService(
	users repository.UserRepository,
	plans repository.SubscriptionRepository,
	gateway BillingGateway,
	logger *logrus.Logger,
	config BillingConfig,
) *BillingService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BillingService{
		users:   users,
		plans:   plans,
		gateway: gateway,
		logger:  logger,
		config:  config,
	}
}

// CreateCheckoutSession builds a subscription-mode checkout for the user,
// lazily resolving a billing customer when the account has none yet. A
// quantity of twelve buys an annual term and applies the plan's coupon.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, priceID string, userID uuid.UUID, quantity int64) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if quantity <= 0 {
		quantity = 1
	}

	customerID := user.BillingCustomerID
	if customerID == "" {
		customerID, err = s.gateway.FindOrCreateCustomer(ctx, user.Email, user.Username)
		if err != nil {
			return "", upstreamError("resolve billing customer", err)
		}
		if err := s.users.SetBillingCustomerID(ctx, user.ID, customerID); err != nil {
			return "", err
		}
	}

	params := CheckoutSessionParams{
		PriceID:           priceID,
		Quantity:          quantity,
		Customer:          customerID,
		ClientReferenceID: user.ID.String(),
		SuccessURL:        s.config.SuccessURL,
		CancelURL:         s.config.CancelURL,
		Currency:          s.config.Currency,
	}
	if quantity == 12 {
		plan, err := s.plans.FindByPriceID(ctx, priceID)
		if err != nil {
			return "", err
		}
		if plan != nil {
			params.Coupon = firstCoupon(plan)
		}
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", upstreamError("create checkout session", err)
	}
	return url, nil
}

// GetSessionSubscription resolves a checkout session to the subscription it
// produced.
func (s *BillingService) GetSessionSubscription(ctx context.Context, sessionID string) (*SubscriptionDetails, error) {
	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, upstreamError("retrieve checkout session", err)
	}
	subscription, err := s.gateway.GetSubscription(ctx, session.Subscription)
	if err != nil {
		return nil, upstreamError("retrieve subscription", err)
	}
	return subscription, nil
}

// HandleWebhookEvent dispatches on the event kind. Unrecognized kinds are
// logged and acknowledged, never an error.
func (s *BillingService) HandleWebhookEvent(ctx context.Context, event dto.WebhookEvent) error {
	switch event.Type {
	case "product.updated":
		return s.handleProductUpdated(ctx, event)
	case "customer.subscription.created":
		return s.handleSubscriptionCreated(ctx, event)
	default:
		s.logger.WithField("type", event.Type).Info("unhandled webhook event")
		return nil
	}
}

// handleProductUpdated copies changed product fields onto the plan row. The
// mapping is a fixed enumeration; changed fields outside it are ignored, and
// the metadata color name lands on the theme color column.
func (s *BillingService) handleProductUpdated(ctx context.Context, event dto.WebhookEvent) error {
	var product dto.ProductObject
	if err := json.Unmarshal(event.Data.Object, &product); err != nil {
		return err
	}
	if len(event.Data.PreviousAttributes) == 0 {
		return nil
	}

	updates := map[string]any{}
	for field := range event.Data.PreviousAttributes {
		switch field {
		case "name":
			updates["name"] = product.Name
		case "description":
			updates["description"] = product.Description
		case "active":
			updates["is_active"] = product.Active
		case "metadata":
			updates["theme_color"] = product.Metadata["color_name"]
		}
	}
	if len(updates) == 0 {
		return nil
	}
	return s.plans.UpdateByPriceID(ctx, product.DefaultPrice, updates)
}

// handleSubscriptionCreated records a membership linking the user to the
// plan for the billing period. Events without a matching user or plan are
// skipped.
func (s *BillingService) handleSubscriptionCreated(ctx context.Context, event dto.WebhookEvent) error {
	var subscription dto.SubscriptionObject
	if err := json.Unmarshal(event.Data.Object, &subscription); err != nil {
		return err
	}
	if len(subscription.Items.Data) == 0 {
		s.logger.WithField("subscription", subscription.ID).Warn("subscription event without items")
		return nil
	}
	item := subscription.Items.Data[0]

	user, err := s.users.FindByBillingCustomerID(ctx, subscription.Customer)
	if err != nil {
		return err
	}
	plan, err := s.plans.FindByPriceID(ctx, item.Plan.ID)
	if err != nil {
		return err
	}
	if user == nil || plan == nil {
		s.logger.WithFields(logrus.Fields{
			"customer": subscription.Customer,
			"price_id": item.Plan.ID,
		}).Info("subscription event without matching user or plan")
		return nil
	}

	charge := entity.ChargeMonthly
	if item.Quantity == 12 {
		charge = entity.ChargeAnnual
	}

	membership := &entity.UserSubscription{
		UserID:            user.ID,
		SubscriptionID:    plan.ID,
		RegistrationDate:  time.Unix(subscription.CurrentPeriodStart, 0).UTC(),
		ExpiresAt:         time.Unix(subscription.CurrentPeriodEnd, 0).UTC(),
		BillingCustomerID: user.BillingCustomerID,
		TypeOfCharge:      charge,
	}
	return s.plans.CreateUserSubscription(ctx, membership)
}

func firstCoupon(plan *entity.Subscription) string {
	if len(plan.Coupons) == 0 {
		return ""
	}
	var coupons []string
	if err := json.Unmarshal(plan.Coupons, &coupons); err != nil || len(coupons) == 0 {
		return ""
	}
	return coupons[0]
}
