package repository

import (
	"context"
	"errors"

	"shallbuy/internal/entity"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	FindByPriceID(ctx context.Context, priceID string) (*entity.Subscription, error)
	UpdateByPriceID(ctx context.Context, priceID string, updates map[string]any) error
	CreateUserSubscription(ctx context.Context, membership *entity.UserSubscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) FindByPriceID(ctx context.Context, priceID string) (*entity.Subscription, error) {
	var subscription entity.Subscription
	err := r.db.WithContext(ctx).
		Where("price_id_stripe = ?", priceID).
		First(&subscription).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subscription, err
}

func (r *subscriptionRepository) UpdateByPriceID(ctx context.Context, priceID string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&entity.Subscription{}).
		Where("price_id_stripe = ?", priceID).
		Updates(updates).
		Error
}

func (r *subscriptionRepository) CreateUserSubscription(ctx context.Context, membership *entity.UserSubscription) error {
	return r.db.WithContext(ctx).Create(membership).Error
}
