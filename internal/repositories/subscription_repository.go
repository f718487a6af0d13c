package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mendpath/internal/models/db_models"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *db_models.Subscription) error
	GetCurrentByUser(ctx context.Context, userId uuid.UUID) (*db_models.Subscription, error)
	GetByProviderSubID(ctx context.Context, providerSubID string) (*db_models.Subscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.SubscriptionStatus, canceledAt *int64) error

	CreatePayment(ctx context.Context, payment *db_models.Payment) error
	GetPaymentByProviderTxnID(ctx context.Context, providerTxnID string) (*db_models.Payment, error)
	MarkPaymentPaid(ctx context.Context, id uuid.UUID, paidAt int64, receipt []byte) error
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) GetCurrentByUser(ctx context.Context, userId uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("ends_at DESC").
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepository) GetByProviderSubID(ctx context.Context, providerSubID string) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := r.db.WithContext(ctx).
		Where("provider_sub_id = ?", providerSubID).
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.SubscriptionStatus, canceledAt *int64) error {
	fields := map[string]interface{}{"status": status}
	if canceledAt != nil {
		fields["canceled_at"] = *canceledAt
	}
	return r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *subscriptionRepository) CreatePayment(ctx context.Context, payment *db_models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *subscriptionRepository) GetPaymentByProviderTxnID(ctx context.Context, providerTxnID string) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := r.db.WithContext(ctx).
		Where("provider_txn_id = ?", providerTxnID).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

func (r *subscriptionRepository) MarkPaymentPaid(ctx context.Context, id uuid.UUID, paidAt int64, receipt []byte) error {
	fields := map[string]interface{}{
		"status":  db_models.PaymentPaid,
		"paid_at": paidAt,
	}
	if receipt != nil {
		fields["receipt"] = receipt
	}
	return r.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *subscriptionRepository) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ?", id).
		Update("status", db_models.PaymentFailed).Error
}
