package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mendpath/internal/models/db_models"
)

type UserRepository interface {
	InsertTx(user *db_models.User, ctx context.Context) error
	FindById(ctx context.Context, id string) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	UpdateCodeName(ctx context.Context, id string, codeName string) error
	UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error
	UpdateSubscriptionSnapshot(ctx context.Context, id string, status db_models.SubscriptionStatus) error
	UpdateStripeCustomerID(ctx context.Context, id string, customerID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) InsertTx(user *db_models.User, ctx context.Context) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindById(ctx context.Context, id string) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpdateCodeName(ctx context.Context, id string, codeName string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("id = ?", id).
		Update("code_name", codeName).Error
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) UpdateSubscriptionSnapshot(ctx context.Context, id string, status db_models.SubscriptionStatus) error {
	return r.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("id = ?", id).
		Update("subscription_status", status).Error
}

func (r *userRepository) UpdateStripeCustomerID(ctx context.Context, id string, customerID string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("id = ?", id).
		Update("stripe_customer_id", customerID).Error
}
