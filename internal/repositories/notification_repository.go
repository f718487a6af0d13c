package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mendpath/internal/models/db_models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *db_models.Notification) error
	ListByUser(ctx context.Context, userId uuid.UUID, unreadOnly bool) ([]db_models.Notification, error)
	MarkRead(ctx context.Context, id string, userId uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userId uuid.UUID) error

	GetPreferences(ctx context.Context, userId uuid.UUID) (*db_models.NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *db_models.NotificationPreferences) error

	BumpFeatureAccess(ctx context.Context, userId uuid.UUID, featureName string, now int64) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *db_models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userId uuid.UUID, unreadOnly bool) ([]db_models.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userId)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []db_models.Notification
	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string, userId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Notification{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Notification{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) GetPreferences(ctx context.Context, userId uuid.UUID) (*db_models.NotificationPreferences, error) {
	var prefs db_models.NotificationPreferences
	err := r.db.WithContext(ctx).First(&prefs, "user_id = ?", userId).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &prefs, nil
}

func (r *notificationRepository) UpsertPreferences(ctx context.Context, prefs *db_models.NotificationPreferences) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email_enabled", "in_app_enabled",
				"session_reminders", "journey_milestones",
				"community_activity", "billing_updates",
				"updated_at",
			}),
		}).
		Create(prefs).Error
}

// BumpFeatureAccess upserts the per-feature access log row: insert with
// count 1, or increment and refresh last_access_at.
func (r *notificationRepository) BumpFeatureAccess(ctx context.Context, userId uuid.UUID, featureName string, now int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "feature_name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"access_count":   gorm.Expr("access_count + 1"),
				"last_access_at": now,
			}),
		}).
		Create(&db_models.PremiumFeatureAccess{
			UserID:       userId,
			FeatureName:  featureName,
			AccessCount:  1,
			LastAccessAt: now,
		}).Error
}
