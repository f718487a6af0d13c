package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/utils"
)

type NotificationServiceInterface interface {
	NotifierInterface

	ListNotifications(ctx context.Context, userId uuid.UUID, unreadOnly bool) ([]db_models.Notification, error)
	MarkRead(ctx context.Context, userId uuid.UUID, notificationId string) error
	MarkAllRead(ctx context.Context, userId uuid.UUID) error

	GetPreferences(ctx context.Context, userId uuid.UUID) (*db_models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userId uuid.UUID, req request_models.UpdatePreferencesRequest) (*db_models.NotificationPreferences, error)
}

type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	sessionRepo      repositories.SessionRepository
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	sessionRepo repositories.SessionRepository,
) NotificationServiceInterface {
	return &NotificationService{
		notificationRepo: notificationRepo,
		sessionRepo:      sessionRepo,
	}
}

// Notify writes an in-app notification. Delivery is best-effort: a failed
// insert is logged and swallowed so it never fails the calling operation.
func (s *NotificationService) Notify(ctx context.Context, userId uuid.UUID, notifType db_models.NotificationType, title, message string) {
	err := s.notificationRepo.Create(ctx, &db_models.Notification{
		UserID:  userId,
		Type:    notifType,
		Title:   title,
		Message: message,
		IsSent:  true,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userId.String()).Msg("failed to create notification")
	}
}

func (s *NotificationService) NotifyParticipants(ctx context.Context, sessionId uuid.UUID, notifType db_models.NotificationType, title, message string) {
	participants, err := s.sessionRepo.ListParticipants(ctx, sessionId)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionId.String()).Msg("failed to load participants for notification")
		return
	}
	for _, p := range participants {
		s.Notify(ctx, p.UserID, notifType, title, message)
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userId uuid.UUID, unreadOnly bool) ([]db_models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userId, unreadOnly)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userId uuid.UUID, notificationId string) error {
	rows, err := s.notificationRepo.MarkRead(ctx, notificationId, userId)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if rows == 0 {
		return utils.ErrRecordNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userId); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// GetPreferences lazily creates the default row, everything enabled.
func (s *NotificationService) GetPreferences(ctx context.Context, userId uuid.UUID) (*db_models.NotificationPreferences, error) {
	prefs, err := s.notificationRepo.GetPreferences(ctx, userId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	if prefs == nil {
		prefs = defaultPreferences(userId)
		if err := s.notificationRepo.UpsertPreferences(ctx, prefs); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	return prefs, nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, userId uuid.UUID, req request_models.UpdatePreferencesRequest) (*db_models.NotificationPreferences, error) {
	prefs, err := s.GetPreferences(ctx, userId)
	if err != nil {
		return nil, err
	}

	apply(&prefs.EmailEnabled, req.EmailEnabled)
	apply(&prefs.InAppEnabled, req.InAppEnabled)
	apply(&prefs.SessionReminders, req.SessionReminders)
	apply(&prefs.JourneyMilestones, req.JourneyMilestones)
	apply(&prefs.CommunityActivity, req.CommunityActivity)
	apply(&prefs.BillingUpdates, req.BillingUpdates)
	prefs.UpdatedAt = time.Now().Unix()

	if err := s.notificationRepo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return prefs, nil
}

func defaultPreferences(userId uuid.UUID) *db_models.NotificationPreferences {
	return &db_models.NotificationPreferences{
		UserID:            userId,
		EmailEnabled:      true,
		InAppEnabled:      true,
		SessionReminders:  true,
		JourneyMilestones: true,
		CommunityActivity: true,
		BillingUpdates:    true,
	}
}

func apply(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
