package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mendpath/internal/models/db_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/utils"
)

// EntitlementService backs the premium gate middleware.
type EntitlementService struct {
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
}

func NewEntitlementService(
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) *EntitlementService {
	return &EntitlementService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// SubscriptionStatus reads the snapshot off the user row. A missing user
// is reported as free rather than an error: the gate treats both the
// same way, with a 403.
func (s *EntitlementService) SubscriptionStatus(ctx context.Context, userId string) (db_models.SubscriptionStatus, error) {
	user, err := s.userRepo.FindById(ctx, userId)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if user == nil {
		return db_models.SubStatusFree, nil
	}
	return user.SubscriptionStatus, nil
}

// RecordFeatureAccess bumps the per-feature usage counter. Failures are
// logged and swallowed; the access log must never block a request.
func (s *EntitlementService) RecordFeatureAccess(ctx context.Context, userId string, featureName string) {
	uid, err := uuid.Parse(userId)
	if err != nil {
		return
	}
	if err := s.notificationRepo.BumpFeatureAccess(ctx, uid, featureName, time.Now().Unix()); err != nil {
		log.Warn().Err(err).Str("feature", featureName).Msg("failed to record feature access")
	}
}
