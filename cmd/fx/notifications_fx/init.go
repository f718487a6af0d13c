package notifications_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mendpath/internal/repositories"
	"mendpath/internal/services"
)

var Module = fx.Provide(
	provideNotificationRepo,
	provideNotificationService,
	provideNotifier,
)

func provideNotificationRepo(db *gorm.DB) repositories.NotificationRepository {
	return repositories.NewNotificationRepository(db)
}

func provideNotificationService(
	notificationRepo repositories.NotificationRepository,
	sessionRepo repositories.SessionRepository,
) services.NotificationServiceInterface {
	return services.NewNotificationService(notificationRepo, sessionRepo)
}

// provideNotifier exposes the notification service under the narrow
// interface the session and billing services depend on.
func provideNotifier(ns services.NotificationServiceInterface) services.NotifierInterface {
	return ns
}
