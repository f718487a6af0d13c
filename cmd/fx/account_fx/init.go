package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mendpath/internal/config"
	"mendpath/internal/repositories"
	"mendpath/internal/services"
	"mendpath/pkg/memcache"
	"mendpath/pkg/middleware"
)

var Module = fx.Provide(
	provideUserRepo,
	provideResetTokens,
	provideMailService,
	provideAccountService,
	provideEntitlementSource,
)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideResetTokens() mem.ResetTokenStore {
	return mem.NewResetTokens()
}

func provideMailService(cfg config.Config) (services.IMailService, error) {
	return services.NewSMTPMailService(cfg.SMTP)
}

func provideAccountService(
	userRepo repositories.UserRepository,
	mailService services.IMailService,
	resetTokens mem.ResetTokenStore,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, mailService, resetTokens)
}

func provideEntitlementSource(
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
) middleware.EntitlementSource {
	return services.NewEntitlementService(userRepo, notificationRepo)
}
