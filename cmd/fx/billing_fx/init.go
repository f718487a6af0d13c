package billing_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mendpath/internal/config"
	"mendpath/internal/repositories"
	"mendpath/internal/services"
)

var Module = fx.Provide(
	providePlanRepo,
	provideSubscriptionRepo,
	provideBillingService,
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideBillingService(
	planRepo repositories.IPlanRepository,
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	notifier services.NotifierInterface,
	cfg config.Config,
) (services.BillingServiceInterface, error) {
	return services.NewBillingService(planRepo, subRepo, userRepo, notifier, cfg.Stripe)
}
