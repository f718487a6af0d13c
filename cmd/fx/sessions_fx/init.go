package sessions_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mendpath/internal/repositories"
	"mendpath/internal/services"
)

var Module = fx.Provide(
	provideSessionRepo,
	provideFacilitatorRepo,
	provideSessionService,
)

func provideSessionRepo(db *gorm.DB) repositories.SessionRepository {
	return repositories.NewSessionRepository(db)
}

func provideFacilitatorRepo(db *gorm.DB) repositories.FacilitatorRepository {
	return repositories.NewFacilitatorRepository(db)
}

func provideSessionService(
	sessionRepo repositories.SessionRepository,
	facilitatorRepo repositories.FacilitatorRepository,
	notifier services.NotifierInterface,
) services.SessionServiceInterface {
	return services.NewSessionService(sessionRepo, facilitatorRepo, notifier)
}
