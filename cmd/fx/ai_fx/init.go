package ai_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mendpath/internal/config"
	"mendpath/internal/repositories"
	"mendpath/internal/services"
	"mendpath/pkg/utils"
)

var Module = fx.Provide(
	provideGuidanceClient,
	provideAiRepo,
	provideAiService,
)

func provideGuidanceClient(cfg config.Config) (utils.GuidanceClientInterface, error) {
	return utils.NewGuidanceClient(cfg.AI.Provider, cfg.AI.APIKey, cfg.AI.Model)
}

func provideAiRepo(db *gorm.DB) repositories.AiRepository {
	return repositories.NewAiRepository(db)
}

func provideAiService(
	aiRepo repositories.AiRepository,
	guidance utils.GuidanceClientInterface,
) services.AiServiceInterface {
	return services.NewAiService(aiRepo, guidance)
}
