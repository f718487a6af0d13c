package controllers_fx

import (
	"go.uber.org/fx"

	"mendpath/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewJourneyController),
	fx.Provide(controllers.NewAiController),
	fx.Provide(controllers.NewSessionController),
	fx.Provide(controllers.NewNotificationController),
	fx.Provide(controllers.NewBillingController),
	fx.Provide(controllers.NewHealthController),
)
