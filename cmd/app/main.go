package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"mendpath/cmd/fx/account_fx"
	"mendpath/cmd/fx/ai_fx"
	"mendpath/cmd/fx/billing_fx"
	"mendpath/cmd/fx/controllers_fx"
	"mendpath/cmd/fx/db_fx"
	"mendpath/cmd/fx/journey_fx"
	"mendpath/cmd/fx/notifications_fx"
	"mendpath/cmd/fx/sessions_fx"
	"mendpath/cmd/fx/workers_fx"
	"mendpath/internal/api/controllers"
	"mendpath/internal/config"
	"mendpath/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	app := fx.New(
		db_fx.Module,
		account_fx.Module,
		journey_fx.Module,
		ai_fx.Module,
		sessions_fx.Module,
		notifications_fx.Module,
		billing_fx.Module,
		workers_fx.Module,
		controllers_fx.Module,

		fx.Invoke(ConfigureLogging),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ConfigureLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	entitlements middleware.EntitlementSource,
	authController *controllers.AuthController,
	journeyController *controllers.JourneyController,
	aiController *controllers.AiController,
	sessionController *controllers.SessionController,
	notificationController *controllers.NotificationController,
	billingController *controllers.BillingController,
	healthController *controllers.HealthController,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.AccessLogger())
	r.Use(middleware.Metrics())
	r.Use(gin.Recovery())

	RegisterRoutes(r, cfg, entitlements,
		authController, journeyController, aiController,
		sessionController, notificationController, billingController,
		healthController)

	return r
}

func RegisterRoutes(
	r *gin.Engine,
	cfg config.Config,
	entitlements middleware.EntitlementSource,
	authController *controllers.AuthController,
	journeyController *controllers.JourneyController,
	aiController *controllers.AiController,
	sessionController *controllers.SessionController,
	notificationController *controllers.NotificationController,
	billingController *controllers.BillingController,
	healthController *controllers.HealthController,
) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/health", healthController.Health)

	auth := api.Group("/auth")
	auth.POST("/signup", authController.SignUp)
	auth.POST("/login", authController.Login)
	auth.POST("/forgot-password", authController.ForgotPassword)
	auth.POST("/reset-password", authController.ResetPassword)
	auth.GET("/me", middleware.JWTAuthMiddleware(), authController.GetProfile)
	auth.PATCH("/code-name", middleware.JWTAuthMiddleware(), authController.UpdateCodeName)

	journey := api.Group("/journey", middleware.JWTAuthMiddleware())
	journey.GET("/steps", journeyController.GetSteps)
	journey.GET("/progress", journeyController.GetProgress)
	journey.POST("/progress", journeyController.UpdateProgress)

	journal := api.Group("/journal", middleware.JWTAuthMiddleware())
	journal.GET("/entries", journeyController.ListEntries)
	journal.POST("/entries", journeyController.CreateEntry)
	journal.PUT("/entries/:entryId", journeyController.UpdateEntry)

	// The AI companion and group sessions are premium features. The gate
	// sits after JWT auth so it can read the authenticated user.
	ai := api.Group("/ai",
		middleware.JWTAuthMiddleware(),
		middleware.IsPremium(entitlements, "ai_companion", cfg.Stripe.UpgradeURL))
	ai.GET("/conversations", aiController.ListConversations)
	ai.POST("/conversations", aiController.CreateConversation)
	ai.GET("/conversations/:conversationId/messages", aiController.ListMessages)
	ai.POST("/conversations/:conversationId/messages", aiController.SendMessage)

	sessions := api.Group("/group-sessions",
		middleware.JWTAuthMiddleware(),
		middleware.IsPremium(entitlements, "group_sessions", cfg.Stripe.UpgradeURL))
	sessions.GET("", sessionController.ListSessions)
	sessions.GET("/:sessionId", sessionController.GetSession)
	sessions.POST("/:sessionId/join", sessionController.JoinSession)
	sessions.POST("/:sessionId/leave", sessionController.LeaveSession)
	sessions.POST("/:sessionId/feedback", sessionController.SubmitFeedback)

	api.GET("/facilitators", middleware.JWTAuthMiddleware(), sessionController.ListFacilitators)

	notifications := api.Group("/notifications", middleware.JWTAuthMiddleware())
	notifications.GET("", notificationController.ListNotifications)
	notifications.PUT("/:notificationId/read", notificationController.MarkRead)
	notifications.PUT("/read-all", notificationController.MarkAllRead)

	api.GET("/notification-preferences", middleware.JWTAuthMiddleware(), notificationController.GetPreferences)
	api.PUT("/notification-preferences", middleware.JWTAuthMiddleware(), notificationController.UpdatePreferences)

	api.GET("/plans", billingController.GetPlans)
	api.POST("/stripe/webhook", billingController.Webhook)
	api.POST("/create-subscription", middleware.JWTAuthMiddleware(), billingController.CreateSubscription)
	api.POST("/subscription/cancel", middleware.JWTAuthMiddleware(), billingController.CancelSubscription)
	api.GET("/subscription/status", middleware.JWTAuthMiddleware(), billingController.GetStatus)

	admin := api.Group("/admin", middleware.JWTAuthMiddleware(), middleware.AdminMiddleware())
	admin.GET("/group-sessions", sessionController.ListSessions)
	admin.POST("/group-sessions", sessionController.CreateSession)
	admin.PATCH("/group-sessions/:sessionId", sessionController.UpdateSession)
	admin.DELETE("/group-sessions/:sessionId", sessionController.DeleteSession)
	admin.POST("/sessions/:sessionId/attendance", sessionController.BulkUpdateAttendance)
	admin.GET("/sessions/:sessionId/attendance-report", sessionController.GetAttendanceReport)
	admin.GET("/attendance-stats", sessionController.GetOverallAttendanceStats)
	admin.POST("/facilitators", sessionController.CreateFacilitator)
	admin.DELETE("/facilitators/:facilitatorId", sessionController.DeactivateFacilitator)
}
