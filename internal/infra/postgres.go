package infra

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mendpath/internal/config"
	"mendpath/internal/models/db_models"
)

// InitPostgresql opens the connection pool. The handle is owned by the fx
// container and injected into repositories; nothing reads it from module
// state.
func InitPostgresql(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{})
	if err != nil {
		log.Error().Err(err).Msg("error connecting to database")
		return nil, err
	}

	return db, nil
}

// AutoMigrate keeps the schema in sync on startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.User{},
		&db_models.JourneyProgress{},
		&db_models.JournalEntry{},
		&db_models.GroupSession{},
		&db_models.GroupSessionParticipant{},
		&db_models.Facilitator{},
		&db_models.AiConversation{},
		&db_models.AiChatMessage{},
		&db_models.Notification{},
		&db_models.NotificationPreferences{},
		&db_models.PremiumFeatureAccess{},
		&db_models.Plan{},
		&db_models.Subscription{},
		&db_models.Payment{},
	)
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("error getting database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("error closing database connection")
	} else {
		log.Info().Msg("postgres connection closed")
	}
}
