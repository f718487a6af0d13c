package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"mendpath/internal/config"
	"mendpath/internal/infra"
)

var Module = fx.Provide(
	config.MustLoad,
	provideDB,
)

func provideDB(cfg config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		return nil, err
	}
	if err := infra.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
