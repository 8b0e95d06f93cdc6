// Package daemon assembles the database, object storage and web
// service into the running application.
package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sitecms/sitecms/internal/config"
	"github.com/sitecms/sitecms/internal/db/dsn"
	"github.com/sitecms/sitecms/internal/db/models"
	"github.com/sitecms/sitecms/internal/settings"
	"github.com/sitecms/sitecms/internal/storage"
	"github.com/sitecms/sitecms/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go d.webService.WaitShutdown()

	return d.webService.Start(addr)
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(gormpostgres.Open(dsn.Create(cfg)), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	gateway, err := storage.NewMinioGateway(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect object storage")
	}

	svc := settings.NewService(db, gateway, settings.NewPublicSet(settings.DefaultPublicKeys))

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, svc),
	}
}
