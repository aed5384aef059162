//go:generate swag init --parseInternal -d ../../ -g cmd/app/main.go -o ../../docs

package main

import (
	"context"
	"time"

	"etm/config"
	"etm/di"
	"etm/helper"
	"etm/shared/logger"
	"etm/shared/timezone"

	"github.com/rs/zerolog/log"
)

const closeTimeout = 10 * time.Second

// @title Employee Trip Management API
// @version 1.0
// @description Employees, trips and the bookings that link them.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if err := timezone.Init(cfg.App.Timezone); err != nil {
		log.Fatal().Err(err).Msg("Failed to load application timezone")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	app := di.InitializeApp()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()

		app.Close(ctx)
	}()

	if err := app.Auth.SeedAdmin(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to seed admin account")
	}

	app.HTTP.Serve()
}
