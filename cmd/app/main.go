package main

import (
	"context"
	"vprime/config"
	"vprime/di"
	"vprime/helper"
	"vprime/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title vprime API
// @version 1.0
// @description Headlight restoration portfolio: gallery, testimonials and image uploads.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	app := di.InitializeApp()

	if err := app.Auth.EnsureAdmin(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure admin account")
	}

	app.HTTP.Serve()
}
