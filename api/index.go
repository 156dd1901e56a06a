package handler

import (
	"context"
	"net/http"
	"sync"
	"vprime/config"
	"vprime/di"
	"vprime/shared/logger"

	"github.com/rs/zerolog/log"
)

var (
	app  *di.App
	once sync.Once
)

func initialize() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app = di.InitializeApp()

	if err := app.Auth.EnsureAdmin(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to ensure admin account")
	}
}

// Handler serves the API from a serverless function. The app is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(initialize)

	app.HTTP.ServeHTTP(w, r)
}
