// Package logger configures the global zerolog logger.
package logger

import (
	"os"
	"time"
	"vprime/config"
	"vprime/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.TraceLevel

// InitLogger installs a human readable console logger at trace level.
// It runs before configuration is loaded so config loading itself can log.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(defaultLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// SetLogLevel applies SERVER_LOG_LEVEL, falling back to trace when it is unset or unknown.
// Production switches to JSON lines tagged with the app name.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == constant.Empty {
		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Server.Env == constant.ServerEnvProduction {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("app", cfg.App.Name).Logger()
	}

	log.Debug().Str("level", level.String()).Str("env", cfg.Server.Env).Msg("logger configured")
}

// ErrorWithStack logs err along with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
