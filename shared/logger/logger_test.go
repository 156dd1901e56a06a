package logger_test

import (
	"bytes"
	"errors"
	"testing"
	"vprime/config"
	"vprime/shared/constant"
	"vprime/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func preserve(t *testing.T) {
	t.Helper()

	logger, level, format := log.Logger, zerolog.GlobalLevel(), zerolog.TimeFieldFormat

	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = format
	})
}

func TestInitLogger(t *testing.T) {
	preserve(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestSetLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"loud":     zerolog.TraceLevel,
		"":         zerolog.TraceLevel,
	}

	for input, want := range tests {
		t.Run("level "+input, func(t *testing.T) {
			preserve(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = input

			logger.SetLogLevel(cfg)

			assert.Equal(t, want, zerolog.GlobalLevel())
		})
	}
}

func TestSetLogLevel_ProductionWritesJSON(t *testing.T) {
	preserve(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.Server.LogLevel = "info"
	cfg.App.Name = "vprime"

	logger.SetLogLevel(cfg)

	var buf bytes.Buffer
	log.Logger = log.Logger.Output(&buf)
	log.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"app":"vprime"`)
}

func TestErrorWithStack(t *testing.T) {
	preserve(t)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger.ErrorWithStack(errors.New("watermark font missing"))

	assert.Contains(t, buf.String(), "watermark font missing")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
