package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"etm/config"
	"etm/shared/logger"
)

func preserveLogger(t *testing.T) {
	t.Helper()

	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
	})
}

func TestInitLogger(t *testing.T) {
	preserveLogger(t)

	cfg := &config.Config{}
	cfg.Server.Env = "production"

	assert.NotPanics(t, func() { logger.InitLogger(cfg) })
	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())

	assert.NotPanics(t, func() { logger.InitLogger(nil) })
}

func TestErrorWithStack(t *testing.T) {
	preserveLogger(t)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("booking insert failed"))

	assert.Contains(t, buf.String(), "booking insert failed")
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		expectedLevel zerolog.Level
	}{
		{name: "debug level", logLevel: "debug", expectedLevel: zerolog.DebugLevel},
		{name: "info level", logLevel: "info", expectedLevel: zerolog.InfoLevel},
		{name: "warn level", logLevel: "warn", expectedLevel: zerolog.WarnLevel},
		{name: "error level", logLevel: "error", expectedLevel: zerolog.ErrorLevel},
		{name: "invalid level defaults to trace", logLevel: "loud", expectedLevel: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preserveLogger(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.logLevel

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.expectedLevel, zerolog.GlobalLevel())
		})
	}
}

func TestErrorWithStack_AttachesStack(t *testing.T) {
	preserveLogger(t)

	original := zerolog.ErrorStackMarshaler
	t.Cleanup(func() { zerolog.ErrorStackMarshaler = original })

	var buf bytes.Buffer

	logger.InitLogger(nil)
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("trip update failed"))

	assert.Contains(t, buf.String(), `"error":"trip update failed"`)
	assert.Contains(t, buf.String(), `"stack":[`)
}
