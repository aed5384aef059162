package logger

import (
	"io"
	"os"
	"time"

	"etm/config"
	"etm/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// InitLogger points the global zerolog logger at stdout: JSON lines in production,
// the console writer anywhere else. Everything is logged until SetLogLevel runs.
func InitLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	context := log.Output(writer(cfg)).With().Timestamp()
	if cfg != nil && cfg.App.Name != "" {
		context = context.Str("app", cfg.App.Name)
	}

	log.Logger = context.Logger()
	log.Trace().Msg("Zerolog initialized.")
}

func writer(cfg *config.Config) io.Writer {
	if cfg != nil && cfg.Server.Env == constant.ServerEnvProduction {
		return os.Stdout
	}

	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Stack().Err(errors.WithStack(err)).Send()
}

// SetLogLevel applies Server.LogLevel, falling back to trace when it does not parse.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Trace().Str("loglevel", level.String()).Msg("Log level set.")
}
