package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"fieldops-console/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
}

// Default is the logger used before configuration has been read.
func Default() zerolog.Logger {
	return zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()
}

// New builds the application logger for env. Local runs get a console
// writer; dev and prod log JSON.
func New(env string, out io.Writer) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stdout
	}

	level := zerolog.InfoLevel
	w := out
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvProd:
		level = zerolog.InfoLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = out
		w = consoleWriter
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger(), nil
}
