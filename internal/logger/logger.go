package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. The level comes from configuration
// via the zerolog global level once config loads.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
}
