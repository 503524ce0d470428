package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process-wide logger. Development gets the human-readable
// console writer, everything else plain JSON.
func New(environment string) zerolog.Logger {
	if environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
