// Package logging configures the process-wide zerolog logger, the way
// rs/zerolog/log's global logger is set up and then called via
// log.Debug()/log.Error() throughout a codebase rather than threading a
// logger value through every call site (as seen elsewhere in the pack's use
// of zerolog's package-level logger).
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global zerolog logger's level and output format.
// level is one of "debug", "info", "warn", "error" (case-insensitive);
// an unrecognized value falls back to "info". pretty selects a
// human-readable console writer (for interactive CLI use) over structured
// JSON (for server/background use).
func Configure(level string, pretty bool) error {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)

	writer := os.Stderr
	if pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
		return nil
	}

	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return nil
}

// DrainErrors consumes err from a channel and logs each one, matching the
// teacher's drainErrors idiom (internal error reporting that doesn't abort
// the run a single failure came from).
func DrainErrors(errs <-chan error) {
	for err := range errs {
		log.Error().Err(err).Msg("scan error")
	}
}

// FatalExit logs err at error level and returns a process exit code,
// mirroring how the teacher's cmd/dupedog turns a returned error into an
// os.Exit status.
func FatalExit(err error) int {
	if err == nil {
		return 0
	}
	log.Error().Err(err).Msg(fmt.Sprintf("%s failed", os.Args[0]))
	return 1
}
