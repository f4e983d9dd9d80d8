package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DateFormat is the canonical date rendering used across the API and exports.
const DateFormat = "2006-01-02"

// TimestampFormat is the canonical timestamp rendering used in exports.
const TimestampFormat = "2006-01-02 15:04:05"

// ParseDuration parses a duration string, returns the default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// FormatDate renders a nullable date as YYYY-MM-DD, empty when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateFormat)
}

// ParseDate parses a YYYY-MM-DD string into a nullable date. Empty input
// yields nil without an error.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
