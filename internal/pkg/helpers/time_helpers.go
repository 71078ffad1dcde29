package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// The global logger is used because this may run before logger.Configure.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDate parses a YYYY-MM-DD date. An empty string yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
