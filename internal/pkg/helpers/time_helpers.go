package helpers

import (
	"strings"
	"time"

	"github.com/yigit/unirecords/internal/pkg/logger"
)

// Duration reads a duration setting such as "15s" or "1h". Empty values use
// fallback silently; malformed or non-positive ones are logged and also use
// fallback.
func Duration(setting, value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Err(err).
			Str("setting", setting).
			Str("value", value).
			Dur("fallback", fallback).
			Msg("Invalid duration setting, using fallback")
		return fallback
	}
	return d
}
