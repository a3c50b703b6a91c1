package pkg

import (
	"strconv"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
)

// aqm.Config only hands out strings; these parse typed values with a
// fallback when the key is unset or malformed.

func DurationOrDef(config *aqm.Config, key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(config.GetStringOrDef(key, ""))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func IntOrDef(config *aqm.Config, key string, def int) int {
	raw := strings.TrimSpace(config.GetStringOrDef(key, ""))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func BoolOrDef(config *aqm.Config, key string, def bool) bool {
	raw := strings.TrimSpace(config.GetStringOrDef(key, ""))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}
