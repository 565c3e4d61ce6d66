package adapter

import (
	"net/http"
	"strconv"
	"time"
)

// parseRetryAfter reads a Retry-After header in either delta-seconds or
// HTTP-date form. Returns zero if absent, unparseable or already past.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	at, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	if d := time.Until(at); d > 0 {
		return d
	}
	return 0
}
