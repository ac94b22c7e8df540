package module

import (
	"time"

	"scribe/internal/platform/config"
)

// Options controls provider adapters and bulk pacing
type Options struct {
	// RapidAPI
	RapidAPIKey     string
	RapidAPIHost    string
	RapidAPIBaseURL string
	RapidAPITimeout time.Duration

	// Watch page scrape (timedtext and innertube share the base)
	WatchBaseURL  string
	ScrapeTimeout time.Duration

	// BulkIntervalMs paces bulk sub-requests
	BulkIntervalMs int
}

// FromConfig reads TRANSCRIPT_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	tc := cfg.Prefix("TRANSCRIPT_")
	return Options{
		RapidAPIKey:     tc.MayString("RAPIDAPI_KEY", ""),
		RapidAPIHost:    tc.MayString("RAPIDAPI_HOST", ""),
		RapidAPIBaseURL: tc.MayString("RAPIDAPI_BASE_URL", ""),
		RapidAPITimeout: tc.MayDuration("RAPIDAPI_TIMEOUT", 30*time.Second),
		WatchBaseURL:    tc.MayString("WATCH_BASE_URL", ""),
		ScrapeTimeout:   tc.MayDuration("SCRAPE_TIMEOUT", 45*time.Second),
		BulkIntervalMs:  tc.MayInt("BULK_INTERVAL_MS", 550),
	}
}
