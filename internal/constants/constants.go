package constants

import "time"

const (
	// CacheTTL is the uniform staleness tolerance for raw API responses.
	CacheTTL = 1 * time.Hour

	// CFBD allows 50 calls per minute.
	CFBDRateMax    = 50
	CFBDRateWindow = 60 * time.Second

	// The Odds API allows 450 calls per hour.
	OddsRateMax    = 450
	OddsRateWindow = 1 * time.Hour

	// PacingDelay is the politeness delay between items in a batch,
	// applied even when well under the rate budget.
	PacingDelay = 500 * time.Millisecond

	// SeasonDelay separates full-season collections.
	SeasonDelay = 2 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	CollectionTimeout  = 30 * time.Minute
)

const (
	// MaxGameStatsPerSeason caps per-game stat fetches in one season batch.
	MaxGameStatsPerSeason = 50

	RegularSeasonWeeks = 15

	// RetryAttempts bounds backoff retries on connection errors.
	RetryAttempts = 3
	RetryBaseWait = 500 * time.Millisecond
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
