package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cfb-pipeline/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	CFBDAPIKey string
	OddsAPIKey string

	RedisAddr string
	DBPath    string
	OutputDir string
	LogLevel  string

	CacheTTL    time.Duration
	PacingDelay time.Duration

	CFBDRateMax    int
	CFBDRateWindow time.Duration
	OddsRateMax    int
	OddsRateWindow time.Duration

	CurrentSeason int
	Seasons       []int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	currentSeason, err := getEnvInt("CURRENT_SEASON", 2024)
	if err != nil {
		return nil, err
	}

	seasons, err := getEnvSeasons("SEASONS", []int{2020, 2021, 2022, 2023, 2024})
	if err != nil {
		return nil, err
	}

	cfbdRateMax, err := getEnvInt("CFBD_RATE_MAX", constants.CFBDRateMax)
	if err != nil {
		return nil, err
	}
	cfbdRateWindow, err := getEnvDuration("CFBD_RATE_WINDOW", constants.CFBDRateWindow)
	if err != nil {
		return nil, err
	}
	oddsRateMax, err := getEnvInt("ODDS_RATE_MAX", constants.OddsRateMax)
	if err != nil {
		return nil, err
	}
	oddsRateWindow, err := getEnvDuration("ODDS_RATE_WINDOW", constants.OddsRateWindow)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("CACHE_TTL", constants.CacheTTL)
	if err != nil {
		return nil, err
	}
	pacingDelay, err := getEnvDuration("PACING_DELAY", constants.PacingDelay)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CFBDAPIKey:     getEnv("CFBD_API_KEY", ""),
		OddsAPIKey:     getEnv("ODDS_API_KEY", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		DBPath:         getEnv("DB_PATH", "cfb.db"),
		OutputDir:      getEnv("OUTPUT_DIR", "data/raw"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CacheTTL:       cacheTTL,
		PacingDelay:    pacingDelay,
		CFBDRateMax:    cfbdRateMax,
		CFBDRateWindow: cfbdRateWindow,
		OddsRateMax:    oddsRateMax,
		OddsRateWindow: oddsRateWindow,
		CurrentSeason:  currentSeason,
		Seasons:        seasons,
	}

	if cfg.CFBDAPIKey == "" {
		return nil, fmt.Errorf("CFBD_API_KEY is required")
	}
	if cfg.OddsAPIKey == "" {
		return nil, fmt.Errorf("ODDS_API_KEY is required")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	logger.Info().
		Str("redis_addr", cfg.RedisAddr).
		Str("db_path", cfg.DBPath).
		Str("output_dir", cfg.OutputDir).
		Str("log_level", cfg.LogLevel).
		Dur("cache_ttl", cfg.CacheTTL).
		Dur("pacing_delay", cfg.PacingDelay).
		Int("current_season", cfg.CurrentSeason).
		Ints("seasons", cfg.Seasons).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getEnvSeasons(key string, fallback []int) ([]int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parts := strings.Split(v, ",")
	seasons := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%s must be comma-separated years: %w", key, err)
		}
		seasons = append(seasons, n)
	}
	return seasons, nil
}
