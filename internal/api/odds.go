package api

import (
	"context"

	"cfb-pipeline/internal/cache"
	"cfb-pipeline/internal/config"
	"cfb-pipeline/internal/ratelimit"

	"github.com/rs/zerolog"
)

const (
	oddsBaseURL  = "https://api.the-odds-api.com/v4"
	oddsSportKey = "americanfootball_ncaaf"
)

// OddsClient talks to The Odds API. The key travels as a query parameter,
// so it is part of the cache identity like any other parameter.
type OddsClient struct {
	baseURL string
	apiKey  string
	fetcher *fetcher
}

func NewOddsClient(cfg *config.Config, store cache.Store, limiter *ratelimit.Limiter, logger zerolog.Logger) *OddsClient {
	return &OddsClient{
		baseURL: oddsBaseURL,
		apiKey:  cfg.OddsAPIKey,
		fetcher: newFetcher(store, limiter, cfg.CacheTTL, logger.With().Str("api", "odds").Logger()),
	}
}

// Odds fetches current NCAAF spreads and totals across US bookmakers.
func (c *OddsClient) Odds(ctx context.Context) ([]OddsEventResponse, error) {
	params := map[string]string{
		"apiKey":     c.apiKey,
		"regions":    "us",
		"markets":    "spreads,totals",
		"oddsFormat": "american",
		"dateFormat": "iso",
	}
	return getJSON[[]OddsEventResponse](ctx, c.fetcher, c.baseURL+"/sports/"+oddsSportKey+"/odds", nil, params)
}

type OddsEventResponse struct {
	ID           string              `json:"id"`
	SportKey     string              `json:"sport_key"`
	CommenceTime string              `json:"commence_time"`
	HomeTeam     string              `json:"home_team"`
	AwayTeam     string              `json:"away_team"`
	Bookmakers   []BookmakerResponse `json:"bookmakers"`
}

type BookmakerResponse struct {
	Key        string           `json:"key"`
	Title      string           `json:"title"`
	LastUpdate string           `json:"last_update"`
	Markets    []MarketResponse `json:"markets"`
}

type MarketResponse struct {
	Key      string            `json:"key"`
	Outcomes []OutcomeResponse `json:"outcomes"`
}

type OutcomeResponse struct {
	Name  string   `json:"name"`
	Price *int     `json:"price"`
	Point *float64 `json:"point"`
}
