package service

import (
	"context"
	"encoding/json"
	"errors"

	"cfb-pipeline/internal/api"
	"cfb-pipeline/internal/config"
	"cfb-pipeline/internal/constants"
	"cfb-pipeline/internal/domain"
	"cfb-pipeline/internal/normalize"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// StatsAPI is the stats-provider surface the collector consumes.
type StatsAPI interface {
	Teams(ctx context.Context) ([]api.TeamResponse, error)
	Games(ctx context.Context, year int) ([]api.GameResponse, error)
	GameAdvancedStats(ctx context.Context, gameID int64) ([]api.GameTeamStatsResponse, error)
	PlayerSeasonStats(ctx context.Context, year int, category string) ([]api.PlayerStatResponse, error)
	TeamSeasonStats(ctx context.Context, year int) ([]api.TeamSeasonStatResponse, error)
	TalentRatings(ctx context.Context, year int) ([]api.TalentResponse, error)
	RecruitingTeams(ctx context.Context, year int) ([]api.RecruitingResponse, error)
	TeamGameStats(ctx context.Context, year, week int) (json.RawMessage, error)
}

// OddsAPI is the odds-provider surface the collector consumes.
type OddsAPI interface {
	Odds(ctx context.Context) ([]api.OddsEventResponse, error)
}

// Collector sequences fetch+normalize operations per entity set. Failures
// never propagate past it: a failed item contributes nothing and its
// siblings continue, so a run degrades to partial data instead of dying.
type Collector struct {
	stats  StatsAPI
	odds   OddsAPI
	pacer  *rate.Limiter
	logger zerolog.Logger
}

func NewCollector(stats StatsAPI, odds OddsAPI, cfg *config.Config, logger zerolog.Logger) *Collector {
	return &Collector{
		stats:  stats,
		odds:   odds,
		pacer:  rate.NewLimiter(rate.Every(cfg.PacingDelay), 1),
		logger: logger,
	}
}

func (c *Collector) Teams(ctx context.Context) []domain.Team {
	resp, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.TeamResponse, error) {
		return c.stats.Teams(ctx)
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to collect teams data")
		return nil
	}

	teams := normalize.Teams(resp)
	c.logger.Info().Int("count", len(teams)).Msg("collected teams data")
	return teams
}

func (c *Collector) Schedule(ctx context.Context, season int) []domain.Game {
	resp, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.GameResponse, error) {
		return c.stats.Games(ctx, season)
	})
	if err != nil {
		c.logger.Error().Err(err).Int("season", season).Msg("failed to collect schedule")
		return nil
	}

	games := normalize.Games(resp, c.logger)
	c.logger.Info().Int("count", len(games)).Int("season", season).Msg("collected schedule")
	return games
}

// GameStats fetches advanced box scores for completed games on the
// schedule, capped per season to stay clear of the rate budget. Records
// arrive in schedule order; a game whose stats are missing or one-sided
// contributes nothing.
func (c *Collector) GameStats(ctx context.Context, games []domain.Game) []domain.GameStats {
	completed := make([]domain.Game, 0, len(games))
	for _, g := range games {
		if !g.Completed() || g.HomeTeam == nil || g.AwayTeam == nil {
			continue
		}
		completed = append(completed, g)
		if len(completed) == constants.MaxGameStatsPerSeason {
			break
		}
	}

	return collectBatch(ctx, c, completed, "game_stats", func(ctx context.Context, g domain.Game) ([]domain.GameStats, error) {
		entries, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.GameTeamStatsResponse, error) {
			return c.stats.GameAdvancedStats(ctx, g.ID)
		})
		if err != nil {
			return nil, err
		}

		stats, err := normalize.GameStats(entries, g.ID, *g.HomeTeam, *g.AwayTeam)
		if err != nil {
			return nil, err
		}
		return []domain.GameStats{*stats}, nil
	})
}

func (c *Collector) BettingLines(ctx context.Context) []domain.BettingLine {
	resp, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.OddsEventResponse, error) {
		return c.odds.Odds(ctx)
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to collect betting lines")
		return nil
	}

	lines := normalize.BettingLines(resp, c.logger)
	c.logger.Info().Int("count", len(lines)).Msg("collected betting lines")
	return lines
}

// PlayerSeasonStats runs one batch across stat categories.
func (c *Collector) PlayerSeasonStats(ctx context.Context, season int, categories []string) []domain.PlayerStat {
	return collectBatch(ctx, c, categories, "player_season_stats", func(ctx context.Context, category string) ([]domain.PlayerStat, error) {
		resp, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.PlayerStatResponse, error) {
			return c.stats.PlayerSeasonStats(ctx, season, category)
		})
		if err != nil {
			return nil, err
		}
		return normalize.PlayerStats(resp), nil
	})
}

func (c *Collector) TeamSeasonStats(ctx context.Context, season int) []domain.TeamSeasonStat {
	resp, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.TeamSeasonStatResponse, error) {
		return c.stats.TeamSeasonStats(ctx, season)
	})
	if err != nil {
		c.logger.Error().Err(err).Int("season", season).Msg("failed to collect team season stats")
		return nil
	}
	return normalize.TeamSeasonStats(resp)
}

func (c *Collector) TalentRatings(ctx context.Context, season int) []domain.TalentRating {
	resp, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.TalentResponse, error) {
		return c.stats.TalentRatings(ctx, season)
	})
	if err != nil {
		c.logger.Error().Err(err).Int("season", season).Msg("failed to collect talent ratings")
		return nil
	}
	return normalize.TalentRatings(resp)
}

func (c *Collector) RecruitingClasses(ctx context.Context, season int) []domain.RecruitingClass {
	resp, err := fetchWithRetry(ctx, func(ctx context.Context) ([]api.RecruitingResponse, error) {
		return c.stats.RecruitingTeams(ctx, season)
	})
	if err != nil {
		c.logger.Error().Err(err).Int("season", season).Msg("failed to collect recruiting data")
		return nil
	}
	return normalize.RecruitingClasses(resp)
}

// WeeklyTeamStats runs one batch across regular-season weeks, returning
// the raw weekly payloads in week order.
func (c *Collector) WeeklyTeamStats(ctx context.Context, season, weeks int) []json.RawMessage {
	weekList := make([]int, 0, weeks)
	for w := 1; w <= weeks; w++ {
		weekList = append(weekList, w)
	}

	return collectBatch(ctx, c, weekList, "weekly_team_stats", func(ctx context.Context, week int) ([]json.RawMessage, error) {
		payload, err := fetchWithRetry(ctx, func(ctx context.Context) (json.RawMessage, error) {
			return c.stats.TeamGameStats(ctx, season, week)
		})
		if err != nil {
			return nil, err
		}
		return []json.RawMessage{payload}, nil
	})
}

// collectBatch drives one batch: a pacing wait before each item, per-item
// failures logged and skipped, results in enumeration order. Cancellation
// stops issuing further requests and returns what accumulated.
func collectBatch[T, R any](ctx context.Context, c *Collector, items []T, name string, op func(context.Context, T) ([]R, error)) []R {
	var results []R

	for i, item := range items {
		if err := c.pacer.Wait(ctx); err != nil {
			c.logger.Warn().Err(err).Str("batch", name).Int("completed", i).Msg("batch interrupted, returning partial results")
			return results
		}

		contribution, err := op(ctx, item)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Warn().Err(err).Str("batch", name).Int("completed", i).Msg("batch interrupted, returning partial results")
				return results
			}
			c.logger.Error().Err(err).Str("batch", name).Int("item", i).Msg("batch item failed, continuing")
			continue
		}

		results = append(results, contribution...)
	}

	return results
}

// fetchWithRetry retries connection errors with bounded exponential
// backoff. HTTP-status failures pass through untouched so a non-200 is
// never retried and cache writes stay at-most-once.
func fetchWithRetry[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T

	backoff := retry.WithMaxRetries(constants.RetryAttempts, retry.NewExponential(constants.RetryBaseWait))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)

		var connErr *api.ConnectionError
		if errors.As(err, &connErr) {
			return retry.RetryableError(err)
		}
		return err
	})

	return out, err
}
