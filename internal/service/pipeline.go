package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cfb-pipeline/internal/artifact"
	"cfb-pipeline/internal/config"
	"cfb-pipeline/internal/constants"
	"cfb-pipeline/internal/domain"
	"cfb-pipeline/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// statCategories are the per-season player stat batches.
var statCategories = []string{"passing", "rushing", "receiving", "defensive"}

// SeasonData is everything collected for one season. Empty slices mark
// sub-collections that failed entirely; callers inspect completeness.
type SeasonData struct {
	Season          int                      `json:"season"`
	Teams           []domain.Team            `json:"teams"`
	Schedule        []domain.Game            `json:"schedule"`
	GameStats       []domain.GameStats       `json:"game_stats"`
	BettingLines    []domain.BettingLine     `json:"betting_lines"`
	PlayerStats     []domain.PlayerStat      `json:"player_stats"`
	TeamSeasonStats []domain.TeamSeasonStat  `json:"team_season_stats"`
	TalentRatings   []domain.TalentRating    `json:"talent_ratings"`
	Recruiting      []domain.RecruitingClass `json:"recruiting"`
	WeeklyTeamStats []json.RawMessage        `json:"weekly_team_stats"`
}

type SeasonSummary struct {
	Teams        int `json:"teams_count"`
	Games        int `json:"games_count"`
	GameStats    int `json:"game_stats_count"`
	BettingLines int `json:"betting_lines_count"`
	PlayerStats  int `json:"player_stats_count"`
}

type Summary struct {
	RunID               string                `json:"run_id"`
	CollectionTimestamp time.Time             `json:"collection_timestamp"`
	SeasonsCollected    []int                 `json:"seasons_collected"`
	SummaryBySeason     map[int]SeasonSummary `json:"summary_by_season"`
}

// Pipeline drives full ingestion runs: per-season collection, record
// persistence, artifact files, and a summary report.
type Pipeline struct {
	collector *Collector
	records   *repository.Records
	artifacts *artifact.Writer
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewPipeline(collector *Collector, records *repository.Records, artifacts *artifact.Writer, cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		collector: collector,
		records:   records,
		artifacts: artifacts,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run collects every configured season in order. A failing season keeps
// whatever it accumulated and the run moves on; the summary reflects the
// partial counts.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	logger := p.logger.With().Str("run_id", runID).Logger()
	logger.Info().Ints("seasons", p.cfg.Seasons).Msg("starting full data ingestion")

	summary := Summary{
		RunID:               runID,
		CollectionTimestamp: time.Now().UTC(),
		SummaryBySeason:     make(map[int]SeasonSummary),
	}

	for i, season := range p.cfg.Seasons {
		if ctx.Err() != nil {
			logger.Warn().Int("season", season).Msg("run interrupted before season collection")
			break
		}

		data := p.CollectSeason(ctx, season)
		p.persistSeason(ctx, data)

		summary.SeasonsCollected = append(summary.SeasonsCollected, season)
		summary.SummaryBySeason[season] = SeasonSummary{
			Teams:        len(data.Teams),
			Games:        len(data.Schedule),
			GameStats:    len(data.GameStats),
			BettingLines: len(data.BettingLines),
			PlayerStats:  len(data.PlayerStats),
		}

		if i < len(p.cfg.Seasons)-1 {
			if err := sleepCtx(ctx, constants.SeasonDelay); err != nil {
				break
			}
		}
	}

	if err := p.artifacts.SaveJSON("collection_summary", summary); err != nil {
		logger.Error().Err(err).Msg("failed to save collection summary")
	}

	logger.Info().Int("seasons_collected", len(summary.SeasonsCollected)).Msg("full data ingestion completed")
	return ctx.Err()
}

// CollectSeason gathers one season. The two endpoint groups run
// concurrently; issuance within each group stays strictly sequential so
// its rate budget is trivially respected.
func (p *Pipeline) CollectSeason(ctx context.Context, season int) *SeasonData {
	p.logger.Info().Int("season", season).Msg("starting season collection")

	data := &SeasonData{Season: season}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data.Teams = p.collector.Teams(gCtx)
		data.Schedule = p.collector.Schedule(gCtx, season)
		data.GameStats = p.collector.GameStats(gCtx, data.Schedule)
		data.PlayerStats = p.collector.PlayerSeasonStats(gCtx, season, statCategories)
		data.TeamSeasonStats = p.collector.TeamSeasonStats(gCtx, season)
		data.TalentRatings = p.collector.TalentRatings(gCtx, season)
		data.Recruiting = p.collector.RecruitingClasses(gCtx, season)
		data.WeeklyTeamStats = p.collector.WeeklyTeamStats(gCtx, season, constants.RegularSeasonWeeks)
		return nil
	})

	// Betting lines cover upcoming games only, so the current season alone.
	if season == p.cfg.CurrentSeason {
		g.Go(func() error {
			data.BettingLines = p.collector.BettingLines(gCtx)
			return nil
		})
	}

	// Collector methods absorb their own failures.
	_ = g.Wait()

	p.logger.Info().
		Int("season", season).
		Int("teams", len(data.Teams)).
		Int("games", len(data.Schedule)).
		Int("game_stats", len(data.GameStats)).
		Int("betting_lines", len(data.BettingLines)).
		Msg("season collection finished")

	return data
}

func (p *Pipeline) persistSeason(ctx context.Context, data *SeasonData) {
	if err := p.records.UpsertTeams(ctx, data.Teams); err != nil {
		p.logger.Error().Err(err).Int("season", data.Season).Msg("failed to persist teams")
	}
	if err := p.records.UpsertGames(ctx, data.Schedule); err != nil {
		p.logger.Error().Err(err).Int("season", data.Season).Msg("failed to persist games")
	}
	if err := p.records.UpsertGameStats(ctx, data.GameStats); err != nil {
		p.logger.Error().Err(err).Int("season", data.Season).Msg("failed to persist game stats")
	}
	if err := p.records.UpsertBettingLines(ctx, data.BettingLines); err != nil {
		p.logger.Error().Err(err).Int("season", data.Season).Msg("failed to persist betting lines")
	}

	p.saveArtifact(fmt.Sprintf("teams_%d", data.Season), data.Teams, len(data.Teams))
	p.saveArtifact(fmt.Sprintf("schedule_%d", data.Season), data.Schedule, len(data.Schedule))
	p.saveArtifact(fmt.Sprintf("game_stats_%d", data.Season), data.GameStats, len(data.GameStats))
	p.saveArtifact(fmt.Sprintf("betting_lines_%d", data.Season), data.BettingLines, len(data.BettingLines))
	p.saveArtifact(fmt.Sprintf("player_stats_%d", data.Season), data.PlayerStats, len(data.PlayerStats))
	p.saveArtifact(fmt.Sprintf("team_season_stats_%d", data.Season), data.TeamSeasonStats, len(data.TeamSeasonStats))
	p.saveArtifact(fmt.Sprintf("talent_%d", data.Season), data.TalentRatings, len(data.TalentRatings))
	p.saveArtifact(fmt.Sprintf("recruiting_%d", data.Season), data.Recruiting, len(data.Recruiting))
	p.saveArtifact(fmt.Sprintf("weekly_team_stats_%d", data.Season), data.WeeklyTeamStats, len(data.WeeklyTeamStats))
}

func (p *Pipeline) saveArtifact(name string, data any, count int) {
	if count == 0 {
		p.logger.Warn().Str("artifact", name).Msg("no data to save")
		return
	}
	if err := p.artifacts.SaveJSON(name, data); err != nil {
		p.logger.Error().Err(err).Str("artifact", name).Msg("failed to save artifact")
		return
	}
	p.logger.Info().Str("artifact", name).Int("records", count).Msg("saved artifact")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
