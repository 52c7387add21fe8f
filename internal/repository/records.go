package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"cfb-pipeline/internal/constants"
	"cfb-pipeline/internal/domain"

	"github.com/rs/zerolog"
)

// Records persists normalized collection results. Each upsert batch runs
// in a single transaction so a canceled run never leaves half a batch.
type Records struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRecords(db *sql.DB, logger zerolog.Logger) *Records {
	return &Records{db: db, logger: logger}
}

func (r *Records) UpsertTeams(ctx context.Context, teams []domain.Team) error {
	if len(teams) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO teams (school, conference, division, mascot, abbreviation,
			alt_name_1, alt_name_2, alt_name_3, color, alt_color, logos,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (school) DO UPDATE SET
			conference = excluded.conference,
			division = excluded.division,
			mascot = excluded.mascot,
			abbreviation = excluded.abbreviation,
			alt_name_1 = excluded.alt_name_1,
			alt_name_2 = excluded.alt_name_2,
			alt_name_3 = excluded.alt_name_3,
			color = excluded.color,
			alt_color = excluded.alt_color,
			logos = excluded.logos,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare teams upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, t := range teams {
		logos, err := json.Marshal(t.Logos)
		if err != nil {
			return fmt.Errorf("marshal logos for %s: %w", t.School, err)
		}
		if _, err := stmt.ExecContext(ctx,
			t.School, t.Conference, t.Division, t.Mascot, t.Abbreviation,
			t.AltName1, t.AltName2, t.AltName3, t.Color, t.AltColor, string(logos),
			now, now,
		); err != nil {
			return fmt.Errorf("upsert team %s: %w", t.School, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teams upsert: %w", err)
	}

	r.logger.Debug().Int("count", len(teams)).Msg("upserted teams")
	return nil
}

func (r *Records) UpsertGames(ctx context.Context, games []domain.Game) error {
	if len(games) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (id, season, week, season_type, start_date,
			home_team, away_team, home_points, away_points, venue, venue_id,
			neutral_site, conference_game, attendance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			season = excluded.season,
			week = excluded.week,
			season_type = excluded.season_type,
			start_date = excluded.start_date,
			home_team = excluded.home_team,
			away_team = excluded.away_team,
			home_points = excluded.home_points,
			away_points = excluded.away_points,
			venue = excluded.venue,
			venue_id = excluded.venue_id,
			neutral_site = excluded.neutral_site,
			conference_game = excluded.conference_game,
			attendance = excluded.attendance,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare games upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, g := range games {
		if _, err := stmt.ExecContext(ctx,
			g.ID, g.Season, g.Week, g.SeasonType, g.StartDate,
			g.HomeTeam, g.AwayTeam, g.HomePoints, g.AwayPoints, g.Venue, g.VenueID,
			g.NeutralSite, g.ConferenceGame, g.Attendance, now, now,
		); err != nil {
			return fmt.Errorf("upsert game %d: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit games upsert: %w", err)
	}

	r.logger.Debug().Int("count", len(games)).Msg("upserted games")
	return nil
}

func (r *Records) UpsertGameStats(ctx context.Context, stats []domain.GameStats) error {
	if len(stats) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO game_team_stats (game_id, slot, team, total_yards,
			net_passing_yards, rushing_yards, turnovers, third_down_eff, sacks,
			tackles_for_loss, pass_completion_percentage, time_of_possession,
			first_downs, fourth_down_eff, penalties, penalty_yards,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, slot) DO UPDATE SET
			team = excluded.team,
			total_yards = excluded.total_yards,
			net_passing_yards = excluded.net_passing_yards,
			rushing_yards = excluded.rushing_yards,
			turnovers = excluded.turnovers,
			third_down_eff = excluded.third_down_eff,
			sacks = excluded.sacks,
			tackles_for_loss = excluded.tackles_for_loss,
			pass_completion_percentage = excluded.pass_completion_percentage,
			time_of_possession = excluded.time_of_possession,
			first_downs = excluded.first_downs,
			fourth_down_eff = excluded.fourth_down_eff,
			penalties = excluded.penalties,
			penalty_yards = excluded.penalty_yards,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare game stats upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, gs := range stats {
		for slot, line := range []domain.TeamStatLine{gs.Team1, gs.Team2} {
			if _, err := stmt.ExecContext(ctx,
				gs.GameID, slot+1, line.Team, line.TotalYards,
				line.NetPassingYards, line.RushingYards, line.Turnovers, line.ThirdDownEff, line.Sacks,
				line.TacklesForLoss, line.PassCompletionPercentage, line.TimeOfPossession,
				line.FirstDowns, line.FourthDownEff, line.Penalties, line.PenaltyYards,
				now, now,
			); err != nil {
				return fmt.Errorf("upsert stats for game %d: %w", gs.GameID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit game stats upsert: %w", err)
	}

	r.logger.Debug().Int("count", len(stats)).Msg("upserted game stats")
	return nil
}

func (r *Records) UpsertBettingLines(ctx context.Context, lines []domain.BettingLine) error {
	if len(lines) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO betting_lines (home_team, away_team, bookmaker,
			commence_time, spread_point, spread_home_price, spread_away_price,
			total_point, total_over_price, total_under_price,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (home_team, away_team, bookmaker) DO UPDATE SET
			commence_time = excluded.commence_time,
			spread_point = excluded.spread_point,
			spread_home_price = excluded.spread_home_price,
			spread_away_price = excluded.spread_away_price,
			total_point = excluded.total_point,
			total_over_price = excluded.total_over_price,
			total_under_price = excluded.total_under_price,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare betting lines upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, l := range lines {
		if _, err := stmt.ExecContext(ctx,
			l.HomeTeam, l.AwayTeam, l.Bookmaker,
			l.CommenceTime, l.SpreadPoint, l.SpreadHomePrice, l.SpreadAwayPrice,
			l.TotalPoint, l.TotalOverPrice, l.TotalUnderPrice,
			now, now,
		); err != nil {
			return fmt.Errorf("upsert betting line %s/%s@%s: %w", l.HomeTeam, l.AwayTeam, l.Bookmaker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit betting lines upsert: %w", err)
	}

	r.logger.Debug().Int("count", len(lines)).Msg("upserted betting lines")
	return nil
}
