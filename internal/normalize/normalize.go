// Package normalize reshapes upstream API payloads into the stable record
// types in internal/domain. Transforms preserve upstream order, drop
// records missing identity fields, and never substitute defaults for
// absent values.
package normalize

import (
	"errors"
	"time"

	"cfb-pipeline/internal/api"
	"cfb-pipeline/internal/domain"

	"github.com/rs/zerolog"
)

// ErrIncompleteGameStats is returned when an advanced box score does not
// carry stat lines for both teams.
var ErrIncompleteGameStats = errors.New("fewer than two team stat entries for game")

func Teams(in []api.TeamResponse) []domain.Team {
	teams := make([]domain.Team, 0, len(in))
	for _, t := range in {
		if t.School == nil || *t.School == "" {
			continue
		}
		teams = append(teams, domain.Team{
			School:       *t.School,
			Conference:   t.Conference,
			Division:     t.Division,
			Mascot:       t.Mascot,
			Abbreviation: t.Abbreviation,
			AltName1:     t.AltName1,
			AltName2:     t.AltName2,
			AltName3:     t.AltName3,
			Color:        t.Color,
			AltColor:     t.AltColor,
			Logos:        t.Logos,
		})
	}
	return teams
}

// Games normalizes schedule entries. Start dates arrive as ISO-8601 with a
// Z suffix; an unparseable date is logged and left nil, the record is
// still emitted because the date is not an identity field.
func Games(in []api.GameResponse, logger zerolog.Logger) []domain.Game {
	games := make([]domain.Game, 0, len(in))
	for _, g := range in {
		if g.ID == nil {
			continue
		}

		var startDate *time.Time
		if g.StartDate != nil {
			parsed, err := time.Parse(time.RFC3339, *g.StartDate)
			if err != nil {
				logger.Warn().Err(err).Str("start_date", *g.StartDate).Int64("game_id", *g.ID).Msg("could not parse game start date")
			} else {
				startDate = &parsed
			}
		}

		games = append(games, domain.Game{
			ID:             *g.ID,
			Season:         g.Season,
			Week:           g.Week,
			SeasonType:     g.SeasonType,
			StartDate:      startDate,
			HomeTeam:       g.HomeTeam,
			AwayTeam:       g.AwayTeam,
			HomePoints:     g.HomePoints,
			AwayPoints:     g.AwayPoints,
			Venue:          g.Venue,
			VenueID:        g.VenueID,
			NeutralSite:    g.NeutralSite,
			ConferenceGame: g.ConferenceGame,
			Attendance:     g.Attendance,
		})
	}
	return games
}

// GameStats pairs the two upstream stat entries of one game into
// positional team_1/team_2 slots. Upstream order is not guaranteed to be
// home-first; the schedule's home/away names are recorded alongside so
// the caller can resolve the slots. Fewer than two usable entries fails
// the whole game rather than emitting a one-sided record.
func GameStats(in []api.GameTeamStatsResponse, gameID int64, homeTeam, awayTeam string) (*domain.GameStats, error) {
	lines := make([]domain.TeamStatLine, 0, 2)
	for _, entry := range in {
		if entry.Team == nil || *entry.Team == "" {
			continue
		}
		lines = append(lines, statLine(*entry.Team, entry.Stats))
		if len(lines) == 2 {
			break
		}
	}

	if len(lines) < 2 {
		return nil, ErrIncompleteGameStats
	}

	return &domain.GameStats{
		GameID:   gameID,
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
		Team1:    lines[0],
		Team2:    lines[1],
	}, nil
}

func statLine(team string, stats api.GameStatValues) domain.TeamStatLine {
	return domain.TeamStatLine{
		Team:                     team,
		TotalYards:               stats.TotalYards,
		NetPassingYards:          stats.NetPassingYards,
		RushingYards:             stats.RushingYards,
		Turnovers:                stats.Turnovers,
		ThirdDownEff:             stats.ThirdDownEff,
		Sacks:                    stats.Sacks,
		TacklesForLoss:           stats.TacklesForLoss,
		PassCompletionPercentage: stats.PassCompletionPercentage,
		TimeOfPossession:         stats.TimeOfPossession,
		FirstDowns:               stats.FirstDowns,
		FourthDownEff:            stats.FourthDownEff,
		Penalties:                stats.Penalties,
		PenaltyYards:             stats.PenaltyYards,
	}
}

// BettingLines flattens the bookmakers/markets/outcomes nesting into one
// record per (game, bookmaker). The spread favors the home team, matched
// by outcome name; totals match the Over/Under labels. A bookmaker
// lacking a market leaves those fields nil.
func BettingLines(in []api.OddsEventResponse, logger zerolog.Logger) []domain.BettingLine {
	var lines []domain.BettingLine

	for _, event := range in {
		if event.HomeTeam == "" || event.AwayTeam == "" {
			continue
		}

		var commenceTime *time.Time
		if event.CommenceTime != "" {
			parsed, err := time.Parse(time.RFC3339, event.CommenceTime)
			if err != nil {
				logger.Warn().Err(err).Str("commence_time", event.CommenceTime).Msg("could not parse game time")
			} else {
				commenceTime = &parsed
			}
		}

		for _, bookmaker := range event.Bookmakers {
			line := domain.BettingLine{
				HomeTeam:     event.HomeTeam,
				AwayTeam:     event.AwayTeam,
				CommenceTime: commenceTime,
				Bookmaker:    bookmaker.Key,
			}

			for _, market := range bookmaker.Markets {
				switch market.Key {
				case "spreads":
					for _, outcome := range market.Outcomes {
						switch outcome.Name {
						case event.HomeTeam:
							line.SpreadPoint = outcome.Point
							line.SpreadHomePrice = outcome.Price
						case event.AwayTeam:
							line.SpreadAwayPrice = outcome.Price
						}
					}
				case "totals":
					for _, outcome := range market.Outcomes {
						switch outcome.Name {
						case "Over":
							line.TotalPoint = outcome.Point
							line.TotalOverPrice = outcome.Price
						case "Under":
							line.TotalUnderPrice = outcome.Price
						}
					}
				}
			}

			lines = append(lines, line)
		}
	}

	return lines
}

func PlayerStats(in []api.PlayerStatResponse) []domain.PlayerStat {
	stats := make([]domain.PlayerStat, 0, len(in))
	for _, s := range in {
		if s.Player == nil || *s.Player == "" {
			continue
		}
		stats = append(stats, domain.PlayerStat{
			Player:     *s.Player,
			Season:     s.Season,
			Team:       s.Team,
			Conference: s.Conference,
			Category:   s.Category,
			StatType:   s.StatType,
			Stat:       s.Stat,
		})
	}
	return stats
}

func TeamSeasonStats(in []api.TeamSeasonStatResponse) []domain.TeamSeasonStat {
	stats := make([]domain.TeamSeasonStat, 0, len(in))
	for _, s := range in {
		if s.Team == nil || *s.Team == "" {
			continue
		}
		stats = append(stats, domain.TeamSeasonStat{
			Team:       *s.Team,
			Season:     s.Season,
			Conference: s.Conference,
			StatName:   s.StatName,
			StatValue:  s.StatValue,
		})
	}
	return stats
}

func TalentRatings(in []api.TalentResponse) []domain.TalentRating {
	ratings := make([]domain.TalentRating, 0, len(in))
	for _, r := range in {
		if r.School == nil || *r.School == "" {
			continue
		}
		ratings = append(ratings, domain.TalentRating{
			School: *r.School,
			Year:   r.Year,
			Talent: r.Talent,
		})
	}
	return ratings
}

func RecruitingClasses(in []api.RecruitingResponse) []domain.RecruitingClass {
	classes := make([]domain.RecruitingClass, 0, len(in))
	for _, r := range in {
		if r.Team == nil || *r.Team == "" {
			continue
		}
		classes = append(classes, domain.RecruitingClass{
			Team:   *r.Team,
			Year:   r.Year,
			Rank:   r.Rank,
			Points: r.Points,
		})
	}
	return classes
}
