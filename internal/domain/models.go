package domain

import (
	"time"
)

// Normalized records. Optional fields are pointers so an upstream omission
// stays distinguishable from a real zero; identity fields are plain values
// and records missing them are dropped by the normalizer.

type Team struct {
	School       string   `json:"school"`
	Conference   *string  `json:"conference"`
	Division     *string  `json:"division"`
	Mascot       *string  `json:"mascot"`
	Abbreviation *string  `json:"abbreviation"`
	AltName1     *string  `json:"alt_name_1"`
	AltName2     *string  `json:"alt_name_2"`
	AltName3     *string  `json:"alt_name_3"`
	Color        *string  `json:"color"`
	AltColor     *string  `json:"alt_color"`
	Logos        []string `json:"logos"`
}

type Game struct {
	ID             int64      `json:"id"`
	Season         *int       `json:"season"`
	Week           *int       `json:"week"`
	SeasonType     *string    `json:"season_type"`
	StartDate      *time.Time `json:"start_date"`
	HomeTeam       *string    `json:"home_team"`
	AwayTeam       *string    `json:"away_team"`
	HomePoints     *int       `json:"home_points"`
	AwayPoints     *int       `json:"away_points"`
	Venue          *string    `json:"venue"`
	VenueID        *int64     `json:"venue_id"`
	NeutralSite    *bool      `json:"neutral_site"`
	ConferenceGame *bool      `json:"conference_game"`
	Attendance     *int       `json:"attendance"`
}

// Completed reports whether both scores are present.
func (g Game) Completed() bool {
	return g.HomePoints != nil && g.AwayPoints != nil
}

// TeamStatLine is one team's box-score line for a single game. Ratio
// stats ("3-12") and possession clocks ("28:45") stay strings.
type TeamStatLine struct {
	Team                     string   `json:"team"`
	TotalYards               *float64 `json:"totalYards"`
	NetPassingYards          *float64 `json:"netPassingYards"`
	RushingYards             *float64 `json:"rushingYards"`
	Turnovers                *float64 `json:"turnovers"`
	ThirdDownEff             *string  `json:"thirdDownEff"`
	Sacks                    *float64 `json:"sacks"`
	TacklesForLoss           *float64 `json:"tacklesForLoss"`
	PassCompletionPercentage *string  `json:"passCompletionPercentage"`
	TimeOfPossession         *string  `json:"timeOfPossession"`
	FirstDowns               *float64 `json:"firstDowns"`
	FourthDownEff            *string  `json:"fourthDownEff"`
	Penalties                *float64 `json:"penalties"`
	PenaltyYards             *float64 `json:"penaltyYards"`
}

// GameStats pairs the two team stat lines of one game. Team1/Team2 are
// positional as returned upstream; HomeTeam/AwayTeam come from the
// schedule so consumers can resolve which slot is which.
type GameStats struct {
	GameID   int64        `json:"game_id"`
	HomeTeam string       `json:"home_team"`
	AwayTeam string       `json:"away_team"`
	Team1    TeamStatLine `json:"team_1"`
	Team2    TeamStatLine `json:"team_2"`
}

// BettingLine is one (game, bookmaker) pair. Spread fields favor the home
// team; a bookmaker lacking a market leaves those fields nil.
type BettingLine struct {
	HomeTeam        string     `json:"home_team"`
	AwayTeam        string     `json:"away_team"`
	CommenceTime    *time.Time `json:"commence_time"`
	Bookmaker       string     `json:"bookmaker"`
	SpreadPoint     *float64   `json:"spread_point"`
	SpreadHomePrice *int       `json:"spread_home_price"`
	SpreadAwayPrice *int       `json:"spread_away_price"`
	TotalPoint      *float64   `json:"total_point"`
	TotalOverPrice  *int       `json:"total_over_price"`
	TotalUnderPrice *int       `json:"total_under_price"`
}

type PlayerStat struct {
	Player     string   `json:"player"`
	Season     *int     `json:"season"`
	Team       *string  `json:"team"`
	Conference *string  `json:"conference"`
	Category   *string  `json:"category"`
	StatType   *string  `json:"stat_type"`
	Stat       *float64 `json:"stat"`
}

type TeamSeasonStat struct {
	Team       string   `json:"team"`
	Season     *int     `json:"season"`
	Conference *string  `json:"conference"`
	StatName   *string  `json:"stat_name"`
	StatValue  *float64 `json:"stat_value"`
}

type TalentRating struct {
	School string   `json:"school"`
	Year   *int     `json:"year"`
	Talent *float64 `json:"talent"`
}

type RecruitingClass struct {
	Team   string   `json:"team"`
	Year   *int     `json:"year"`
	Rank   *int     `json:"rank"`
	Points *float64 `json:"points"`
}
