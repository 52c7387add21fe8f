package api

import (
	"context"
	"encoding/json"
	"strconv"

	"cfb-pipeline/internal/cache"
	"cfb-pipeline/internal/config"
	"cfb-pipeline/internal/ratelimit"

	"github.com/rs/zerolog"
)

const cfbdBaseURL = "https://api.collegefootballdata.com"

// CFBDClient talks to the College Football Data API. All endpoints share
// one rate budget and bearer-token auth.
type CFBDClient struct {
	baseURL string
	apiKey  string
	fetcher *fetcher
}

func NewCFBDClient(cfg *config.Config, store cache.Store, limiter *ratelimit.Limiter, logger zerolog.Logger) *CFBDClient {
	return &CFBDClient{
		baseURL: cfbdBaseURL,
		apiKey:  cfg.CFBDAPIKey,
		fetcher: newFetcher(store, limiter, cfg.CacheTTL, logger.With().Str("api", "cfbd").Logger()),
	}
}

func (c *CFBDClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}
}

func (c *CFBDClient) Teams(ctx context.Context) ([]TeamResponse, error) {
	return getJSON[[]TeamResponse](ctx, c.fetcher, c.baseURL+"/teams/fbs", c.headers(), nil)
}

func (c *CFBDClient) Games(ctx context.Context, year int) ([]GameResponse, error) {
	params := map[string]string{
		"year":     strconv.Itoa(year),
		"division": "fbs",
	}
	return getJSON[[]GameResponse](ctx, c.fetcher, c.baseURL+"/games", c.headers(), params)
}

func (c *CFBDClient) GameAdvancedStats(ctx context.Context, gameID int64) ([]GameTeamStatsResponse, error) {
	params := map[string]string{
		"gameId": strconv.FormatInt(gameID, 10),
	}
	return getJSON[[]GameTeamStatsResponse](ctx, c.fetcher, c.baseURL+"/stats/game/advanced", c.headers(), params)
}

// PlayerSeasonStats fetches season-long player stats; category is optional.
func (c *CFBDClient) PlayerSeasonStats(ctx context.Context, year int, category string) ([]PlayerStatResponse, error) {
	params := map[string]string{
		"year": strconv.Itoa(year),
	}
	if category != "" {
		params["category"] = category
	}
	return getJSON[[]PlayerStatResponse](ctx, c.fetcher, c.baseURL+"/stats/player/season", c.headers(), params)
}

func (c *CFBDClient) TeamSeasonStats(ctx context.Context, year int) ([]TeamSeasonStatResponse, error) {
	params := map[string]string{
		"year": strconv.Itoa(year),
	}
	return getJSON[[]TeamSeasonStatResponse](ctx, c.fetcher, c.baseURL+"/stats/season", c.headers(), params)
}

// AdvancedSeasonStats returns the raw payload; the nested efficiency shape
// is persisted as an artifact, not normalized.
func (c *CFBDClient) AdvancedSeasonStats(ctx context.Context, year int) (json.RawMessage, error) {
	params := map[string]string{
		"year": strconv.Itoa(year),
	}
	return c.fetcher.fetchJSON(ctx, c.baseURL+"/stats/season/advanced", c.headers(), params)
}

func (c *CFBDClient) TalentRatings(ctx context.Context, year int) ([]TalentResponse, error) {
	params := map[string]string{
		"year": strconv.Itoa(year),
	}
	return getJSON[[]TalentResponse](ctx, c.fetcher, c.baseURL+"/talent", c.headers(), params)
}

func (c *CFBDClient) RecruitingTeams(ctx context.Context, year int) ([]RecruitingResponse, error) {
	params := map[string]string{
		"year": strconv.Itoa(year),
	}
	return getJSON[[]RecruitingResponse](ctx, c.fetcher, c.baseURL+"/recruiting/teams", c.headers(), params)
}

// PlayerGameStats returns the raw per-game player box scores; week and
// team filters are optional.
func (c *CFBDClient) PlayerGameStats(ctx context.Context, year, week int, team string) (json.RawMessage, error) {
	params := map[string]string{
		"year": strconv.Itoa(year),
	}
	if week > 0 {
		params["week"] = strconv.Itoa(week)
	}
	if team != "" {
		params["team"] = team
	}
	return c.fetcher.fetchJSON(ctx, c.baseURL+"/games/players", c.headers(), params)
}

// TeamGameStats returns raw per-game team box scores for a week.
func (c *CFBDClient) TeamGameStats(ctx context.Context, year, week int) (json.RawMessage, error) {
	params := map[string]string{
		"year": strconv.Itoa(year),
	}
	if week > 0 {
		params["week"] = strconv.Itoa(week)
	}
	return c.fetcher.fetchJSON(ctx, c.baseURL+"/games/teams", c.headers(), params)
}

// Upstream response shapes. Every field the provider may omit is a
// pointer so the normalizer can tell absence from zero.

type TeamResponse struct {
	School       *string  `json:"school"`
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

type GameResponse struct {
	ID             *int64  `json:"id"`
	Season         *int    `json:"season"`
	Week           *int    `json:"week"`
	SeasonType     *string `json:"season_type"`
	StartDate      *string `json:"start_date"`
	HomeTeam       *string `json:"home_team"`
	AwayTeam       *string `json:"away_team"`
	HomePoints     *int    `json:"home_points"`
	AwayPoints     *int    `json:"away_points"`
	Venue          *string `json:"venue"`
	VenueID        *int64  `json:"venue_id"`
	NeutralSite    *bool   `json:"neutral_site"`
	ConferenceGame *bool   `json:"conference_game"`
	Attendance     *int    `json:"attendance"`
}

type GameTeamStatsResponse struct {
	Team  *string        `json:"team"`
	Stats GameStatValues `json:"stats"`
}

type GameStatValues struct {
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

type PlayerStatResponse struct {
	Season     *int     `json:"season"`
	Player     *string  `json:"player"`
	Team       *string  `json:"team"`
	Conference *string  `json:"conference"`
	Category   *string  `json:"category"`
	StatType   *string  `json:"statType"`
	Stat       *float64 `json:"stat"`
}

type TeamSeasonStatResponse struct {
	Season     *int     `json:"season"`
	Team       *string  `json:"team"`
	Conference *string  `json:"conference"`
	StatName   *string  `json:"statName"`
	StatValue  *float64 `json:"statValue"`
}

type TalentResponse struct {
	Year   *int     `json:"year"`
	School *string  `json:"school"`
	Talent *float64 `json:"talent"`
}

type RecruitingResponse struct {
	Year   *int     `json:"year"`
	Rank   *int     `json:"rank"`
	Team   *string  `json:"team"`
	Points *float64 `json:"points"`
}
