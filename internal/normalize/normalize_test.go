package normalize

import (
	"testing"
	"time"

	"cfb-pipeline/internal/api"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func i64Ptr(i int64) *int64     { return &i }
func f64Ptr(f float64) *float64 { return &f }

func TestTeamsDropsRecordsWithoutSchool(t *testing.T) {
	in := []api.TeamResponse{
		{School: strPtr("Georgia"), Conference: strPtr("SEC")},
		{School: nil, Mascot: strPtr("Orphan")},
		{School: strPtr(""), Mascot: strPtr("Blank")},
		{School: strPtr("Ohio State")},
	}

	teams := Teams(in)

	require.Len(t, teams, 2)
	assert.Equal(t, "Georgia", teams[0].School)
	assert.Equal(t, "Ohio State", teams[1].School)
	assert.Nil(t, teams[1].Conference)
}

func TestGamesKeepsRecordWhenDateUnparseable(t *testing.T) {
	in := []api.GameResponse{
		{ID: i64Ptr(1), StartDate: strPtr("2024-09-07T19:30:00.000Z")},
		{ID: i64Ptr(2), StartDate: strPtr("not-a-date")},
		{ID: nil, StartDate: strPtr("2024-09-07T19:30:00.000Z")},
	}

	games := Games(in, zerolog.Nop())

	require.Len(t, games, 2)
	require.NotNil(t, games[0].StartDate)
	assert.Equal(t, 2024, games[0].StartDate.Year())
	assert.Equal(t, int64(2), games[1].ID)
	assert.Nil(t, games[1].StartDate, "bad date nils the field, the record survives")
}

func TestGameStatsPairsBothOrders(t *testing.T) {
	home := api.GameTeamStatsResponse{Team: strPtr("Georgia"), Stats: api.GameStatValues{TotalYards: f64Ptr(450)}}
	away := api.GameTeamStatsResponse{Team: strPtr("Alabama"), Stats: api.GameStatValues{TotalYards: f64Ptr(380)}}

	for _, in := range [][]api.GameTeamStatsResponse{{home, away}, {away, home}} {
		stats, err := GameStats(in, 401, "Georgia", "Alabama")
		require.NoError(t, err)

		assert.Equal(t, int64(401), stats.GameID)
		assert.Equal(t, "Georgia", stats.HomeTeam)
		assert.Equal(t, "Alabama", stats.AwayTeam)
		// Slots follow upstream order.
		assert.Equal(t, *in[0].Team, stats.Team1.Team)
		assert.Equal(t, *in[1].Team, stats.Team2.Team)
	}
}

func TestGameStatsRequiresTwoEntries(t *testing.T) {
	one := []api.GameTeamStatsResponse{
		{Team: strPtr("Georgia"), Stats: api.GameStatValues{}},
	}

	_, err := GameStats(one, 401, "Georgia", "Alabama")
	assert.ErrorIs(t, err, ErrIncompleteGameStats)

	// A nameless entry does not count toward the pair.
	nameless := append(one, api.GameTeamStatsResponse{Team: nil})
	_, err = GameStats(nameless, 401, "Georgia", "Alabama")
	assert.ErrorIs(t, err, ErrIncompleteGameStats)
}

func TestGameStatsPreservesAbsentValues(t *testing.T) {
	in := []api.GameTeamStatsResponse{
		{Team: strPtr("Georgia"), Stats: api.GameStatValues{
			TotalYards:   f64Ptr(450),
			ThirdDownEff: strPtr("7-13"),
		}},
		{Team: strPtr("Alabama"), Stats: api.GameStatValues{}},
	}

	stats, err := GameStats(in, 401, "Georgia", "Alabama")
	require.NoError(t, err)

	assert.Equal(t, "7-13", *stats.Team1.ThirdDownEff)
	assert.Nil(t, stats.Team1.Sacks, "missing sacks stays nil, never zero")
	assert.Nil(t, stats.Team2.TotalYards)
	assert.Nil(t, stats.Team2.TimeOfPossession)
}

func TestBettingLinesFlattenPerBookmaker(t *testing.T) {
	in := []api.OddsEventResponse{
		{
			HomeTeam:     "Georgia Bulldogs",
			AwayTeam:     "Alabama Crimson Tide",
			CommenceTime: "2024-09-28T23:30:00Z",
			Bookmakers: []api.BookmakerResponse{
				{
					Key: "draftkings",
					Markets: []api.MarketResponse{
						{
							Key: "spreads",
							Outcomes: []api.OutcomeResponse{
								{Name: "Georgia Bulldogs", Price: intPtr(-110), Point: f64Ptr(-7.5)},
								{Name: "Alabama Crimson Tide", Price: intPtr(-110), Point: f64Ptr(7.5)},
							},
						},
						{
							Key: "totals",
							Outcomes: []api.OutcomeResponse{
								{Name: "Over", Price: intPtr(-105), Point: f64Ptr(52.5)},
								{Name: "Under", Price: intPtr(-115), Point: f64Ptr(52.5)},
							},
						},
					},
				},
				{
					// Spreads only; totals fields must stay nil.
					Key: "fanduel",
					Markets: []api.MarketResponse{
						{
							Key: "spreads",
							Outcomes: []api.OutcomeResponse{
								{Name: "Georgia Bulldogs", Price: intPtr(-108), Point: f64Ptr(-7.0)},
								{Name: "Alabama Crimson Tide", Price: intPtr(-112), Point: f64Ptr(7.0)},
							},
						},
					},
				},
			},
		},
	}

	lines := BettingLines(in, zerolog.Nop())
	require.Len(t, lines, 2)

	dk := lines[0]
	assert.Equal(t, "draftkings", dk.Bookmaker)
	assert.Equal(t, -7.5, *dk.SpreadPoint)
	assert.Equal(t, -110, *dk.SpreadHomePrice)
	assert.Equal(t, -110, *dk.SpreadAwayPrice)
	assert.Equal(t, 52.5, *dk.TotalPoint)
	assert.Equal(t, -105, *dk.TotalOverPrice)
	assert.Equal(t, -115, *dk.TotalUnderPrice)
	require.NotNil(t, dk.CommenceTime)
	assert.Equal(t, time.September, dk.CommenceTime.Month())

	fd := lines[1]
	assert.Equal(t, "fanduel", fd.Bookmaker)
	assert.Equal(t, -7.0, *fd.SpreadPoint)
	assert.Nil(t, fd.TotalPoint)
	assert.Nil(t, fd.TotalOverPrice)
	assert.Nil(t, fd.TotalUnderPrice)
}

func TestBettingLinesSkipEventsMissingTeams(t *testing.T) {
	in := []api.OddsEventResponse{
		{HomeTeam: "", AwayTeam: "Alabama Crimson Tide", Bookmakers: []api.BookmakerResponse{{Key: "draftkings"}}},
	}

	assert.Empty(t, BettingLines(in, zerolog.Nop()))
}

func TestPlayerStatsDropNamelessRecords(t *testing.T) {
	in := []api.PlayerStatResponse{
		{Player: strPtr("Carson Beck"), Team: strPtr("Georgia"), Stat: f64Ptr(3941)},
		{Player: nil, Team: strPtr("Georgia")},
	}

	stats := PlayerStats(in)

	require.Len(t, stats, 1)
	assert.Equal(t, "Carson Beck", stats[0].Player)
	assert.Equal(t, 3941.0, *stats[0].Stat)
}

func TestTalentAndRecruitingIdentityFilters(t *testing.T) {
	talent := TalentRatings([]api.TalentResponse{
		{School: strPtr("Georgia"), Year: intPtr(2024), Talent: f64Ptr(1023.7)},
		{School: nil, Talent: f64Ptr(900)},
	})
	require.Len(t, talent, 1)
	assert.Equal(t, "Georgia", talent[0].School)

	classes := RecruitingClasses([]api.RecruitingResponse{
		{Team: strPtr("Georgia"), Year: intPtr(2024), Rank: intPtr(2), Points: f64Ptr(318.4)},
		{Team: strPtr("")},
	})
	require.Len(t, classes, 1)
	assert.Equal(t, 2, *classes[0].Rank)
}
