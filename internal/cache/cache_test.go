package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyNoParams(t *testing.T) {
	key := Key("https://api.collegefootballdata.com/teams/fbs", nil)
	assert.Equal(t, "cfb:cache:https://api.collegefootballdata.com/teams/fbs", key)
}

func TestKeySortsParams(t *testing.T) {
	key := Key("https://api.collegefootballdata.com/games", map[string]string{
		"year":     "2024",
		"division": "fbs",
	})
	assert.Equal(t, "cfb:cache:https://api.collegefootballdata.com/games?division=fbs&year=2024", key)
}

func TestKeyPermutationInsensitive(t *testing.T) {
	// Identical parameter sets must collide regardless of construction order.
	p1 := map[string]string{}
	p2 := map[string]string{}

	pairs := [][2]string{
		{"year", "2024"},
		{"week", "7"},
		{"team", "Georgia"},
		{"category", "passing"},
	}

	for _, kv := range pairs {
		p1[kv[0]] = kv[1]
	}
	for i := len(pairs) - 1; i >= 0; i-- {
		p2[pairs[i][0]] = pairs[i][1]
	}

	assert.Equal(t, Key("https://example.test/stats", p1), Key("https://example.test/stats", p2))
}

func TestKeyDistinguishesValues(t *testing.T) {
	k1 := Key("https://example.test/games", map[string]string{"year": "2023"})
	k2 := Key("https://example.test/games", map[string]string{"year": "2024"})
	assert.NotEqual(t, k1, k2)
}
