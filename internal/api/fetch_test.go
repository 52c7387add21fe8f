package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"cfb-pipeline/internal/cache"
	"cfb-pipeline/internal/ratelimit"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	hits int
	sets int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	s.hits++
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *memStore) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	v := make([]byte, len(payload))
	copy(v, payload)
	s.data[key] = v
	return nil
}

// brokenStore simulates an unreachable cache service.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache unreachable")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache unreachable")
}

func testFetcher(store cache.Store) *fetcher {
	limiter := ratelimit.New(100, time.Minute, ratelimit.SystemClock())
	return newFetcher(store, limiter, time.Hour, zerolog.Nop())
}

func TestFetchCachesSuccessfulResponse(t *testing.T) {
	var serverHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		w.Write([]byte(`[{"school":"Georgia"}]`))
	}))
	defer srv.Close()

	store := newMemStore()
	f := testFetcher(store)
	params := map[string]string{"year": "2024"}

	first, err := f.fetchJSON(context.Background(), srv.URL, nil, params)
	require.NoError(t, err)

	second, err := f.fetchJSON(context.Background(), srv.URL, nil, params)
	require.NoError(t, err)

	assert.Equal(t, 1, serverHits, "identical fetch within TTL must not hit the network")
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, 1, store.hits)
	assert.Equal(t, first, second)
}

func TestFetchClassifiesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	store := newMemStore()
	f := testFetcher(store)

	_, err := f.fetchJSON(context.Background(), srv.URL, nil, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, 0, store.sets, "failed responses must not be cached")
}

func TestFetchClassifiesConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	f := testFetcher(newMemStore())

	_, err := f.fetchJSON(context.Background(), addr, nil, nil)

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestFetchProceedsWhenCacheUnavailable(t *testing.T) {
	var serverHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := testFetcher(brokenStore{})

	body, err := f.fetchJSON(context.Background(), srv.URL, nil, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 1, serverHits)
}

func TestFetchRejectsInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	store := newMemStore()
	f := testFetcher(store)

	_, err := f.fetchJSON(context.Background(), srv.URL, nil, nil)
	assert.Error(t, err)
	assert.Equal(t, 0, store.sets)
}

func TestCacheHitConsumesNoRateBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	limiter := ratelimit.New(1, time.Hour, ratelimit.SystemClock())
	f := newFetcher(newMemStore(), limiter, time.Hour, zerolog.Nop())

	_, err := f.fetchJSON(context.Background(), srv.URL, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, limiter.Remaining())

	// With the budget exhausted, only a cache hit can return promptly.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = f.fetchJSON(ctx, srv.URL, nil, nil)
	assert.NoError(t, err)
}

func TestCFBDTeamsUsesBearerAuthAndCache(t *testing.T) {
	var serverHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/teams/fbs", r.URL.Path)
		w.Write([]byte(`[{"school":"Georgia","conference":"SEC"},{"mascot":"Orphan"}]`))
	}))
	defer srv.Close()

	client := &CFBDClient{
		baseURL: srv.URL,
		apiKey:  "test-key",
		fetcher: testFetcher(newMemStore()),
	}

	first, err := client.Teams(context.Background())
	require.NoError(t, err)

	second, err := client.Teams(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, serverHits)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "Georgia", *first[0].School)
	assert.Nil(t, first[1].School)
}

func TestOddsClientSendsFixedParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("apiKey"))
		assert.Equal(t, "us", q.Get("regions"))
		assert.Equal(t, "spreads,totals", q.Get("markets"))
		assert.Equal(t, "american", q.Get("oddsFormat"))
		assert.Equal(t, "iso", q.Get("dateFormat"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := &OddsClient{
		baseURL: srv.URL,
		apiKey:  "secret",
		fetcher: testFetcher(newMemStore()),
	}

	events, err := client.Odds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}
