package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"cfb-pipeline/internal/cache"
	"cfb-pipeline/internal/constants"
	"cfb-pipeline/internal/ratelimit"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// fetcher is the cache-first fetch pipeline shared by both API clients.
// Flow per request: canonical cache key -> cache read (soft failure) ->
// on miss, rate-limiter acquire -> network call -> classify -> best-effort
// cache write. Cache hits consume no rate budget.
type fetcher struct {
	client  *fasthttp.Client
	cache   cache.Store
	limiter *ratelimit.Limiter
	ttl     time.Duration
	logger  zerolog.Logger
}

func newFetcher(store cache.Store, limiter *ratelimit.Limiter, ttl time.Duration, logger zerolog.Logger) *fetcher {
	return &fetcher{
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		cache:   store,
		limiter: limiter,
		ttl:     ttl,
		logger:  logger,
	}
}

func (f *fetcher) fetchJSON(ctx context.Context, rawURL string, headers, params map[string]string) ([]byte, error) {
	key := cache.Key(rawURL, params)

	cached, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to network")
	}
	if cached != nil {
		f.logger.Debug().Str("key", key).Msg("cache hit")
		return cached, nil
	}

	if err := f.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	uri := rawURL
	if len(params) > 0 {
		args := url.Values{}
		for k, v := range params {
			args.Set(k, v)
		}
		uri = rawURL + "?" + args.Encode()
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if deadline, ok := ctx.Deadline(); ok {
		err = f.client.DoDeadline(req, resp, deadline)
	} else {
		err = f.client.Do(req, resp)
	}
	if err != nil {
		return nil, &ConnectionError{URL: rawURL, Err: err}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode()}
	}

	// resp is pooled, the body must outlive the release
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON from %s", rawURL)
	}

	if err := f.cache.Set(ctx, key, body, f.ttl); err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	} else {
		f.logger.Debug().Str("key", key).Dur("ttl", f.ttl).Msg("cached response")
	}

	return body, nil
}

func getJSON[T any](ctx context.Context, f *fetcher, rawURL string, headers, params map[string]string) (T, error) {
	var out T

	body, err := f.fetchJSON(ctx, rawURL, headers, params)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return out, nil
}
