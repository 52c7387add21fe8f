package fx

import (
	"cfb-pipeline/internal/api"
	"cfb-pipeline/internal/artifact"
	"cfb-pipeline/internal/cache"
	"cfb-pipeline/internal/config"
	"cfb-pipeline/internal/database"
	"cfb-pipeline/internal/logger"
	"cfb-pipeline/internal/ratelimit"
	"cfb-pipeline/internal/repository"
	"cfb-pipeline/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideCacheStore(cfg *config.Config, log zerolog.Logger) cache.Store {
	return cache.NewRedis(cfg, log)
}

// Each endpoint group gets its own explicitly constructed limiter, shared
// by every call the client makes.
func ProvideCFBDClient(cfg *config.Config, store cache.Store, log zerolog.Logger) *api.CFBDClient {
	limiter := ratelimit.New(cfg.CFBDRateMax, cfg.CFBDRateWindow, ratelimit.SystemClock())
	return api.NewCFBDClient(cfg, store, limiter, log)
}

func ProvideOddsClient(cfg *config.Config, store cache.Store, log zerolog.Logger) *api.OddsClient {
	limiter := ratelimit.New(cfg.OddsRateMax, cfg.OddsRateWindow, ratelimit.SystemClock())
	return api.NewOddsClient(cfg, store, limiter, log)
}

func ProvideCollector(cfbd *api.CFBDClient, odds *api.OddsClient, cfg *config.Config, log zerolog.Logger) *service.Collector {
	return service.NewCollector(cfbd, odds, cfg, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideCacheStore),
	// api clients
	fx.Provide(ProvideCFBDClient),
	fx.Provide(ProvideOddsClient),
	// persistence
	fx.Provide(repository.NewRecords),
	fx.Provide(artifact.NewWriter),
	// svc
	fx.Provide(ProvideCollector),
	fx.Provide(service.NewPipeline),
)
