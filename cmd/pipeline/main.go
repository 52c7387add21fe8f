package main

import (
	"context"
	"database/sql"

	"cfb-pipeline/internal/constants"
	fxmodules "cfb-pipeline/internal/fx"
	"cfb-pipeline/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.StopTimeout(constants.ShutdownTimeout),
		fx.Invoke(runPipeline),
	).Run()
}

func runPipeline(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	pipeline *service.Pipeline,
	db *sql.DB,
	logger zerolog.Logger,
) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, done := context.WithTimeout(runCtx, constants.CollectionTimeout)
				defer done()

				if err := pipeline.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("ingestion run ended with error")
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Error().Err(err).Msg("shutdown failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("stopping pipeline")
			cancel()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("pipeline stopped")
			return nil
		},
	})
}
