package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/config"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/constants"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/logger"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/middleware"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/sqlgen"
)

func main() {
	fx.New(
		fx.Provide(logger.New),
		fx.Provide(config.Load),
		fx.Provide(sqlgen.NewHandler),
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	handler *sqlgen.Handler,
	cfg *config.Config,
	log zerolog.Logger,
) {
	mux := http.NewServeMux()
	handler.Register(mux)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.RequestID(log)(c.Handler(mux)),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("sqlgen service starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("shutting down sqlgen service")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			log.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
