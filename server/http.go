package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"youtube-snapshot/config"
	"youtube-snapshot/constant"
	snapshotHandler "youtube-snapshot/handler"
	"youtube-snapshot/repository"
	"youtube-snapshot/service"
	"youtube-snapshot/youtube"
)

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(SetupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := repository.NewRepo(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("NewRepo")
	}
	defer func() {
		if err := repo.Close(); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to close warehouse client")
		}
	}()

	pipeline := service.NewService(cfg, CatalogFactory(cfg), AnalyticsFactory(cfg), repo)

	serviceDeps := snapshotHandler.ServiceDependencies{
		Pipeline: pipeline,
	}

	r := gin.Default()
	addHealth(r)
	r.POST("/snapshot", snapshotHandler.SnapshotHandler(serviceDeps))

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := handler.Shutdown(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

// CatalogFactory builds a Data API client per run.
func CatalogFactory(cfg *config.Config) service.CatalogFactory {
	return func(ctx context.Context) (service.CatalogAPI, error) {
		return youtube.NewDataAPI(ctx, cfg.APIKey, cfg.UploadsPlaylistID, cfg.MaxRetries, cfg.RetryBaseDelay)
	}
}

// AnalyticsFactory builds an Analytics API client per run, resolving
// OAuth secrets at call time.
func AnalyticsFactory(cfg *config.Config) service.AnalyticsFactory {
	return func(ctx context.Context) (service.AnalyticsAPI, error) {
		return youtube.NewAnalyticsAPI(ctx, cfg.ProjectID, cfg.MaxRetries, cfg.RetryBaseDelay)
	}
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func SetupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
