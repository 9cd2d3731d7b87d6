package service

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"youtube-snapshot/config"
	"youtube-snapshot/constant"
	"youtube-snapshot/dto"
	"youtube-snapshot/entities"
	"youtube-snapshot/repository"
)

// CatalogAPI is the Data API surface the pipeline consumes.
type CatalogAPI interface {
	ListAllVideoIDs(ctx context.Context) ([]string, error)
	GetVideoDetails(ctx context.Context, videoIDs []string) ([]entities.Video, error)
}

// AnalyticsAPI is the Analytics API surface the pipeline consumes.
type AnalyticsAPI interface {
	VideoAnalytics(ctx context.Context, videoIDs []string, day civil.Date) ([]entities.VideoAnalytics, error)
	TrafficSources(ctx context.Context, videoIDs []string, day civil.Date) ([]entities.TrafficSource, []string)
}

// Factories run per invocation: upstream clients resolve credentials at
// call time, and an analytics factory failure (e.g. missing secrets)
// degrades the subsystem instead of failing the run.
type (
	CatalogFactory   func(ctx context.Context) (CatalogAPI, error)
	AnalyticsFactory func(ctx context.Context) (AnalyticsAPI, error)
)

type Service interface {
	Run(ctx context.Context, snapshotDate civil.Date) (*dto.RunSummary, error)
}

type service struct {
	cfg          *config.Config
	newCatalog   CatalogFactory
	newAnalytics AnalyticsFactory
	repo         repository.SnapshotRepository
}

func NewService(cfg *config.Config, newCatalog CatalogFactory, newAnalytics AnalyticsFactory, repo repository.SnapshotRepository) Service {
	return &service{
		cfg:          cfg,
		newCatalog:   newCatalog,
		newAnalytics: newAnalytics,
		repo:         repo,
	}
}

// Run executes one snapshot. Catalog fetch and catalog writes are
// fatal; the analytics subsystem only ever contributes error strings to
// the summary.
func (s *service) Run(ctx context.Context, snapshotDate civil.Date) (*dto.RunSummary, error) {
	if s.cfg.APIKey == "" {
		return nil, errors.New("YOUTUBE_API_KEY not set")
	}

	runID := uuid.New()
	logger := zerolog.Ctx(ctx).With().
		Str("run_id", runID.String()).
		Str("snapshot_date", snapshotDate.String()).
		Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Msg("starting pipeline run")

	catalog, err := s.newCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}

	videoIDs, err := catalog.ListAllVideoIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch video ids: %w", err)
	}

	videos, err := catalog.GetVideoDetails(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch video details: %w", err)
	}

	metadataRows := make([]entities.VideoMetadataRow, len(videos))
	statsRows := make([]entities.DailyVideoStatsRow, len(videos))
	shorts := 0
	for i, v := range videos {
		metadataRows[i] = v.MetadataRow()
		statsRows[i] = v.StatsRow()
		if v.VideoType == constant.VideoTypeShort {
			shorts++
		}
	}

	metadataCount, err := s.repo.Write(ctx, constant.TableVideoMetadata, repository.Rows(metadataRows), snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("write video metadata: %w", err)
	}
	statsCount, err := s.repo.Write(ctx, constant.TableDailyVideoStats, repository.Rows(statsRows), snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("write daily video stats: %w", err)
	}

	analyticsDate := snapshotDate.AddDays(-s.cfg.LookbackDays)
	analyticsCount, trafficCount, analyticsErrors := s.runAnalytics(ctx, videoIDs, analyticsDate, snapshotDate)

	summary := &dto.RunSummary{
		RunID:           runID,
		SnapshotDate:    snapshotDate.String(),
		VideosProcessed: len(videos),
		Shorts:          shorts,
		FullLength:      len(videos) - shorts,
		RowsInserted: dto.RowCounts{
			VideoMetadata:       metadataCount,
			DailyVideoStats:     statsCount,
			DailyVideoAnalytics: analyticsCount,
			DailyTrafficSources: trafficCount,
		},
		AnalyticsErrors: analyticsErrors,
	}

	logger.Info().
		Int("videos", summary.VideosProcessed).
		Int("analytics_errors", len(analyticsErrors)).
		Msg("pipeline run complete")
	return summary, nil
}

// runAnalytics fetches and writes the analytics subset. Nothing here
// fails the run: subsystem and write failures degrade into error
// strings, per-video failures are already strings.
func (s *service) runAnalytics(ctx context.Context, videoIDs []string, analyticsDate, snapshotDate civil.Date) (int, int, []string) {
	analytics, err := s.newAnalytics(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("analytics api unavailable, skipping analytics collection")
		return 0, 0, []string{fmt.Sprintf("analytics api: %v", err)}
	}

	var errs []string

	analyticsRows, err := analytics.VideoAnalytics(ctx, videoIDs, analyticsDate)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("video analytics fetch failed")
		errs = append(errs, fmt.Sprintf("analytics query failed: %v", err))
		analyticsRows = nil
	}
	analyticsCount, err := s.repo.Write(ctx, constant.TableDailyVideoAnalytics, repository.Rows(analyticsRows), snapshotDate)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("video analytics write failed")
		errs = append(errs, fmt.Sprintf("write daily_video_analytics: %v", err))
		analyticsCount = 0
	}

	trafficRows, trafficErrs := analytics.TrafficSources(ctx, videoIDs, analyticsDate)
	errs = append(errs, trafficErrs...)
	trafficCount, err := s.repo.Write(ctx, constant.TableDailyTrafficSources, repository.Rows(trafficRows), snapshotDate)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("traffic sources write failed")
		errs = append(errs, fmt.Sprintf("write daily_traffic_sources: %v", err))
		trafficCount = 0
	}

	return analyticsCount, trafficCount, errs
}
