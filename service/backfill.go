package service

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"youtube-snapshot/constant"
	"youtube-snapshot/dto"
	"youtube-snapshot/repository"
)

// interDayDelay keeps the backfill under the Analytics API rate limits.
const interDayDelay = 500 * time.Millisecond

// BackfillService re-ingests historical analytics day by day. The
// catalog tables are untouched; each day's rows are filed under that
// day's own partition date.
type BackfillService interface {
	Run(ctx context.Context, startDate, endDate civil.Date) (*dto.BackfillSummary, error)
}

type backfillService struct {
	newAnalytics AnalyticsFactory
	repo         repository.SnapshotRepository
	delay        time.Duration
}

func NewBackfillService(newAnalytics AnalyticsFactory, repo repository.SnapshotRepository) BackfillService {
	return &backfillService{
		newAnalytics: newAnalytics,
		repo:         repo,
		delay:        interDayDelay,
	}
}

func (s *backfillService) Run(ctx context.Context, startDate, endDate civil.Date) (*dto.BackfillSummary, error) {
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	videoIDs, err := s.repo.LatestVideoIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load video ids: %w", err)
	}

	analytics, err := s.newAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics client: %w", err)
	}

	totalDays := endDate.DaysSince(startDate) + 1
	zerolog.Ctx(ctx).Info().
		Int("days", totalDays).
		Int("videos", len(videoIDs)).
		Str("start", startDate.String()).
		Str("end", endDate.String()).
		Msg("starting backfill")

	summary := &dto.BackfillSummary{
		StartDate: startDate.String(),
		EndDate:   endDate.String(),
		Days:      totalDays,
	}

	dayNum := 0
	for day := startDate; !endDate.Before(day); day = day.AddDays(1) {
		dayNum++
		logger := zerolog.Ctx(ctx).With().
			Str("date", day.String()).
			Int("day", dayNum).
			Int("days", totalDays).
			Logger()
		dayCtx := logger.WithContext(ctx)

		analyticsRows, err := analytics.VideoAnalytics(dayCtx, videoIDs, day)
		if err != nil {
			logger.Warn().Err(err).Msg("video analytics fetch failed")
			summary.AnalyticsError = append(summary.AnalyticsError, fmt.Sprintf("%s: %v", day, err))
			analyticsRows = nil
		}
		analyticsCount, err := s.repo.Write(dayCtx, constant.TableDailyVideoAnalytics, repository.Rows(analyticsRows), day)
		if err != nil {
			return summary, fmt.Errorf("write daily_video_analytics for %s: %w", day, err)
		}
		summary.AnalyticsRows += analyticsCount

		trafficRows, trafficErrs := analytics.TrafficSources(dayCtx, videoIDs, day)
		summary.AnalyticsError = append(summary.AnalyticsError, trafficErrs...)
		trafficCount, err := s.repo.Write(dayCtx, constant.TableDailyTrafficSources, repository.Rows(trafficRows), day)
		if err != nil {
			return summary, fmt.Errorf("write daily_traffic_sources for %s: %w", day, err)
		}
		summary.TrafficRows += trafficCount

		logger.Info().
			Int("analytics_rows", analyticsCount).
			Int("traffic_rows", trafficCount).
			Msg("backfilled day")

		if !endDate.Before(day.AddDays(1)) {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("analytics_rows", summary.AnalyticsRows).
		Int("traffic_rows", summary.TrafficRows).
		Int("days", totalDays).
		Msg("backfill complete")
	return summary, nil
}
