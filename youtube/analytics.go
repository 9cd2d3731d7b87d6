package youtube

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	yta "google.golang.org/api/youtubeanalytics/v2"

	"youtube-snapshot/entities"
	"youtube-snapshot/pkg/retry"
)

const analyticsMaxResults = 200

// AnalyticsAPI fetches watch-time, engagement and traffic-source data
// from the YouTube Analytics API v2 on behalf of the channel owner.
type AnalyticsAPI struct {
	maxRetries int
	baseDelay  time.Duration
	querier    analyticsQuerier
}

type queryRequest struct {
	startDate  string
	endDate    string
	dimensions string
	metrics    string
	sort       string
	filters    string
	maxResults int64
}

// analyticsQuerier is the raw-call seam between AnalyticsAPI and the wire.
type analyticsQuerier interface {
	query(ctx context.Context, req queryRequest) (*yta.QueryResponse, error)
}

// NewAnalyticsAPI resolves the delegated OAuth credentials from Secret
// Manager and builds the Analytics client. Missing credentials surface
// here, where the orchestrator degrades the whole subsystem.
func NewAnalyticsAPI(ctx context.Context, projectID string, maxRetries int, baseDelay time.Duration) (*AnalyticsAPI, error) {
	ts, err := analyticsTokenSource(ctx, projectID)
	if err != nil {
		return nil, err
	}
	svc, err := yta.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("youtube analytics service: %w", err)
	}
	return &AnalyticsAPI{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		querier:    reportsQuerier{svc: svc},
	}, nil
}

// VideoAnalytics fetches per-video metrics for one day in a single
// channel-wide query, keeping only rows for the given video IDs.
func (a *AnalyticsAPI) VideoAnalytics(ctx context.Context, videoIDs []string, day civil.Date) ([]entities.VideoAnalytics, error) {
	resp, err := retry.Do(ctx, a.maxRetries, a.baseDelay, func() (*yta.QueryResponse, error) {
		return a.querier.query(ctx, queryRequest{
			startDate:  day.String(),
			endDate:    day.String(),
			dimensions: "video",
			metrics:    "estimatedMinutesWatched,averageViewDuration,averageViewPercentage,subscribersGained,subscribersLost,shares",
			sort:       "-estimatedMinutesWatched",
			maxResults: analyticsMaxResults,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("analytics query: %w", err)
	}

	known := make(map[string]bool, len(videoIDs))
	for _, id := range videoIDs {
		known[id] = true
	}

	var rows []entities.VideoAnalytics
	for _, row := range resp.Rows {
		videoID := rowString(row, 0)
		if !known[videoID] {
			continue
		}
		rows = append(rows, entities.VideoAnalytics{
			VideoID:                    videoID,
			EstimatedMinutesWatched:    rowInt64(row, 1),
			AverageViewDurationSeconds: rowInt64(row, 2),
			AverageViewPercentage:      rowFloat64(row, 3),
			SubscribersGained:          rowInt64(row, 4),
			SubscribersLost:            rowInt64(row, 5),
			Shares:                     rowInt64(row, 6),
		})
	}

	zerolog.Ctx(ctx).Info().
		Int("videos", len(rows)).
		Str("date", day.String()).
		Msg("fetched video analytics")
	return rows, nil
}

// TrafficSources fetches the traffic-source breakdown for each video,
// one query per video since the insightTrafficSourceType dimension
// requires a single-video filter. One video failing is recorded as one
// error string and the loop continues.
func (a *AnalyticsAPI) TrafficSources(ctx context.Context, videoIDs []string, day civil.Date) ([]entities.TrafficSource, []string) {
	var rows []entities.TrafficSource
	var errs []string

	for _, videoID := range videoIDs {
		resp, err := retry.Do(ctx, a.maxRetries, a.baseDelay, func() (*yta.QueryResponse, error) {
			return a.querier.query(ctx, queryRequest{
				startDate:  day.String(),
				endDate:    day.String(),
				dimensions: "insightTrafficSourceType",
				metrics:    "views,estimatedMinutesWatched",
				filters:    fmt.Sprintf("video==%s", videoID),
			})
		})
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("video_id", videoID).Msg("traffic sources fetch failed")
			errs = append(errs, fmt.Sprintf("%s: %v", videoID, err))
			continue
		}

		for _, row := range resp.Rows {
			rows = append(rows, entities.TrafficSource{
				VideoID:                 videoID,
				TrafficSourceType:       rowString(row, 0),
				Views:                   rowInt64(row, 1),
				EstimatedMinutesWatched: rowInt64(row, 2),
			})
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("rows", len(rows)).
		Int("videos", len(videoIDs)).
		Msg("fetched traffic sources")
	return rows, errs
}

type reportsQuerier struct {
	svc *yta.Service
}

func (q reportsQuerier) query(ctx context.Context, req queryRequest) (*yta.QueryResponse, error) {
	call := q.svc.Reports.Query().
		Ids("channel==MINE").
		StartDate(req.startDate).
		EndDate(req.endDate).
		Dimensions(req.dimensions).
		Metrics(req.metrics)
	if req.sort != "" {
		call = call.Sort(req.sort)
	}
	if req.filters != "" {
		call = call.Filters(req.filters)
	}
	if req.maxResults > 0 {
		call = call.MaxResults(req.maxResults)
	}
	return call.Context(ctx).Do()
}

// Report rows arrive as untyped JSON arrays; numbers decode as float64.

func rowString(row []interface{}, i int) string {
	if i < len(row) {
		if s, ok := row[i].(string); ok {
			return s
		}
	}
	return ""
}

func rowFloat64(row []interface{}, i int) float64 {
	if i < len(row) {
		if f, ok := row[i].(float64); ok {
			return f
		}
	}
	return 0
}

func rowInt64(row []interface{}, i int) int64 {
	return int64(rowFloat64(row, i))
}
