package service

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youtube-snapshot/entities"
)

func newTestBackfill(analytics *fakeAnalytics, repo *fakeRepo) *backfillService {
	return &backfillService{
		newAnalytics: analyticsFactory(analytics, nil),
		repo:         repo,
		delay:        0,
	}
}

func TestBackfillWritesEveryDayUnderItsOwnPartition(t *testing.T) {
	repo := newFakeRepo()
	repo.latestIDs = []string{"v1", "v2"}
	analytics := &fakeAnalytics{
		rows:    []entities.VideoAnalytics{{VideoID: "v1"}},
		traffic: []entities.TrafficSource{{VideoID: "v1"}, {VideoID: "v2"}},
	}

	start := civil.Date{Year: 2026, Month: 8, Day: 1}
	end := civil.Date{Year: 2026, Month: 8, Day: 3}

	svc := newTestBackfill(analytics, repo)
	summary, err := svc.Run(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Days)
	assert.Equal(t, 3, summary.AnalyticsRows)
	assert.Equal(t, 6, summary.TrafficRows)
	assert.Empty(t, summary.AnalyticsError)

	assert.Equal(t, []string{
		"daily_video_analytics 2026-08-01:1",
		"daily_traffic_sources 2026-08-01:2",
		"daily_video_analytics 2026-08-02:1",
		"daily_traffic_sources 2026-08-02:2",
		"daily_video_analytics 2026-08-03:1",
		"daily_traffic_sources 2026-08-03:2",
	}, repo.history)
}

func TestBackfillSingleDay(t *testing.T) {
	repo := newFakeRepo()
	repo.latestIDs = []string{"v1"}
	analytics := &fakeAnalytics{rows: []entities.VideoAnalytics{{VideoID: "v1"}}}

	day := civil.Date{Year: 2026, Month: 2, Day: 14}
	svc := newTestBackfill(analytics, repo)

	summary, err := svc.Run(context.Background(), day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Days)
	assert.Equal(t, 1, summary.AnalyticsRows)
}

func TestBackfillRejectsInvertedRange(t *testing.T) {
	svc := newTestBackfill(&fakeAnalytics{}, newFakeRepo())

	_, err := svc.Run(context.Background(),
		civil.Date{Year: 2026, Month: 8, Day: 3},
		civil.Date{Year: 2026, Month: 8, Day: 1})
	require.Error(t, err)
	assert.ErrorContains(t, err, "before start date")
}

func TestBackfillDayFetchFailureRecordedAndContinues(t *testing.T) {
	repo := newFakeRepo()
	repo.latestIDs = []string{"v1"}
	analytics := &fakeAnalytics{rowsErr: errors.New("report not ready")}

	start := civil.Date{Year: 2026, Month: 8, Day: 1}
	end := civil.Date{Year: 2026, Month: 8, Day: 2}

	svc := newTestBackfill(analytics, repo)
	summary, err := svc.Run(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.AnalyticsRows)
	assert.Len(t, summary.AnalyticsError, 2)
	// empty partitions were still written (delete ran, zero rows loaded)
	assert.Contains(t, repo.history, "daily_video_analytics 2026-08-01:0")
	assert.Contains(t, repo.history, "daily_video_analytics 2026-08-02:0")
}

func TestBackfillAnalyticsClientFailureIsFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.latestIDs = []string{"v1"}

	svc := &backfillService{
		newAnalytics: analyticsFactory(nil, errors.New("missing refresh token")),
		repo:         repo,
		delay:        0,
	}

	_, err := svc.Run(context.Background(),
		civil.Date{Year: 2026, Month: 8, Day: 1},
		civil.Date{Year: 2026, Month: 8, Day: 1})
	require.Error(t, err)
	assert.ErrorContains(t, err, "analytics client")
}
