package dto

import "github.com/google/uuid"

// RowCounts holds the per-table written-row counts of one run.
type RowCounts struct {
	VideoMetadata       int `json:"video_metadata"`
	DailyVideoStats     int `json:"daily_video_stats"`
	DailyVideoAnalytics int `json:"daily_video_analytics"`
	DailyTrafficSources int `json:"daily_traffic_sources"`
}

// RunSummary is the JSON body returned by the snapshot endpoint. A
// non-empty AnalyticsErrors list does not make the run a failure; only
// catalog-stage errors do, and those never produce a summary at all.
type RunSummary struct {
	RunID           uuid.UUID `json:"run_id"`
	SnapshotDate    string    `json:"snapshot_date"`
	VideosProcessed int       `json:"videos_processed"`
	Shorts          int       `json:"shorts"`
	FullLength      int       `json:"full_length"`
	RowsInserted    RowCounts `json:"rows_inserted"`
	AnalyticsErrors []string  `json:"analytics_errors"`
}

// BackfillSummary reports the totals of a historical backfill run.
type BackfillSummary struct {
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Days           int      `json:"days"`
	AnalyticsRows  int      `json:"analytics_rows"`
	TrafficRows    int      `json:"traffic_rows"`
	AnalyticsError []string `json:"analytics_errors"`
}
