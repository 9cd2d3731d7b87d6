package entities

// VideoAnalytics is one Analytics API row for a (video, analytics date)
// pair. The impression and click-through fields are nullable: the
// reports endpoint does not return them for the channel-wide query, so
// they stay null in the warehouse until a dedicated fetch fills them.
type VideoAnalytics struct {
	VideoID                    string   `json:"video_id"`
	EstimatedMinutesWatched    int64    `json:"estimated_minutes_watched"`
	AverageViewDurationSeconds int64    `json:"average_view_duration_seconds"`
	AverageViewPercentage      float64  `json:"average_view_percentage"`
	SubscribersGained          int64    `json:"subscribers_gained"`
	SubscribersLost            int64    `json:"subscribers_lost"`
	Shares                     int64    `json:"shares"`
	Impressions                *int64   `json:"impressions"`
	ImpressionCTR              *float64 `json:"impression_ctr"`
	AnnotationClickThroughRate *float64 `json:"annotation_click_through_rate"`
	CardClickRate              *float64 `json:"card_click_rate"`
}

// TrafficSource is one traffic-source breakdown row. Zero or more per
// (video, date) depending on which source types had activity.
type TrafficSource struct {
	VideoID                 string `json:"video_id"`
	TrafficSourceType       string `json:"traffic_source_type"`
	Views                   int64  `json:"views"`
	EstimatedMinutesWatched int64  `json:"estimated_minutes_watched"`
}
