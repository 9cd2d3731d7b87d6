package constant

type VideoType string

const (
	VideoTypeShort      VideoType = "short"
	VideoTypeFullLength VideoType = "full_length"
)

func (v VideoType) String() string {
	return string(v)
}

// ShortsThresholdSeconds separates shorts from full-length videos.
// Exactly 180 seconds still counts as a short.
const ShortsThresholdSeconds = 180

type Table string

const (
	TableVideoMetadata       Table = "video_metadata"
	TableDailyVideoStats     Table = "daily_video_stats"
	TableDailyVideoAnalytics Table = "daily_video_analytics"
	TableDailyTrafficSources Table = "daily_traffic_sources"
)

func (t Table) String() string {
	return string(t)
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
