package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ProjectID         string `mapstructure:"gcp_project"`
	Dataset           string `mapstructure:"bq_dataset"`
	ChannelID         string `mapstructure:"youtube_channel_id"`
	UploadsPlaylistID string `mapstructure:"uploads_playlist_id"`
	APIKey            string `mapstructure:"youtube_api_key"`

	// LookbackDays is how far behind "today" the analytics query date
	// sits. Analytics figures lag real time and are not final for the
	// most recent days.
	LookbackDays int `mapstructure:"analytics_lookback_days"`

	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`

	App    App
	Server Server
}

type App struct {
	Environment string `mapstructure:"app_environment"`
}

type Server struct {
	HttpPort string `mapstructure:"http_port"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("gcp_project", "")
	v.SetDefault("bq_dataset", "youtube_analytics")
	v.SetDefault("youtube_channel_id", "")
	v.SetDefault("uploads_playlist_id", "")
	v.SetDefault("youtube_api_key", "")
	v.SetDefault("analytics_lookback_days", 3)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_base_delay", time.Second)
	v.SetDefault("app_environment", "develop")
	v.SetDefault("http_port", "8080")

	return &Config{
		ProjectID:         v.GetString("gcp_project"),
		Dataset:           v.GetString("bq_dataset"),
		ChannelID:         v.GetString("youtube_channel_id"),
		UploadsPlaylistID: v.GetString("uploads_playlist_id"),
		APIKey:            v.GetString("youtube_api_key"),
		LookbackDays:      v.GetInt("analytics_lookback_days"),
		MaxRetries:        v.GetInt("max_retries"),
		RetryBaseDelay:    v.GetDuration("retry_base_delay"),
		App: App{
			Environment: v.GetString("app_environment"),
		},
		Server: Server{
			HttpPort: v.GetString("http_port"),
		},
	}, nil
}
