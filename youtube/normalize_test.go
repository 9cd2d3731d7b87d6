package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yt "google.golang.org/api/youtube/v3"

	"youtube-snapshot/constant"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input     string
		seconds   int
		formatted string
	}{
		{"PT12M34S", 754, "12:34"},
		{"PT1H12M54S", 4374, "1:12:54"},
		{"PT0S", 0, "0:00"},
		{"PT1H", 3600, "1:00:00"},
		{"PT45S", 45, "0:45"},
		{"PT3M", 180, "3:00"},
		{"", 0, "0:00"},
		{"garbage", 0, "0:00"},
	}

	for _, tt := range tests {
		seconds, formatted := ParseDuration(tt.input)
		assert.Equal(t, tt.seconds, seconds, "seconds for %q", tt.input)
		assert.Equal(t, tt.formatted, formatted, "formatted for %q", tt.input)
	}
}

func TestClassifyVideoType(t *testing.T) {
	assert.Equal(t, constant.VideoTypeShort, ClassifyVideoType(0))
	assert.Equal(t, constant.VideoTypeShort, ClassifyVideoType(180))
	assert.Equal(t, constant.VideoTypeFullLength, ClassifyVideoType(181))
}

func TestNormalizeVideo(t *testing.T) {
	item := &yt.Video{
		Id: "abc123",
		Snippet: &yt.VideoSnippet{
			Title:       "My Video",
			PublishedAt: "2026-01-15T10:30:00Z",
			CategoryId:  "22",
			Tags:        []string{"go", "etl", "bigquery"},
			Thumbnails: &yt.ThumbnailDetails{
				High:    &yt.Thumbnail{Url: "https://img.example/high.jpg"},
				Default: &yt.Thumbnail{Url: "https://img.example/default.jpg"},
			},
		},
		ContentDetails: &yt.VideoContentDetails{Duration: "PT2M30S"},
		Statistics: &yt.VideoStatistics{
			ViewCount:    1200,
			LikeCount:    34,
			CommentCount: 5,
		},
	}

	v := normalizeVideo(item)

	assert.Equal(t, "abc123", v.VideoID)
	assert.Equal(t, "My Video", v.Title)
	require.False(t, v.PublishedAt.IsZero())
	assert.Equal(t, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC), v.PublishedAt.UTC())
	assert.Equal(t, 150, v.DurationSeconds)
	assert.Equal(t, "2:30", v.DurationFormatted)
	assert.Equal(t, constant.VideoTypeShort, v.VideoType)
	assert.Equal(t, "go,etl,bigquery", v.Tags)
	assert.Equal(t, "22", v.CategoryID)
	// maxres absent, falls through to high
	assert.Equal(t, "https://img.example/high.jpg", v.ThumbnailURL)
	assert.Equal(t, int64(1200), v.ViewCount)
	assert.Equal(t, int64(34), v.LikeCount)
	assert.Equal(t, int64(5), v.CommentCount)
	assert.Equal(t, int64(0), v.FavoriteCount)
}

func TestNormalizeVideoDefaults(t *testing.T) {
	v := normalizeVideo(&yt.Video{Id: "empty"})

	assert.Equal(t, "empty", v.VideoID)
	assert.Equal(t, 0, v.DurationSeconds)
	assert.Equal(t, "0:00", v.DurationFormatted)
	assert.Equal(t, constant.VideoTypeShort, v.VideoType)
	assert.Equal(t, "", v.Tags)
	assert.Equal(t, "", v.ThumbnailURL)
	assert.Equal(t, int64(0), v.ViewCount)
}

func TestSelectThumbnailPriority(t *testing.T) {
	all := &yt.ThumbnailDetails{
		Maxres:  &yt.Thumbnail{Url: "maxres"},
		High:    &yt.Thumbnail{Url: "high"},
		Default: &yt.Thumbnail{Url: "default"},
	}
	assert.Equal(t, "maxres", selectThumbnail(all))

	all.Maxres = nil
	assert.Equal(t, "high", selectThumbnail(all))

	all.High = nil
	assert.Equal(t, "default", selectThumbnail(all))

	assert.Equal(t, "", selectThumbnail(&yt.ThumbnailDetails{}))
	assert.Equal(t, "", selectThumbnail(nil))
}
