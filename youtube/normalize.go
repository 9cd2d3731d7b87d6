package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"youtube-snapshot/constant"
	"youtube-snapshot/entities"
)

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO 8601 duration like "PT1H12M54S" into
// total seconds and a display string ("1:12:54", or "12:34" when the
// hour segment is zero). Unparseable input yields (0, "0:00").
func ParseDuration(isoDuration string) (int, string) {
	m := durationPattern.FindStringSubmatch(isoDuration)
	if m == nil {
		return 0, "0:00"
	}

	hours := atoiOrZero(m[1])
	minutes := atoiOrZero(m[2])
	seconds := atoiOrZero(m[3])
	total := hours*3600 + minutes*60 + seconds

	if hours > 0 {
		return total, fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return total, fmt.Sprintf("%d:%02d", minutes, seconds)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// ClassifyVideoType buckets a video by duration. The threshold is
// inclusive: exactly 180 seconds is still a short.
func ClassifyVideoType(durationSeconds int) constant.VideoType {
	if durationSeconds <= constant.ShortsThresholdSeconds {
		return constant.VideoTypeShort
	}
	return constant.VideoTypeFullLength
}

// normalizeVideo flattens one videos.list item into the typed record
// shared by the video_metadata and daily_video_stats tables.
func normalizeVideo(item *yt.Video) entities.Video {
	v := entities.Video{VideoID: item.Id}

	duration := ""
	if item.ContentDetails != nil {
		duration = item.ContentDetails.Duration
	}
	v.DurationSeconds, v.DurationFormatted = ParseDuration(duration)
	v.VideoType = ClassifyVideoType(v.DurationSeconds)

	if snippet := item.Snippet; snippet != nil {
		v.Title = snippet.Title
		v.CategoryID = snippet.CategoryId
		v.Tags = strings.Join(snippet.Tags, ",")
		v.ThumbnailURL = selectThumbnail(snippet.Thumbnails)
		if t, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
			v.PublishedAt = t
		}
	}

	if stats := item.Statistics; stats != nil {
		v.ViewCount = int64(stats.ViewCount)
		v.LikeCount = int64(stats.LikeCount)
		v.CommentCount = int64(stats.CommentCount)
		v.FavoriteCount = int64(stats.FavoriteCount)
	}

	return v
}

// selectThumbnail picks the highest-resolution thumbnail available:
// maxres, then high, then default, else empty.
func selectThumbnail(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	switch {
	case t.Maxres != nil && t.Maxres.Url != "":
		return t.Maxres.Url
	case t.High != nil && t.High.Url != "":
		return t.High.Url
	case t.Default != nil && t.Default.Url != "":
		return t.Default.Url
	}
	return ""
}
