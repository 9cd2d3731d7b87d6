package entities

import (
	"time"

	"youtube-snapshot/constant"
)

// Video is the normalized form of one Data API item. It carries the
// fields of both catalog tables; the per-table row types below project
// the slices each table actually stores.
type Video struct {
	VideoID           string             `json:"video_id"`
	Title             string             `json:"title"`
	PublishedAt       time.Time          `json:"published_at"`
	DurationSeconds   int                `json:"duration_seconds"`
	DurationFormatted string             `json:"duration_formatted"`
	VideoType         constant.VideoType `json:"video_type"`
	Tags              string             `json:"tags"`
	CategoryID        string             `json:"category_id"`
	ThumbnailURL      string             `json:"thumbnail_url"`
	ViewCount         int64              `json:"view_count"`
	LikeCount         int64              `json:"like_count"`
	CommentCount      int64              `json:"comment_count"`
	FavoriteCount     int64              `json:"favorite_count"`
}

type VideoMetadataRow struct {
	VideoID           string             `json:"video_id"`
	Title             string             `json:"title"`
	PublishedAt       time.Time          `json:"published_at"`
	DurationSeconds   int                `json:"duration_seconds"`
	DurationFormatted string             `json:"duration_formatted"`
	VideoType         constant.VideoType `json:"video_type"`
	Tags              string             `json:"tags"`
	CategoryID        string             `json:"category_id"`
	ThumbnailURL      string             `json:"thumbnail_url"`
}

type DailyVideoStatsRow struct {
	VideoID       string `json:"video_id"`
	ViewCount     int64  `json:"view_count"`
	LikeCount     int64  `json:"like_count"`
	CommentCount  int64  `json:"comment_count"`
	FavoriteCount int64  `json:"favorite_count"`
}

func (v Video) MetadataRow() VideoMetadataRow {
	return VideoMetadataRow{
		VideoID:           v.VideoID,
		Title:             v.Title,
		PublishedAt:       v.PublishedAt,
		DurationSeconds:   v.DurationSeconds,
		DurationFormatted: v.DurationFormatted,
		VideoType:         v.VideoType,
		Tags:              v.Tags,
		CategoryID:        v.CategoryID,
		ThumbnailURL:      v.ThumbnailURL,
	}
}

func (v Video) StatsRow() DailyVideoStatsRow {
	return DailyVideoStatsRow{
		VideoID:       v.VideoID,
		ViewCount:     v.ViewCount,
		LikeCount:     v.LikeCount,
		CommentCount:  v.CommentCount,
		FavoriteCount: v.FavoriteCount,
	}
}
