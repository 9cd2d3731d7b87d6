package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"youtube-snapshot/entities"
	"youtube-snapshot/pkg/retry"
)

// maxPageSize is the Data API ceiling for playlistItems.list pages and
// videos.list id batches alike.
const maxPageSize = 50

// DataAPI fetches a channel's catalog from the YouTube Data API v3.
type DataAPI struct {
	uploadsPlaylistID string
	maxRetries        int
	baseDelay         time.Duration
	caller            dataCaller
}

// dataCaller is the raw-call seam between DataAPI and the wire.
type dataCaller interface {
	playlistPage(ctx context.Context, playlistID, pageToken string) (*yt.PlaylistItemListResponse, error)
	videosByID(ctx context.Context, ids []string) (*yt.VideoListResponse, error)
}

func NewDataAPI(ctx context.Context, apiKey, uploadsPlaylistID string, maxRetries int, baseDelay time.Duration) (*DataAPI, error) {
	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube data service: %w", err)
	}
	return &DataAPI{
		uploadsPlaylistID: uploadsPlaylistID,
		maxRetries:        maxRetries,
		baseDelay:         baseDelay,
		caller:            serviceCaller{svc: svc},
	}, nil
}

// ListAllVideoIDs walks the uploads playlist page by page until the
// response carries no continuation token, accumulating every video ID.
func (a *DataAPI) ListAllVideoIDs(ctx context.Context) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		resp, err := retry.Do(ctx, a.maxRetries, a.baseDelay, func() (*yt.PlaylistItemListResponse, error) {
			return a.caller.playlistPage(ctx, a.uploadsPlaylistID, pageToken)
		})
		if err != nil {
			return nil, fmt.Errorf("list playlist items: %w", err)
		}

		for _, item := range resp.Items {
			if item.ContentDetails != nil {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	zerolog.Ctx(ctx).Info().Int("videos", len(ids)).Msg("found videos in uploads playlist")
	return ids, nil
}

// GetVideoDetails fetches snippet, contentDetails and statistics for
// every ID, batching into chunks of maxPageSize per call, and returns
// the normalized records in chunk-sequential order.
func (a *DataAPI) GetVideoDetails(ctx context.Context, videoIDs []string) ([]entities.Video, error) {
	var videos []entities.Video

	for start := 0; start < len(videoIDs); start += maxPageSize {
		end := min(start+maxPageSize, len(videoIDs))
		batch := videoIDs[start:end]

		resp, err := retry.Do(ctx, a.maxRetries, a.baseDelay, func() (*yt.VideoListResponse, error) {
			return a.caller.videosByID(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("list video details: %w", err)
		}

		for _, item := range resp.Items {
			videos = append(videos, normalizeVideo(item))
		}

		zerolog.Ctx(ctx).Info().
			Int("batch", start/maxPageSize+1).
			Int("size", len(batch)).
			Msg("fetched video details batch")
	}

	return videos, nil
}

type serviceCaller struct {
	svc *yt.Service
}

func (c serviceCaller) playlistPage(ctx context.Context, playlistID, pageToken string) (*yt.PlaylistItemListResponse, error) {
	call := c.svc.PlaylistItems.List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(maxPageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Context(ctx).Do()
}

func (c serviceCaller) videosByID(ctx context.Context, ids []string) (*yt.VideoListResponse, error) {
	return c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
}
