package youtube

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yt "google.golang.org/api/youtube/v3"
)

type fakeDataCaller struct {
	pages        map[string]*yt.PlaylistItemListResponse
	pageCalls    []string
	detailCalls  [][]string
	detailErr    error
	playlistErr  error
	playlistSeen string
}

func (f *fakeDataCaller) playlistPage(_ context.Context, playlistID, pageToken string) (*yt.PlaylistItemListResponse, error) {
	f.playlistSeen = playlistID
	f.pageCalls = append(f.pageCalls, pageToken)
	if f.playlistErr != nil {
		return nil, f.playlistErr
	}
	resp, ok := f.pages[pageToken]
	if !ok {
		return nil, fmt.Errorf("unknown page token %q", pageToken)
	}
	return resp, nil
}

func (f *fakeDataCaller) videosByID(_ context.Context, ids []string) (*yt.VideoListResponse, error) {
	f.detailCalls = append(f.detailCalls, append([]string(nil), ids...))
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	resp := &yt.VideoListResponse{}
	for _, id := range ids {
		resp.Items = append(resp.Items, &yt.Video{Id: id})
	}
	return resp, nil
}

func playlistPage(next string, ids ...string) *yt.PlaylistItemListResponse {
	resp := &yt.PlaylistItemListResponse{NextPageToken: next}
	for _, id := range ids {
		resp.Items = append(resp.Items, &yt.PlaylistItem{
			ContentDetails: &yt.PlaylistItemContentDetails{VideoId: id},
		})
	}
	return resp
}

func newTestDataAPI(caller dataCaller) *DataAPI {
	return &DataAPI{
		uploadsPlaylistID: "UUtest",
		maxRetries:        2,
		baseDelay:         time.Millisecond,
		caller:            caller,
	}
}

func TestListAllVideoIDsPagination(t *testing.T) {
	caller := &fakeDataCaller{pages: map[string]*yt.PlaylistItemListResponse{
		"":      playlistPage("page2", "a", "b"),
		"page2": playlistPage("page3", "c"),
		"page3": playlistPage("", "d", "e"),
	}}
	api := newTestDataAPI(caller)

	ids, err := api.ListAllVideoIDs(context.Background())
	require.NoError(t, err)

	// concatenation of all pages, in page order
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, []string{"", "page2", "page3"}, caller.pageCalls)
	assert.Equal(t, "UUtest", caller.playlistSeen)
}

func TestListAllVideoIDsSinglePage(t *testing.T) {
	caller := &fakeDataCaller{pages: map[string]*yt.PlaylistItemListResponse{
		"": playlistPage("", "only"),
	}}
	api := newTestDataAPI(caller)

	ids, err := api.ListAllVideoIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, ids)
	assert.Len(t, caller.pageCalls, 1)
}

func TestGetVideoDetailsChunking(t *testing.T) {
	ids := make([]string, 120)
	for i := range ids {
		ids[i] = fmt.Sprintf("vid%03d", i)
	}

	caller := &fakeDataCaller{}
	api := newTestDataAPI(caller)

	videos, err := api.GetVideoDetails(context.Background(), ids)
	require.NoError(t, err)

	require.Len(t, caller.detailCalls, 3)
	assert.Len(t, caller.detailCalls[0], 50)
	assert.Len(t, caller.detailCalls[1], 50)
	assert.Len(t, caller.detailCalls[2], 20)

	// every input id covered exactly once, chunk-sequentially
	require.Len(t, videos, len(ids))
	seen := map[string]int{}
	for i, v := range videos {
		assert.Equal(t, ids[i], v.VideoID)
		seen[v.VideoID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s fetched %d times", id, n)
	}
}

func TestGetVideoDetailsEmpty(t *testing.T) {
	caller := &fakeDataCaller{}
	api := newTestDataAPI(caller)

	videos, err := api.GetVideoDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Empty(t, caller.detailCalls)
}

func TestListAllVideoIDsError(t *testing.T) {
	caller := &fakeDataCaller{playlistErr: fmt.Errorf("playlist gone")}
	api := newTestDataAPI(caller)

	_, err := api.ListAllVideoIDs(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "list playlist items")
}

func TestGetVideoDetailsError(t *testing.T) {
	caller := &fakeDataCaller{detailErr: fmt.Errorf("boom")}
	api := newTestDataAPI(caller)

	_, err := api.GetVideoDetails(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "list video details")
}
