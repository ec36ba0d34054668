package youtube_client

import (
	"context"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// GetLiveDetails bulk-queries live-streaming details for candidate videos.
// One batched call; the videos endpoint takes the whole id list at once.
func (ytc *YoutubeClient) GetLiveDetails(ctx context.Context, auth Auth, videoIDs []string) ([]models.YoutubeVideoItem, error) {

	if len(videoIDs) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Add("part", "snippet,liveStreamingDetails")
	query.Add("id", strings.Join(videoIDs, ","))

	readedResp, err := ytc.apiGet(ctx, auth, "/youtube/v3/videos", query)
	if err != nil {
		return nil, errors.Wrap(err, "GetLiveDetails")
	}

	var videoList models.YoutubeVideoListResponse
	if err = jsoniter.Unmarshal(readedResp, &videoList); err != nil {
		return nil, errors.Wrap(err, "Unmarshal")
	}

	return videoList.Items, nil
}
