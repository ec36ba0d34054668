package youtube_client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// uploadsWindow is deliberately large: channels that upload shorts or VODs
// between streams push an active livestream out of a small recent window.
const uploadsWindow = 50

// GetUploadsItems fetches the most recent uploads-playlist entries. A 404 is
// tolerated as "no uploads" since livestream-only channels may have no
// playlist at all; any other failure propagates.
func (ytc *YoutubeClient) GetUploadsItems(ctx context.Context, auth Auth, playlistID string) ([]models.YoutubePlaylistItem, error) {

	query := url.Values{}
	query.Add("part", "snippet")
	query.Add("playlistId", playlistID)
	query.Add("maxResults", strconv.Itoa(uploadsWindow))

	readedResp, err := ytc.apiGet(ctx, auth, "/youtube/v3/playlistItems", query)
	if err != nil {
		if sourceErr, ok := models.AsSourceError(err); ok && sourceErr.HTTPStatus == http.StatusNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "GetUploadsItems")
	}

	var playlistItems models.YoutubePlaylistItemsResponse
	if err = jsoniter.Unmarshal(readedResp, &playlistItems); err != nil {
		return nil, errors.Wrap(err, "Unmarshal")
	}

	return playlistItems.Items, nil
}
