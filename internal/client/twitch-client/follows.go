package twitch_client

import (
	"context"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// GetFollowedChannels pages through the authed user's followed channels,
// repeating with after=<cursor> until the API returns an empty cursor.
func (twc *TwitchClient) GetFollowedChannels(ctx context.Context, token, userID string) (channels []models.FollowedChannel, err error) {

	cursor := ""
	for {
		query := url.Values{}
		query.Add("user_id", userID)
		query.Add("first", strconv.Itoa(models.TwitchPageSize))
		if cursor != "" {
			query.Add("after", cursor)
		}

		readedResp, err := twc.helixGet(ctx, token, "/helix/channels/followed", query)
		if err != nil {
			return nil, errors.Wrap(err, "GetFollowedChannels")
		}

		var page models.FollowedChannels
		if err = jsoniter.Unmarshal(readedResp, &page); err != nil {
			return nil, errors.Wrap(err, "Unmarshal")
		}

		channels = append(channels, page.Data...)

		cursor = page.Pagination.Cursor
		if cursor == "" {
			break
		}
	}

	return channels, nil
}
