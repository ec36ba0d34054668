package youtube_client

import (
	"context"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

const subscriptionsPageSize = 50

// GetSubscriptions pages through the authed user's subscriptions with the
// pageToken cursor. OAuth only; an API key cannot see "mine".
func (ytc *YoutubeClient) GetSubscriptions(ctx context.Context, auth Auth) (subscriptions []models.YoutubeSubscriptionItem, err error) {

	pageToken := ""
	for {
		query := url.Values{}
		query.Add("part", "snippet")
		query.Add("mine", "true")
		query.Add("maxResults", strconv.Itoa(subscriptionsPageSize))
		if pageToken != "" {
			query.Add("pageToken", pageToken)
		}

		readedResp, err := ytc.apiGet(ctx, auth, "/youtube/v3/subscriptions", query)
		if err != nil {
			return nil, errors.Wrap(err, "GetSubscriptions")
		}

		var page models.YoutubeSubscriptionListResponse
		if err = jsoniter.Unmarshal(readedResp, &page); err != nil {
			return nil, errors.Wrap(err, "Unmarshal")
		}

		subscriptions = append(subscriptions, page.Items...)

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return subscriptions, nil
}
