package youtube_client

import (
	"context"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// GetChannelInfo resolves whatever the user typed (legacy username or
// channel id) to channel metadata. Username lookup is tried first, id is
// the fallback when it returns no items. Results are memoized.
func (ytc *YoutubeClient) GetChannelInfo(ctx context.Context, auth Auth, manualInput string) (models.YoutubeChannelItem, bool, error) {

	if item, ok := ytc.cache.Get(manualInput); ok {
		return item, true, nil
	}

	item, found, err := ytc.listChannel(ctx, auth, "forUsername", manualInput)
	if err != nil {
		return models.YoutubeChannelItem{}, false, errors.Wrap(err, "listChannel forUsername")
	}

	if !found {
		item, found, err = ytc.listChannel(ctx, auth, "id", manualInput)
		if err != nil {
			return models.YoutubeChannelItem{}, false, errors.Wrap(err, "listChannel id")
		}
	}

	if !found {
		return models.YoutubeChannelItem{}, false, nil
	}

	ytc.cache.Put(manualInput, item)

	return item, true, nil
}

func (ytc *YoutubeClient) listChannel(ctx context.Context, auth Auth, filterParam, filterValue string) (models.YoutubeChannelItem, bool, error) {

	query := url.Values{}
	query.Add("part", "snippet,contentDetails")
	query.Add(filterParam, filterValue)

	readedResp, err := ytc.apiGet(ctx, auth, "/youtube/v3/channels", query)
	if err != nil {
		return models.YoutubeChannelItem{}, false, err
	}

	var channelList models.YoutubeChannelListResponse
	if err = jsoniter.Unmarshal(readedResp, &channelList); err != nil {
		return models.YoutubeChannelItem{}, false, errors.Wrap(err, "Unmarshal")
	}

	if len(channelList.Items) == 0 {
		return models.YoutubeChannelItem{}, false, nil
	}

	return channelList.Items[0], true, nil
}
