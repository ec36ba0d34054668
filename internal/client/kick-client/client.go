package kick_client

import (
	"context"
	"io/ioutil"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/models"
)

const kickApiSchemeHost string = "https://kick.com"

type KickClient struct {
	apiSchemeHost string
}

func NewKickClient() *KickClient {
	return &KickClient{
		apiSchemeHost: kickApiSchemeHost,
	}
}

// GetChannel fetches one channel's public info. No auth, no pagination.
func (kc *KickClient) GetChannel(ctx context.Context, username string) (data *models.KickChannelResponse, err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", kc.apiSchemeHost+"/api/v2/channels/"+username, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return
	}

	defer resp.Body.Close()

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(&models.SourceError{
			HTTPStatus: resp.StatusCode,
			Body:       string(readedResp),
		}, "GetChannel "+username)
	}

	var channelInfo models.KickChannelResponse
	err = jsoniter.Unmarshal(readedResp, &channelInfo)
	if err != nil {
		return
	}

	data = &channelInfo

	return
}

// FetchLiveChannels looks up every added username. Failures stay
// per-channel: one broken lookup is logged and contributes nothing,
// the rest of the batch goes on.
func (kc *KickClient) FetchLiveChannels(ctx context.Context, added []string) []models.Channel {

	channels := make([]models.Channel, 0, len(added))
	for _, username := range added {
		info, err := kc.GetChannel(ctx, username)
		if err != nil {
			logrus.Errorf("could not fetch kick channel %s: %v", username, err)
			continue
		}

		channel := models.KickChannel{
			Username:        username,
			ProfileImageURL: info.User.ProfilePic,
		}

		if info.Livestream != nil {
			viewers := info.Livestream.ViewerCount
			startedAt := info.Livestream.CreatedAt
			channel.ViewerCount = &viewers
			channel.Title = info.Livestream.SessionTitle
			channel.ThumbnailURL = info.Livestream.Thumbnail.URL
			channel.StartedAt = &startedAt
			if len(info.Livestream.Categories) > 0 {
				channel.Category = info.Livestream.Categories[0].Name
			}
		}

		channels = append(channels, channel)
	}

	return channels
}
