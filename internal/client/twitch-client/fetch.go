package twitch_client

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// FetchLiveChannels builds the full Twitch contribution of one poll cycle:
// every followed channel plus every manually added one, each carrying live
// stream fields when a matching stream exists. A channel without a matching
// stream is offline (nil viewer count), never falsely marked.
func (twc *TwitchClient) FetchLiveChannels(ctx context.Context, token, userID string, added []string) ([]models.Channel, error) {

	var (
		wg           sync.WaitGroup
		followed     []models.FollowedChannel
		streams      []models.Stream
		addedStreams []models.Stream

		followedErr, streamsErr, addedErr error
	)

	// The three collections are independent, each paginates on its own.
	wg.Add(2)
	go func() {
		defer wg.Done()
		followed, followedErr = twc.GetFollowedChannels(ctx, token, userID)
	}()
	go func() {
		defer wg.Done()
		streams, streamsErr = twc.GetFollowedStreams(ctx, token, userID)
	}()
	if len(added) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addedStreams, addedErr = twc.GetStreamsByIDs(ctx, token, added)
		}()
	}
	wg.Wait()

	if followedErr != nil {
		return nil, errors.Wrap(followedErr, "GetFollowedChannels")
	}
	if streamsErr != nil {
		return nil, errors.Wrap(streamsErr, "GetFollowedStreams")
	}
	if addedErr != nil {
		return nil, errors.Wrap(addedErr, "GetStreamsByIDs")
	}

	followedLogins := make(map[string]bool, len(followed))
	logins := make([]string, 0, len(followed)+len(added))
	for _, channel := range followed {
		followedLogins[strings.ToLower(channel.BroadcasterLogin)] = true
		logins = append(logins, channel.BroadcasterLogin)
	}
	for _, login := range added {
		if followedLogins[strings.ToLower(login)] {
			continue
		}
		logins = append(logins, login)
	}

	users, err := twc.GetUserInfo(ctx, token, logins)
	if err != nil {
		return nil, errors.Wrap(err, "GetUserInfo")
	}

	streamsByUserID := make(map[string]models.Stream, len(streams)+len(addedStreams))
	for _, stream := range streams {
		streamsByUserID[stream.UserId] = stream
	}
	for _, stream := range addedStreams {
		streamsByUserID[stream.UserId] = stream
	}

	channels := make([]models.Channel, 0, len(users))
	for _, user := range users {
		channel := models.TwitchChannel{
			Username:        user.Login,
			Name:            user.DisplayName,
			ProfileImageURL: user.ProfileImageUrl,
		}

		if stream, ok := streamsByUserID[user.UserID]; ok {
			viewers := stream.ViewerCount
			startedAt := stream.StartedAt
			channel.ViewerCount = &viewers
			channel.Game = stream.GameName
			channel.ThumbnailURL = stream.ThumbnailUrl
			channel.StartedAt = &startedAt
		}

		channels = append(channels, channel)
	}

	return channels, nil
}
