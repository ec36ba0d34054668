package youtube_client

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/models"
)

// defaultLiveMarker is the thumbnail-substring heuristic that marks a
// playlist entry as a live candidate. Admittedly approximate, kept on
// purpose: the alternative is a per-video lookup that burns API quota.
const defaultLiveMarker = "default_live"

type resolvedChannel struct {
	item  models.YoutubeChannelItem
	query string // the manual input the user added the channel by
}

// FetchLiveChannels builds the YouTube contribution of one poll cycle. Each
// added identity yields one offline record, or one live record per active
// broadcast (distinct identity per video id).
func (ytc *YoutubeClient) FetchLiveChannels(ctx context.Context, auth Auth, added []string) ([]models.Channel, error) {

	resolved := make([]resolvedChannel, 0, len(added))
	candidateIDs := []string{}
	candidatesByChannel := make(map[string][]string)

	for _, manualInput := range added {
		item, found, err := ytc.GetChannelInfo(ctx, auth, manualInput)
		if err != nil {
			return nil, errors.Wrap(err, "GetChannelInfo")
		}
		if !found {
			logrus.Infof("youtube channel not resolvable, skipping: %s", manualInput)
			continue
		}

		resolved = append(resolved, resolvedChannel{item: item, query: manualInput})

		uploads, err := ytc.GetUploadsItems(ctx, auth, item.ContentDetails.RelatedPlaylists.Uploads)
		if err != nil {
			return nil, errors.Wrap(err, "GetUploadsItems")
		}

		for _, upload := range uploads {
			if !strings.Contains(upload.Snippet.Thumbnails.Default.URL, defaultLiveMarker) &&
				!strings.Contains(upload.Snippet.Thumbnails.Medium.URL, defaultLiveMarker) {
				continue
			}
			videoID := upload.Snippet.ResourceID.VideoID
			candidateIDs = append(candidateIDs, videoID)
			candidatesByChannel[item.ID] = append(candidatesByChannel[item.ID], videoID)
		}
	}

	videos, err := ytc.GetLiveDetails(ctx, auth, candidateIDs)
	if err != nil {
		return nil, errors.Wrap(err, "GetLiveDetails")
	}

	liveByVideoID := make(map[string]models.YoutubeVideoItem, len(videos))
	for _, video := range videos {
		if video.Snippet.LiveBroadcastContent == "live" {
			liveByVideoID[video.ID] = video
		}
	}

	channels := make([]models.Channel, 0, len(resolved))
	for _, entry := range resolved {
		base := models.YouTubeChannel{
			ID:               entry.item.ID,
			ManualInputQuery: entry.query,
			Name:             entry.item.Snippet.Title,
			ProfileImageURL:  entry.item.Snippet.Thumbnails.Default.URL,
		}

		emitted := false
		for _, videoID := range candidatesByChannel[entry.item.ID] {
			video, live := liveByVideoID[videoID]
			if !live {
				continue
			}

			channel := base
			channel.VideoID = video.ID
			channel.Title = video.Snippet.Title
			channel.ThumbnailURL = video.Snippet.Thumbnails.Medium.URL

			viewers := parseConcurrentViewers(video.LiveStreamingDetails.ConcurrentViewers)
			channel.ViewerCount = &viewers

			if startedAt, err := time.Parse(time.RFC3339, video.LiveStreamingDetails.ActualStartTime); err == nil {
				channel.StartedAt = &startedAt
			}

			channels = append(channels, channel)
			emitted = true
		}

		if !emitted {
			channels = append(channels, base)
		}
	}

	return channels, nil
}

// parseConcurrentViewers tolerates the viewer figure being hidden: a live
// broadcast without it still counts as live with zero viewers.
func parseConcurrentViewers(raw string) uint64 {
	if raw == "" {
		return 0
	}

	viewers, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}

	return viewers
}
