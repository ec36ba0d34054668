package models

// Shapes of the YouTube Data API v3 responses the watcher consumes.

type YoutubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type YoutubeThumbnails struct {
	Default YoutubeThumbnail `json:"default"`
	Medium  YoutubeThumbnail `json:"medium"`
	High    YoutubeThumbnail `json:"high"`
}

type YoutubeChannelListResponse struct {
	Items []YoutubeChannelItem `json:"items"`
}

type YoutubeChannelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title      string            `json:"title"`
		Thumbnails YoutubeThumbnails `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type YoutubePlaylistItemsResponse struct {
	Items []YoutubePlaylistItem `json:"items"`
}

type YoutubePlaylistItem struct {
	Snippet struct {
		Title      string            `json:"title"`
		Thumbnails YoutubeThumbnails `json:"thumbnails"`
		ResourceID struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type YoutubeVideoListResponse struct {
	Items []YoutubeVideoItem `json:"items"`
}

type YoutubeVideoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title                string            `json:"title"`
		ChannelID            string            `json:"channelId"`
		ChannelTitle         string            `json:"channelTitle"`
		Thumbnails           YoutubeThumbnails `json:"thumbnails"`
		LiveBroadcastContent string            `json:"liveBroadcastContent"` // "live", "upcoming" or "none"
	} `json:"snippet"`
	LiveStreamingDetails struct {
		ActualStartTime   string `json:"actualStartTime"`
		ConcurrentViewers string `json:"concurrentViewers"` // the API returns this as a string
	} `json:"liveStreamingDetails"`
}

type YoutubeSubscriptionListResponse struct {
	NextPageToken string                    `json:"nextPageToken"`
	Items         []YoutubeSubscriptionItem `json:"items"`
}

type YoutubeSubscriptionItem struct {
	Snippet struct {
		Title      string            `json:"title"`
		Thumbnails YoutubeThumbnails `json:"thumbnails"`
		ResourceID struct {
			ChannelID string `json:"channelId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}
