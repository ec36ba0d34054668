package models

import "time"

// KickChannelResponse is the public (unauthenticated) Kick channel endpoint
// payload. Livestream is null when the channel is offline.
type KickChannelResponse struct {
	User struct {
		Username   string `json:"username"`
		ProfilePic string `json:"profile_pic"`
	} `json:"user"`
	Livestream *KickLivestream `json:"livestream"`
}

type KickLivestream struct {
	SessionTitle string    `json:"session_title"`
	ViewerCount  uint64    `json:"viewer_count"`
	CreatedAt    time.Time `json:"created_at"`
	Thumbnail    struct {
		URL string `json:"url"`
	} `json:"thumbnail"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
}
