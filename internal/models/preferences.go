package models

import "strings"

// Preferences are the user-tunable knobs of the poll/reconcile loop.
type Preferences struct {
	PollDelayMinutes     uint `json:"poll_delay_minutes"`
	MaxStreams           uint `json:"max_streams"`
	AutoOpenTabs         bool `json:"auto_open_tabs"`
	AutoMuteTabs         bool `json:"auto_mute_tabs"`
	OpenTabsInBackground bool `json:"open_tabs_in_background"`
	SortLiveAscending    bool `json:"sort_live_ascending"` // lowest viewer count first
	NotificationsEnabled bool `json:"notifications_enabled"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		PollDelayMinutes:     5,
		MaxStreams:           2,
		OpenTabsInBackground: true,
		NotificationsEnabled: true,
	}
}

// Favorite pins one channel identity. List order is user-controlled and is
// the primary tie-break in ranking, so it must survive persistence as-is.
type Favorite struct {
	Platform Platform `json:"platform"`
	Identity string   `json:"identity"`
}

// FavoriteIndex returns the position of the channel in the favorites list,
// or -1. Twitch and Kick identities compare case-insensitively, YouTube
// favorites match on channel id.
func FavoriteIndex(favorites []Favorite, channel Channel) int {
	for i, favorite := range favorites {
		if favorite.Platform != channel.ChannelPlatform() {
			continue
		}

		switch typed := channel.(type) {
		case TwitchChannel:
			if strings.EqualFold(favorite.Identity, typed.Username) {
				return i
			}
		case YouTubeChannel:
			if favorite.Identity == typed.ID {
				return i
			}
		case KickChannel:
			if strings.EqualFold(favorite.Identity, typed.Username) {
				return i
			}
		}
	}

	return -1
}

// PlatformLists is a per-platform ordered set of channel identities,
// used for both user-added and user-hidden channels.
type PlatformLists struct {
	Twitch  []string `json:"twitch"`
	YouTube []string `json:"youtube"`
	Kick    []string `json:"kick"`
}

func (pl PlatformLists) For(platform Platform) []string {
	switch platform {
	case PlatformTwitch:
		return pl.Twitch
	case PlatformYouTube:
		return pl.YouTube
	case PlatformKick:
		return pl.Kick
	}

	return nil
}

func (pl PlatformLists) Contains(platform Platform, identity string) bool {
	for _, existing := range pl.For(platform) {
		if platform == PlatformYouTube {
			if existing == identity {
				return true
			}
			continue
		}
		if strings.EqualFold(existing, identity) {
			return true
		}
	}

	return false
}

// HiddenChannel reports whether the user hid this channel. YouTube hides
// match on either the channel id or the manual input query, since the
// hidden list stores whatever identity the UI had at hand.
func HiddenChannel(hidden PlatformLists, channel Channel) bool {
	switch typed := channel.(type) {
	case TwitchChannel:
		return hidden.Contains(PlatformTwitch, typed.Username)
	case YouTubeChannel:
		return hidden.Contains(PlatformYouTube, typed.ID) ||
			hidden.Contains(PlatformYouTube, typed.ManualInputQuery)
	case KickChannel:
		return hidden.Contains(PlatformKick, typed.Username)
	}

	return false
}
