package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type Platform string

var (
	PlatformTwitch  Platform = "twitch"
	PlatformYouTube Platform = "youtube"
	PlatformKick    Platform = "kick"
)

// Channel is the per-platform live-status record. Exactly one struct per
// platform implements it; a nil viewer count means the channel is offline,
// any value (including zero) means live.
type Channel interface {
	ChannelPlatform() Platform
	// Key is the stable identity used for diffing, favorite matching
	// and de-duplication. Identities are never comparable across platforms.
	Key() string
	DisplayName() string
	// SortName is the name the offline alphabetical tie-break uses.
	SortName() string
	Viewers() *uint64
	ProfileImage() string
}

func IsLive(c Channel) bool {
	return c.Viewers() != nil
}

type TwitchChannel struct {
	Username        string     `json:"username"`
	Name            string     `json:"name"` // display name
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	ViewerCount     *uint64    `json:"viewer_count,omitempty"`
	Game            string     `json:"game,omitempty"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"` // template, {width}/{height} placeholders
	StartedAt       *time.Time `json:"started_at,omitempty"`
}

func (c TwitchChannel) ChannelPlatform() Platform { return PlatformTwitch }
func (c TwitchChannel) Key() string               { return strings.ToLower(c.Username) }
func (c TwitchChannel) DisplayName() string       { return c.Name }
func (c TwitchChannel) SortName() string          { return c.Username }
func (c TwitchChannel) Viewers() *uint64          { return c.ViewerCount }
func (c TwitchChannel) ProfileImage() string      { return c.ProfileImageURL }

type YouTubeChannel struct {
	ID               string     `json:"id"`
	ManualInputQuery string     `json:"manual_input_query"` // what the user typed to add the channel, may differ from ID
	Name             string     `json:"name"`
	ProfileImageURL  string     `json:"profile_image_url,omitempty"`
	ViewerCount      *uint64    `json:"viewer_count,omitempty"`
	VideoID          string     `json:"video_id,omitempty"` // set only for a live entry
	Title            string     `json:"title,omitempty"`
	ThumbnailURL     string     `json:"thumbnail_url,omitempty"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
}

func (c YouTubeChannel) ChannelPlatform() Platform { return PlatformYouTube }

// Key includes the video id: one channel may run multiple concurrent
// streams/premieres and each live entry must stay distinct.
func (c YouTubeChannel) Key() string {
	return fmt.Sprintf("%s|%s|%s", c.ID, c.ManualInputQuery, c.VideoID)
}
func (c YouTubeChannel) DisplayName() string  { return c.Name }
func (c YouTubeChannel) SortName() string     { return c.Name }
func (c YouTubeChannel) Viewers() *uint64     { return c.ViewerCount }
func (c YouTubeChannel) ProfileImage() string { return c.ProfileImageURL }

type KickChannel struct {
	Username        string     `json:"username"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	ViewerCount     *uint64    `json:"viewer_count,omitempty"`
	Category        string     `json:"category,omitempty"`
	Title           string     `json:"title,omitempty"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
}

func (c KickChannel) ChannelPlatform() Platform { return PlatformKick }
func (c KickChannel) Key() string               { return strings.ToLower(c.Username) }
func (c KickChannel) DisplayName() string       { return c.Username }
func (c KickChannel) SortName() string          { return c.Username }
func (c KickChannel) Viewers() *uint64          { return c.ViewerCount }
func (c KickChannel) ProfileImage() string      { return c.ProfileImageURL }

type channelEnvelope struct {
	Platform Platform        `json:"platform"`
	Data     json.RawMessage `json:"data"`
}

func MarshalChannels(channels []Channel) ([]byte, error) {
	envelopes := make([]channelEnvelope, 0, len(channels))
	for _, channel := range channels {
		data, err := jsoniter.Marshal(channel)
		if err != nil {
			return nil, errors.Wrap(err, "Marshal")
		}
		envelopes = append(envelopes, channelEnvelope{
			Platform: channel.ChannelPlatform(),
			Data:     data,
		})
	}

	return jsoniter.Marshal(envelopes)
}

func UnmarshalChannels(raw []byte) (channels []Channel, err error) {
	var envelopes []channelEnvelope
	err = jsoniter.Unmarshal(raw, &envelopes)
	if err != nil {
		return nil, errors.Wrap(err, "Unmarshal")
	}

	for _, envelope := range envelopes {
		switch envelope.Platform {
		case PlatformTwitch:
			var channel TwitchChannel
			if err = jsoniter.Unmarshal(envelope.Data, &channel); err != nil {
				return nil, errors.Wrap(err, "Unmarshal twitch")
			}
			channels = append(channels, channel)
		case PlatformYouTube:
			var channel YouTubeChannel
			if err = jsoniter.Unmarshal(envelope.Data, &channel); err != nil {
				return nil, errors.Wrap(err, "Unmarshal youtube")
			}
			channels = append(channels, channel)
		case PlatformKick:
			var channel KickChannel
			if err = jsoniter.Unmarshal(envelope.Data, &channel); err != nil {
				return nil, errors.Wrap(err, "Unmarshal kick")
			}
			channels = append(channels, channel)
		default:
			return nil, errors.Errorf("unknown channel platform: %s", envelope.Platform)
		}
	}

	return channels, nil
}
