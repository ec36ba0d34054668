package models

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// ChannelSnapshot is the merged, ranked channel list of one completed poll
// cycle. It is replaced wholesale on every cycle, never patched.
type ChannelSnapshot struct {
	Channels  []Channel
	FetchedAt int64 // epoch seconds
}

func (s ChannelSnapshot) LiveCount() (n int) {
	for _, channel := range s.Channels {
		if IsLive(channel) {
			n++
		}
	}

	return
}

type snapshotEnvelope struct {
	Channels  json.RawMessage `json:"channels"`
	FetchedAt int64           `json:"fetched_at"`
}

func (s ChannelSnapshot) MarshalJSON() ([]byte, error) {
	channels, err := MarshalChannels(s.Channels)
	if err != nil {
		return nil, err
	}

	return jsoniter.Marshal(snapshotEnvelope{
		Channels:  channels,
		FetchedAt: s.FetchedAt,
	})
}

func (s *ChannelSnapshot) UnmarshalJSON(raw []byte) error {
	var envelope snapshotEnvelope
	if err := jsoniter.Unmarshal(raw, &envelope); err != nil {
		return err
	}

	channels, err := UnmarshalChannels(envelope.Channels)
	if err != nil {
		return err
	}

	s.Channels = channels
	s.FetchedAt = envelope.FetchedAt

	return nil
}
