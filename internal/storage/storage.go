package storage

import (
	"context"
	"encoding/json"
	"sync"
)

// Change is delivered to subscribers after every successful Set of a key.
type Change struct {
	Key      string
	NewValue json.RawMessage
}

// Storage is the persistent key-value capability the watcher runs on.
// Get merges registered defaults for absent keys; Set is last-writer-wins,
// no transactions. Subscribers observe every Set made through this process.
type Storage interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]json.RawMessage) error
	Subscribe(fn func(Change)) (unsubscribe func())
}

// Keys of the synced scope (small, cross-device).
const (
	KeyLogins         = "logins"
	KeyPreferences    = "preferences"
	KeyFavorites      = "favorites"
	KeyAddedChannels  = "added_channels"
	KeyHiddenChannels = "hidden_channels"
)

// Keys of the local scope (larger, device-only).
const (
	KeySnapshot             = "channel_snapshot"
	KeyPollNextAt           = "poll_next_at"
	KeyYoutubeSubscriptions = "youtube_subscriptions"
	KeyCanary               = "canary"
)

type hub struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]func(Change)
}

func (h *hub) subscribe(fn func(Change)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers == nil {
		h.subscribers = make(map[int]func(Change))
	}

	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers, id)
	}
}

func (h *hub) notify(change Change) {
	h.mu.Lock()
	subscribers := make([]func(Change), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		subscribers = append(subscribers, fn)
	}
	h.mu.Unlock()

	for _, fn := range subscribers {
		fn(change)
	}
}

func mergeDefaults(values map[string]json.RawMessage, defaults map[string]json.RawMessage, keys []string) map[string]json.RawMessage {
	for _, key := range keys {
		if _, ok := values[key]; ok {
			continue
		}
		if fallback, ok := defaults[key]; ok {
			values[key] = fallback
		}
	}

	return values
}
