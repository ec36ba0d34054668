package snapshot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/storage"
)

// SnapshotService holds the result of the latest completed poll cycle.
// The snapshot is replaced atomically, persisted to the local scope, and
// announced to subscribers (badge presenter, UI push). Readers never see a
// partial merge across sources.
type SnapshotService struct {
	local storage.Storage

	mu      sync.RWMutex
	current models.ChannelSnapshot

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(models.ChannelSnapshot)
}

func NewSnapshotService(local storage.Storage) *SnapshotService {
	return &SnapshotService{
		local:       local,
		subscribers: make(map[int]func(models.ChannelSnapshot)),
	}
}

// Restore loads the persisted snapshot so the UI has data before the first
// cycle of a fresh process completes. A corrupt cached value is dropped.
func (ss *SnapshotService) Restore(ctx context.Context) {
	values, err := ss.local.Get(ctx, storage.KeySnapshot)
	if err != nil {
		logrus.Errorf("could not restore channel snapshot: %v", err)
		return
	}

	raw, ok := values[storage.KeySnapshot]
	if !ok {
		return
	}

	var cached models.ChannelSnapshot
	if err := jsoniter.Unmarshal(raw, &cached); err != nil {
		logrus.Errorf("dropping corrupt cached snapshot: %v", err)
		return
	}

	ss.mu.Lock()
	ss.current = cached
	ss.mu.Unlock()
}

func (ss *SnapshotService) Current() models.ChannelSnapshot {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	return ss.current
}

// Commit replaces the snapshot wholesale and fans the new value out.
func (ss *SnapshotService) Commit(ctx context.Context, channels []models.Channel) error {
	next := models.ChannelSnapshot{
		Channels:  channels,
		FetchedAt: time.Now().Unix(),
	}

	ss.mu.Lock()
	ss.current = next
	ss.mu.Unlock()

	raw, err := jsoniter.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "Marshal")
	}

	err = ss.local.Set(ctx, map[string]json.RawMessage{
		storage.KeySnapshot: raw,
	})
	if err != nil {
		return errors.Wrap(err, "Set")
	}

	ss.announce(next)

	return nil
}

// Clear empties the snapshot; the scheduler calls this on the Idle
// transition when no usable login remains.
func (ss *SnapshotService) Clear(ctx context.Context) error {
	return ss.Commit(ctx, nil)
}

func (ss *SnapshotService) Subscribe(fn func(models.ChannelSnapshot)) (unsubscribe func()) {
	ss.subMu.Lock()
	defer ss.subMu.Unlock()

	id := ss.nextSubID
	ss.nextSubID++
	ss.subscribers[id] = fn

	return func() {
		ss.subMu.Lock()
		defer ss.subMu.Unlock()
		delete(ss.subscribers, id)
	}
}

func (ss *SnapshotService) announce(snapshot models.ChannelSnapshot) {
	ss.subMu.Lock()
	subscribers := make([]func(models.ChannelSnapshot), 0, len(ss.subscribers))
	for _, fn := range ss.subscribers {
		subscribers = append(subscribers, fn)
	}
	ss.subMu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}
