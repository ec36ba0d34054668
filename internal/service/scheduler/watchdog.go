package scheduler

import (
	"context"
	"encoding/json"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/storage"
)

const (
	canaryInterval = time.Second * 10
	canaryWindow   = time.Second
)

// WatchdogService writes a canary value into local storage on a fixed
// cadence and verifies the write is observed through the change feed. A
// miss means the storage path is wedged and fires the reload hook; the
// production hook terminates the process rather than letting the poll
// loop silently stall.
type WatchdogService struct {
	local  storage.Storage
	reload func()

	interval time.Duration
	window   time.Duration
}

func NewWatchdogService(local storage.Storage, reload func()) *WatchdogService {
	return &WatchdogService{
		local:    local,
		reload:   reload,
		interval: canaryInterval,
		window:   canaryWindow,
	}
}

func (ws *WatchdogService) Run(ctx context.Context) {
	observed := make(chan struct{}, 1)
	unsubscribe := ws.local.Subscribe(func(change storage.Change) {
		if change.Key != storage.KeyCanary {
			return
		}
		select {
		case observed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(ws.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ws.beat(ctx, now, observed)
		}
	}
}

func (ws *WatchdogService) beat(ctx context.Context, now time.Time, observed chan struct{}) {
	raw, err := jsoniter.Marshal(now.Unix())
	if err != nil {
		logrus.Errorf("could not marshal canary: %v", err)
		return
	}

	err = ws.local.Set(ctx, map[string]json.RawMessage{
		storage.KeyCanary: raw,
	})
	if err != nil {
		logrus.Warnf("canary write failed, reloading: %v", err)
		ws.fireReload()
		return
	}

	select {
	case <-observed:
	case <-time.After(ws.window):
		logrus.Warn("canary write was not observed in time, reloading")
		ws.fireReload()
	}
}

func (ws *WatchdogService) fireReload() {
	if ws.reload != nil {
		ws.reload()
	}
}
