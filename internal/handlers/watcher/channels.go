package watcher_handler

import (
	"net/http"

	"stream_tab_watcher/internal/middleware"
)

func (wh *WatcherHandler) GetChannels(w http.ResponseWriter, r *http.Request) {

	snap := wh.snapshotService.Current()

	middleware.WriteSuccessData(w, r, snap)
}

// RefreshChannels forces a poll cycle outside the regular cadence.
func (wh *WatcherHandler) RefreshChannels(w http.ResponseWriter, r *http.Request) {

	wh.refresher.Refresh(r.Context())

	middleware.WriteSuccessData(w, r, wh.snapshotService.Current())
}
