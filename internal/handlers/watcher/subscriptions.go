package watcher_handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/middleware"
)

// GetYoutubeSubscriptions feeds the add-channel picker. ?refresh=true
// bypasses the local cache.
func (wh *WatcherHandler) GetYoutubeSubscriptions(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	forceRefresh := r.URL.Query().Get("refresh") == "true"

	subscriptions, err := wh.authFlowService.YoutubeSubscriptions(ctx, forceRefresh)
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, subscriptions)
}
