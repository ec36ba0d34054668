package watcher_handler

import (
	"io/ioutil"
	"net/http"

	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/middleware"
	"stream_tab_watcher/internal/storage"
)

func (wh *WatcherHandler) ExportSettings(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	raw, err := storage.Export(ctx, wh.synced)
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="stream_tab_watcher_settings.json"`)
	_, _ = w.Write(raw)
}

func (wh *WatcherHandler) ImportSettings(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	raw, err := ioutil.ReadAll(r.Body)
	if err != nil {
		logrus.Errorf("failed read request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := storage.Import(ctx, wh.synced, raw); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, "ok")
}
