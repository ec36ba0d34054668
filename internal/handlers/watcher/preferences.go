package watcher_handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/middleware"
	"stream_tab_watcher/internal/models"
)

func (wh *WatcherHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {

	prefs, err := wh.preferenceService.Preferences(r.Context())
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, prefs)
}

func (wh *WatcherHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	prefs := models.DefaultPreferences()
	if err := jsoniter.NewDecoder(r.Body).Decode(&prefs); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := wh.preferenceService.SetPreferences(ctx, prefs); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, prefs)
}

func (wh *WatcherHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {

	favorites, err := wh.preferenceService.Favorites(r.Context())
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, favorites)
}

// SetFavorites replaces the whole list; order is the ranking tie-break, so
// the UI always sends the complete ordered list.
func (wh *WatcherHandler) SetFavorites(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	var favorites []models.Favorite
	if err := jsoniter.NewDecoder(r.Body).Decode(&favorites); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := wh.preferenceService.SetFavorites(ctx, favorites); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, favorites)
}

func (wh *WatcherHandler) GetAddedChannels(w http.ResponseWriter, r *http.Request) {

	added, err := wh.preferenceService.AddedChannels(r.Context())
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, added)
}

func (wh *WatcherHandler) SetAddedChannels(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	var added models.PlatformLists
	if err := jsoniter.NewDecoder(r.Body).Decode(&added); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := wh.preferenceService.SetAddedChannels(ctx, added); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, added)
}

func (wh *WatcherHandler) GetHiddenChannels(w http.ResponseWriter, r *http.Request) {

	hidden, err := wh.preferenceService.HiddenChannels(r.Context())
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, hidden)
}

func (wh *WatcherHandler) SetHiddenChannels(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	var hidden models.PlatformLists
	if err := jsoniter.NewDecoder(r.Body).Decode(&hidden); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := wh.preferenceService.SetHiddenChannels(ctx, hidden); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, hidden)
}
