package watcher_handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/middleware"
	"stream_tab_watcher/internal/models"
)

type loginStatus struct {
	Type models.AccountType `json:"type"`
}

// GetLogins lists the configured account types. Token material never
// crosses the HTTP surface.
func (wh *WatcherHandler) GetLogins(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	logins, err := wh.credentialService.Logins(ctx)
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	statuses := make([]loginStatus, 0, len(logins))
	for _, login := range logins {
		statuses = append(statuses, loginStatus{Type: login.Type})
	}

	middleware.WriteSuccessData(w, r, statuses)
}

type authorizeURLResponse struct {
	AuthorizeURL string `json:"authorize_url"`
}

func (wh *WatcherHandler) StartTwitchLogin(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	authorizeURL, err := wh.authFlowService.BeginTwitchLogin(ctx)
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, authorizeURLResponse{AuthorizeURL: authorizeURL})
}

func (wh *WatcherHandler) StartYoutubeLogin(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	authorizeURL, err := wh.authFlowService.BeginYoutubeLogin(ctx)
	if err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, authorizeURLResponse{AuthorizeURL: authorizeURL})
}

func (wh *WatcherHandler) TwitchCallback(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	query := r.URL.Query()

	err := wh.authFlowService.CompleteTwitchLogin(ctx, query.Get("state"), query.Get("code"))
	if err != nil {
		logrus.Errorf("twitch login failed: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, "twitch login completed, you can close this window")
}

func (wh *WatcherHandler) YoutubeCallback(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	query := r.URL.Query()

	err := wh.authFlowService.CompleteYoutubeLogin(ctx, query.Get("state"), query.Get("code"))
	if err != nil {
		logrus.Errorf("youtube login failed: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, "youtube login completed, you can close this window")
}

func (wh *WatcherHandler) SetYoutubeKey(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	reqDTO := struct {
		APIKey string `json:"api_key"`
	}{}
	if err := jsoniter.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := wh.authFlowService.SetYoutubeAPIKey(ctx, reqDTO.APIKey); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, "ok")
}

func (wh *WatcherHandler) SetYoutubeCredentials(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	reqDTO := struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}{}
	if err := jsoniter.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := wh.authFlowService.SetYoutubeOauthCredentials(ctx, reqDTO.ClientID, reqDTO.ClientSecret); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, "ok")
}

func (wh *WatcherHandler) EnableKick(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	if err := wh.authFlowService.EnableKick(ctx); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, "ok")
}

func (wh *WatcherHandler) Logout(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	reqDTO := struct {
		Type models.AccountType `json:"type"`
	}{}
	if err := jsoniter.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logrus.Errorf("failed decode request, error: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := wh.credentialService.Logout(ctx, reqDTO.Type); err != nil {
		logrus.Error(err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, "ok")
}
