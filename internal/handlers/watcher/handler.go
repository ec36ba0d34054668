package watcher_handler

import (
	"context"

	"github.com/gorilla/mux"

	"stream_tab_watcher/internal/service/authflow"
	"stream_tab_watcher/internal/service/credential"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/snapshot"
	"stream_tab_watcher/internal/storage"
)

type Refresher interface {
	Refresh(ctx context.Context)
}

// WatcherHandler is the local HTTP surface the popup/options UI talks to.
type WatcherHandler struct {
	authFlowService   *authflow.AuthFlowService
	credentialService *credential.CredentialService
	preferenceService *preferences.PreferenceService
	snapshotService   *snapshot.SnapshotService
	refresher         Refresher
	synced            storage.Storage
}

func NewWatcherHandler(
	authFlowService *authflow.AuthFlowService,
	credentialService *credential.CredentialService,
	preferenceService *preferences.PreferenceService,
	snapshotService *snapshot.SnapshotService,
	refresher Refresher,
	synced storage.Storage,
) *WatcherHandler {
	return &WatcherHandler{
		authFlowService:   authFlowService,
		credentialService: credentialService,
		preferenceService: preferenceService,
		snapshotService:   snapshotService,
		refresher:         refresher,
		synced:            synced,
	}
}

func (wh *WatcherHandler) Register(router *mux.Router) {
	router.HandleFunc("/channels", wh.GetChannels).Methods("GET")
	router.HandleFunc("/channels/refresh", wh.RefreshChannels).Methods("POST")

	router.HandleFunc("/logins", wh.GetLogins).Methods("GET")
	router.HandleFunc("/login/twitch", wh.StartTwitchLogin).Methods("POST")
	router.HandleFunc("/login/youtube", wh.StartYoutubeLogin).Methods("POST")
	router.HandleFunc("/login/youtube/key", wh.SetYoutubeKey).Methods("POST")
	router.HandleFunc("/login/youtube/credentials", wh.SetYoutubeCredentials).Methods("POST")
	router.HandleFunc("/login/kick", wh.EnableKick).Methods("POST")
	router.HandleFunc("/logout", wh.Logout).Methods("POST")

	router.HandleFunc("/oauth/twitch/callback", wh.TwitchCallback).Methods("GET")
	router.HandleFunc("/oauth/youtube/callback", wh.YoutubeCallback).Methods("GET")

	router.HandleFunc("/youtube/subscriptions", wh.GetYoutubeSubscriptions).Methods("GET")

	router.HandleFunc("/preferences", wh.GetPreferences).Methods("GET")
	router.HandleFunc("/preferences", wh.SetPreferences).Methods("POST")
	router.HandleFunc("/favorites", wh.GetFavorites).Methods("GET")
	router.HandleFunc("/favorites", wh.SetFavorites).Methods("POST")
	router.HandleFunc("/channels/added", wh.GetAddedChannels).Methods("GET")
	router.HandleFunc("/channels/added", wh.SetAddedChannels).Methods("POST")
	router.HandleFunc("/channels/hidden", wh.GetHiddenChannels).Methods("GET")
	router.HandleFunc("/channels/hidden", wh.SetHiddenChannels).Methods("POST")

	router.HandleFunc("/export", wh.ExportSettings).Methods("GET")
	router.HandleFunc("/import", wh.ImportSettings).Methods("POST")
}
