package main

import (
	"context"
	"net/http"
	"os"
	"time"

	browserClient "stream_tab_watcher/internal/client/browser-client"
	kickClient "stream_tab_watcher/internal/client/kick-client"
	telegramClient "stream_tab_watcher/internal/client/telegram-client"
	twitchClient "stream_tab_watcher/internal/client/twitch-client"
	twitchOauthClient "stream_tab_watcher/internal/client/twitch-oauth-client"
	youtubeClient "stream_tab_watcher/internal/client/youtube-client"
	youtubeOauthClient "stream_tab_watcher/internal/client/youtube-oauth-client"
	"stream_tab_watcher/internal/middleware"

	watcherHandler "stream_tab_watcher/internal/handlers/watcher"

	aggregatorService "stream_tab_watcher/internal/service/aggregator"
	authflowService "stream_tab_watcher/internal/service/authflow"
	credentialService "stream_tab_watcher/internal/service/credential"
	preferenceService "stream_tab_watcher/internal/service/preferences"
	presenterService "stream_tab_watcher/internal/service/presenter"
	schedulerService "stream_tab_watcher/internal/service/scheduler"
	snapshotService "stream_tab_watcher/internal/service/snapshot"
	tabService "stream_tab_watcher/internal/service/tabs"
	youtubeTokenService "stream_tab_watcher/internal/service/youtube_token"

	dbRepository "stream_tab_watcher/db/repository"
	"stream_tab_watcher/internal/storage"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

const defaultListenAddr = "localhost:8790"

// bridgeNotifier raises native browser notifications through the bridge.
type bridgeNotifier struct {
	client *browserClient.BrowserClient
}

func (n bridgeNotifier) Notify(ctx context.Context, title, message string) error {
	return n.client.ShowNotification(ctx, title, message)
}

func main() {
	ctx := context.Background()

	// Load .env if present, don't fail if missing
	_ = godotenv.Load()

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	db, err := sqlx.Connect("postgres", os.Getenv("DB_CONN"))
	if err != nil {
		logrus.Fatalf("cannot connect to db: %v", err)
	}

	err = db.Ping()
	if err != nil {
		logrus.Fatalf("cannot ping db: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err = redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("cannot ping redis: %v", err)
	}

	dbRepo := dbRepository.NewDBRepository(db)
	synced := storage.NewSynced(dbRepo, nil)
	local := storage.NewLocal(redisClient, nil)

	redirectBase := "http://" + listenAddr

	var (
		twitchOauth = twitchOauthClient.NewTwitchOauthClient(redirectBase + "/oauth/twitch/callback")
		youtubeOath = youtubeOauthClient.NewYoutubeOauthClient(redirectBase + "/oauth/youtube/callback")
		twitchCli   = twitchClient.NewTwitchClient()
		youtubeCli  = youtubeClient.NewYoutubeClient(nil)
		kickCli     = kickClient.NewKickClient()
		browserCli  = browserClient.NewBrowserClient()
	)

	var notifier aggregatorService.Notifier = bridgeNotifier{client: browserCli}
	if os.Getenv("TELEGRAM_API_TOKEN") != "" {
		telegramCli, err := telegramClient.NewTelegramClient()
		if err != nil {
			logrus.Fatalf("cannot init telegram client: %v", err)
		}
		notifier = telegramCli
	}

	creds := credentialService.NewCredentialService(synced)
	prefs := preferenceService.NewPreferenceService(synced)

	snapshots := snapshotService.NewSnapshotService(local)
	snapshots.Restore(ctx)

	youtubeTokens := youtubeTokenService.NewYoutubeTokenService(creds, youtubeOath)

	tabs := tabService.NewTabService(prefs, snapshots, browserCli)

	aggregator := aggregatorService.NewAggregatorService(
		creds, prefs, snapshots,
		twitchCli, twitchOauth, youtubeCli, youtubeTokens, kickCli,
		notifier, tabs,
	)

	presenter := presenterService.NewPresenterService(prefs, snapshots, browserCli, notifier)
	stopPresenter := presenter.Start(ctx)
	defer stopPresenter()

	scheduler := schedulerService.NewSchedulerService(creds, prefs, snapshots, synced, local, aggregator)
	stopScheduler := scheduler.Start(ctx)
	defer stopScheduler()

	// A wedged change feed leaves every subscriber blind; restart the
	// whole process and let the supervisor bring it back clean.
	watchdog := schedulerService.NewWatchdogService(local, func() {
		logrus.Fatal("storage change feed stopped delivering, exiting")
	})
	go watchdog.Run(ctx)

	authFlow := authflowService.NewAuthFlowService(creds, twitchOauth, youtubeOath, youtubeCli, youtubeTokens, local)

	handler := watcherHandler.NewWatcherHandler(authFlow, creds, prefs, snapshots, scheduler, synced)

	router := mux.NewRouter()
	handler.Register(router)

	logrus.Info("server start...")

	srv := &http.Server{
		Handler:      middleware.ConfigureCORS(router),
		Addr:         listenAddr,
		// a manual refresh runs a full poll cycle inline, which can take
		// a couple of source timeouts back to back
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  5 * time.Second,
	}

	logrus.Fatal(srv.ListenAndServe())
}
