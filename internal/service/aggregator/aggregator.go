package aggregator

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	youtubeClient "stream_tab_watcher/internal/client/youtube-client"
	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/credential"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/ranker"
	"stream_tab_watcher/internal/service/snapshot"
)

type TwitchSource interface {
	FetchLiveChannels(ctx context.Context, token, userID string, added []string) ([]models.Channel, error)
}

type TwitchValidator interface {
	TwitchOAuthValidateToken(ctx context.Context, token string) (*models.TwitchOautValidateTokenResponse, error)
}

type YoutubeSource interface {
	FetchLiveChannels(ctx context.Context, auth youtubeClient.Auth, added []string) ([]models.Channel, error)
}

type KickSource interface {
	FetchLiveChannels(ctx context.Context, added []string) []models.Channel
}

type TokenRefresher interface {
	EnsureFresh(ctx context.Context, login models.Login) (models.Login, error)
}

type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

type TabReconciler interface {
	Reconcile(ctx context.Context) error
}

// AggregatorService runs one poll cycle: fan out to the configured sources,
// merge, rank, commit the snapshot, then let the tab reconciler act on the
// committed list. Source failures are isolated; a cycle never aborts because
// one platform misbehaved.
type AggregatorService struct {
	credentialService *credential.CredentialService
	preferenceService *preferences.PreferenceService
	snapshotService   *snapshot.SnapshotService

	twitchClient        TwitchSource
	twitchOauthClient   TwitchValidator
	youtubeClient       YoutubeSource
	youtubeTokenService TokenRefresher
	kickClient          KickSource

	notifier      Notifier
	tabReconciler TabReconciler
}

func NewAggregatorService(
	credentialService *credential.CredentialService,
	preferenceService *preferences.PreferenceService,
	snapshotService *snapshot.SnapshotService,
	twitchClient TwitchSource,
	twitchOauthClient TwitchValidator,
	youtubeClient YoutubeSource,
	youtubeTokenService TokenRefresher,
	kickClient KickSource,
	notifier Notifier,
	tabReconciler TabReconciler,
) *AggregatorService {
	return &AggregatorService{
		credentialService:   credentialService,
		preferenceService:   preferenceService,
		snapshotService:     snapshotService,
		twitchClient:        twitchClient,
		twitchOauthClient:   twitchOauthClient,
		youtubeClient:       youtubeClient,
		youtubeTokenService: youtubeTokenService,
		kickClient:          kickClient,
		notifier:            notifier,
		tabReconciler:       tabReconciler,
	}
}

// FetchData gathers the merged channel list of one cycle, Twitch first,
// then Kick, then YouTube. The three stages run concurrently and are
// joined all-settled: an error in one never cancels the siblings.
func (as *AggregatorService) FetchData(ctx context.Context) ([]models.Channel, error) {
	logins, err := as.credentialService.Logins(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Logins")
	}

	added, err := as.preferenceService.AddedChannels(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "AddedChannels")
	}

	var (
		wg      sync.WaitGroup
		twitch  []models.Channel
		youtube []models.Channel
		kick    []models.Channel
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		twitch = as.fetchTwitch(ctx, logins, added.Twitch)
	}()
	go func() {
		defer wg.Done()
		kick = as.fetchKick(ctx, logins, added.Kick)
	}()
	go func() {
		defer wg.Done()
		youtube = as.fetchYoutube(ctx, logins, added.YouTube)
	}()
	wg.Wait()

	merged := make([]models.Channel, 0, len(twitch)+len(kick)+len(youtube))
	merged = append(merged, twitch...)
	merged = append(merged, kick...)
	merged = append(merged, youtube...)

	return merged, nil
}

// RunCycle is one complete poll cycle ending in an atomic snapshot commit.
func (as *AggregatorService) RunCycle(ctx context.Context) error {
	channels, err := as.FetchData(ctx)
	if err != nil {
		return errors.Wrap(err, "FetchData")
	}

	hidden, err := as.preferenceService.HiddenChannels(ctx)
	if err != nil {
		return errors.Wrap(err, "HiddenChannels")
	}

	visible := make([]models.Channel, 0, len(channels))
	for _, channel := range channels {
		if models.HiddenChannel(hidden, channel) {
			continue
		}
		visible = append(visible, channel)
	}

	prefs, err := as.preferenceService.Preferences(ctx)
	if err != nil {
		return errors.Wrap(err, "Preferences")
	}

	favorites, err := as.preferenceService.Favorites(ctx)
	if err != nil {
		return errors.Wrap(err, "Favorites")
	}

	ranker.SortChannels(visible, favorites, prefs.SortLiveAscending)

	if err := as.snapshotService.Commit(ctx, visible); err != nil {
		return errors.Wrap(err, "Commit")
	}

	// Tab actions must observe the committed ranked set, the same one the
	// badge and notification logic read; never the pre-commit list.
	if prefs.AutoOpenTabs && as.tabReconciler != nil {
		if err := as.tabReconciler.Reconcile(ctx); err != nil {
			logrus.Errorf("tab reconciliation failed: %v", err)
		}
	}

	return nil
}
