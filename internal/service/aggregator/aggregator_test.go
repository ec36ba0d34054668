package aggregator

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	youtubeClient "stream_tab_watcher/internal/client/youtube-client"
	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/credential"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/snapshot"
	"stream_tab_watcher/internal/storage"
)

type fakeTwitchSource struct {
	channels []models.Channel
	err      error
	calls    int
}

func (f *fakeTwitchSource) FetchLiveChannels(ctx context.Context, token, userID string, added []string) ([]models.Channel, error) {
	f.calls++
	return f.channels, f.err
}

type fakeValidator struct {
	err error
}

func (f *fakeValidator) TwitchOAuthValidateToken(ctx context.Context, token string) (*models.TwitchOautValidateTokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.TwitchOautValidateTokenResponse{UserId: "42"}, nil
}

type fakeYoutubeSource struct {
	oauthErr error
	keyErr   error
	channels []models.Channel
	authSeen []youtubeClient.Auth
}

func (f *fakeYoutubeSource) FetchLiveChannels(ctx context.Context, auth youtubeClient.Auth, added []string) ([]models.Channel, error) {
	f.authSeen = append(f.authSeen, auth)
	if auth.AccessToken != "" && f.oauthErr != nil {
		return nil, f.oauthErr
	}
	if auth.AccessToken == "" && f.keyErr != nil {
		return nil, f.keyErr
	}
	return f.channels, nil
}

type fakeKickSource struct {
	channels []models.Channel
}

func (f *fakeKickSource) FetchLiveChannels(ctx context.Context, added []string) []models.Channel {
	return f.channels
}

type passthroughRefresher struct{}

func (passthroughRefresher) EnsureFresh(ctx context.Context, login models.Login) (models.Login, error) {
	return login, nil
}

type failingRefresher struct {
	err error
}

func (f failingRefresher) EnsureFresh(ctx context.Context, login models.Login) (models.Login, error) {
	return login, f.err
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, title, message string) error {
	n.messages = append(n.messages, title)
	return nil
}

type testHarness struct {
	service    *AggregatorService
	creds      *credential.CredentialService
	prefs      *preferences.PreferenceService
	snapshots  *snapshot.SnapshotService
	twitch     *fakeTwitchSource
	validator  *fakeValidator
	youtube    *fakeYoutubeSource
	kick       *fakeKickSource
	notifier   *recordingNotifier
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	synced := storage.NewMemory(nil)
	local := storage.NewMemory(nil)

	h := &testHarness{
		creds:     credential.NewCredentialService(synced),
		prefs:     preferences.NewPreferenceService(synced),
		snapshots: snapshot.NewSnapshotService(local),
		twitch:    &fakeTwitchSource{},
		validator: &fakeValidator{},
		youtube:   &fakeYoutubeSource{},
		kick:      &fakeKickSource{},
		notifier:  &recordingNotifier{},
	}

	h.service = NewAggregatorService(
		h.creds, h.prefs, h.snapshots,
		h.twitch, h.validator, h.youtube, passthroughRefresher{}, h.kick,
		h.notifier, nil,
	)

	return h
}

func sourceErr(status int) error {
	return errors.Wrap(&models.SourceError{HTTPStatus: status}, "fetch")
}

func TestTwitchUnauthorizedTriggersLogoutWithoutEscaping(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeTwitch, AccessToken: "dead"}))
	h.twitch.err = sourceErr(http.StatusUnauthorized)

	require.NoError(t, h.service.RunCycle(ctx))

	login, err := h.creds.LoginByType(ctx, models.AccountTypeTwitch)
	require.NoError(t, err)
	require.Nil(t, login, "twitch login must be cleared after a 401")

	require.Empty(t, h.snapshots.Current().Channels)
}

func TestTwitchTransientErrorKeepsLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeTwitch, AccessToken: "ok"}))
	h.twitch.err = sourceErr(http.StatusInternalServerError)

	require.NoError(t, h.service.RunCycle(ctx))

	login, err := h.creds.LoginByType(ctx, models.AccountTypeTwitch)
	require.NoError(t, err)
	require.NotNil(t, login, "a 5xx is transient, login stays")
}

func TestYoutubeFallsBackToAPIKey(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeYouTube, AccessToken: "oauth", RefreshToken: "r"}))
	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeYouTubeAPIKey, APIKey: "key"}))
	require.NoError(t, h.prefs.SetAddedChannels(ctx, models.PlatformLists{YouTube: []string{"UC1"}}))

	viewers := uint64(3)
	h.youtube.oauthErr = sourceErr(http.StatusForbidden)
	h.youtube.channels = []models.Channel{
		models.YouTubeChannel{ID: "UC1", ManualInputQuery: "UC1", VideoID: "v", ViewerCount: &viewers},
	}

	require.NoError(t, h.service.RunCycle(ctx))

	require.Len(t, h.youtube.authSeen, 2, "oauth attempt then key fallback")
	require.NotEmpty(t, h.youtube.authSeen[0].AccessToken)
	require.NotEmpty(t, h.youtube.authSeen[1].APIKey)

	require.Len(t, h.snapshots.Current().Channels, 1)

	// fallback succeeded, so no logout and no notification
	login, err := h.creds.LoginByType(ctx, models.AccountTypeYouTube)
	require.NoError(t, err)
	require.NotNil(t, login)
	require.Empty(t, h.notifier.messages)
}

func TestYoutubeAuthDeathLogsOutAndNotifies(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeYouTube, AccessToken: "oauth"}))
	require.NoError(t, h.prefs.SetAddedChannels(ctx, models.PlatformLists{YouTube: []string{"UC1"}}))

	h.youtube.oauthErr = sourceErr(http.StatusUnauthorized)

	require.NoError(t, h.service.RunCycle(ctx))

	login, err := h.creds.LoginByType(ctx, models.AccountTypeYouTube)
	require.NoError(t, err)
	require.Nil(t, login)
	require.Equal(t, []string{"YouTube login expired"}, h.notifier.messages)
}

func TestYoutubeRevokedRefreshTokenLogsOutAndNotifies(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeYouTube, AccessToken: "t", RefreshToken: "revoked"}))
	require.NoError(t, h.prefs.SetAddedChannels(ctx, models.PlatformLists{YouTube: []string{"UC1"}}))

	// the token endpoint answers a revoked grant with 400 invalid_grant
	h.service = NewAggregatorService(
		h.creds, h.prefs, h.snapshots,
		h.twitch, h.validator, h.youtube, failingRefresher{err: sourceErr(http.StatusBadRequest)}, h.kick,
		h.notifier, nil,
	)

	require.NoError(t, h.service.RunCycle(ctx))

	login, err := h.creds.LoginByType(ctx, models.AccountTypeYouTube)
	require.NoError(t, err)
	require.Nil(t, login, "a revoked refresh grant must clear the youtube login")
	require.Equal(t, []string{"YouTube login expired"}, h.notifier.messages)
}

func TestYoutubeTransientRefreshFailureKeepsLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeYouTube, AccessToken: "t", RefreshToken: "r"}))
	require.NoError(t, h.prefs.SetAddedChannels(ctx, models.PlatformLists{YouTube: []string{"UC1"}}))

	h.service = NewAggregatorService(
		h.creds, h.prefs, h.snapshots,
		h.twitch, h.validator, h.youtube, failingRefresher{err: sourceErr(http.StatusInternalServerError)}, h.kick,
		h.notifier, nil,
	)

	require.NoError(t, h.service.RunCycle(ctx))

	login, err := h.creds.LoginByType(ctx, models.AccountTypeYouTube)
	require.NoError(t, err)
	require.NotNil(t, login, "a 5xx from the token endpoint is transient")
	require.Empty(t, h.notifier.messages)
}

func TestCycleMergesRanksAndFiltersHidden(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeTwitch, AccessToken: "t"}))
	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeKick}))
	require.NoError(t, h.prefs.SetAddedChannels(ctx, models.PlatformLists{Kick: []string{"kicker", "noisy"}}))
	require.NoError(t, h.prefs.SetHiddenChannels(ctx, models.PlatformLists{Kick: []string{"noisy"}}))

	tenViewers, twoViewers := uint64(10), uint64(2)
	h.twitch.channels = []models.Channel{
		models.TwitchChannel{Username: "off_one", Name: "OffOne"},
		models.TwitchChannel{Username: "live_one", Name: "LiveOne", ViewerCount: &twoViewers},
	}
	h.kick.channels = []models.Channel{
		models.KickChannel{Username: "kicker", ViewerCount: &tenViewers},
		models.KickChannel{Username: "noisy", ViewerCount: &tenViewers},
	}

	require.NoError(t, h.service.RunCycle(ctx))

	got := h.snapshots.Current().Channels
	require.Len(t, got, 3, "hidden kick channel filtered before ranking")

	// live channels first (viewer count descending by default), offline last
	require.Equal(t, "kicker", got[0].Key())
	require.Equal(t, "live_one", got[1].Key())
	require.Equal(t, "off_one", got[2].Key())
}
