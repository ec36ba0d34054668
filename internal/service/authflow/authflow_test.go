package authflow

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	youtubeClient "stream_tab_watcher/internal/client/youtube-client"
	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/credential"
	"stream_tab_watcher/internal/storage"
)

type fakeTwitchExchanger struct {
	exchanged []string
}

func (f *fakeTwitchExchanger) BuildAuthorizeURL(state string) string {
	return "https://id.twitch.tv/oauth2/authorize?state=" + state
}

func (f *fakeTwitchExchanger) TwitchGetUserToken(ctx context.Context, code string) (*models.OauthTokenResponse, error) {
	f.exchanged = append(f.exchanged, code)
	return &models.OauthTokenResponse{AccessToken: "at-" + code, RefreshToken: "rt", ExpiresIn: 3600}, nil
}

type fakeYoutubeExchanger struct {
	clientIDSeen string
}

func (f *fakeYoutubeExchanger) BuildAuthorizeURL(state, clientID string) string {
	f.clientIDSeen = clientID
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (f *fakeYoutubeExchanger) ExchangeCode(ctx context.Context, code, clientID, clientSecret string) (*models.OauthTokenResponse, error) {
	f.clientIDSeen = clientID
	return &models.OauthTokenResponse{AccessToken: "yt-at", RefreshToken: "yt-rt", ExpiresIn: 3600}, nil
}

type fakeSubscriptionSource struct {
	calls int
	items []models.YoutubeSubscriptionItem
}

func (f *fakeSubscriptionSource) GetSubscriptions(ctx context.Context, auth youtubeClient.Auth) ([]models.YoutubeSubscriptionItem, error) {
	f.calls++
	return f.items, nil
}

type passthroughRefresher struct{}

func (passthroughRefresher) EnsureFresh(ctx context.Context, login models.Login) (models.Login, error) {
	return login, nil
}

type flowHarness struct {
	service *AuthFlowService
	creds   *credential.CredentialService
	twitch  *fakeTwitchExchanger
	youtube *fakeYoutubeExchanger
	subs    *fakeSubscriptionSource
}

func newFlowHarness(t *testing.T) *flowHarness {
	t.Helper()

	h := &flowHarness{
		creds:   credential.NewCredentialService(storage.NewMemory(nil)),
		twitch:  &fakeTwitchExchanger{},
		youtube: &fakeYoutubeExchanger{},
		subs:    &fakeSubscriptionSource{},
	}
	h.service = NewAuthFlowService(h.creds, h.twitch, h.youtube, h.subs, passthroughRefresher{}, storage.NewMemory(nil))

	return h
}

func stateFrom(t *testing.T, authorizeURL string) string {
	t.Helper()

	parsed, err := url.Parse(authorizeURL)
	require.NoError(t, err)

	return parsed.Query().Get("state")
}

func TestTwitchLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newFlowHarness(t)

	authorizeURL, err := h.service.BeginTwitchLogin(ctx)
	require.NoError(t, err)
	state := stateFrom(t, authorizeURL)
	require.NotEmpty(t, state)

	require.NoError(t, h.service.CompleteTwitchLogin(ctx, state, "code123"))

	login, err := h.creds.LoginByType(ctx, models.AccountTypeTwitch)
	require.NoError(t, err)
	require.NotNil(t, login)
	require.Equal(t, "at-code123", login.AccessToken)
	require.NotZero(t, login.ExpiresAt)
}

func TestMismatchedStatePersistsNothing(t *testing.T) {
	ctx := context.Background()
	h := newFlowHarness(t)

	_, err := h.service.BeginTwitchLogin(ctx)
	require.NoError(t, err)

	require.Error(t, h.service.CompleteTwitchLogin(ctx, "forged-state", "code123"))
	require.Empty(t, h.twitch.exchanged, "no code exchange on a bad state")

	login, err := h.creds.LoginByType(ctx, models.AccountTypeTwitch)
	require.NoError(t, err)
	require.Nil(t, login)
}

func TestStateIsSingleUse(t *testing.T) {
	ctx := context.Background()
	h := newFlowHarness(t)

	authorizeURL, err := h.service.BeginTwitchLogin(ctx)
	require.NoError(t, err)
	state := stateFrom(t, authorizeURL)

	require.NoError(t, h.service.CompleteTwitchLogin(ctx, state, "code123"))
	require.Error(t, h.service.CompleteTwitchLogin(ctx, state, "code456"), "replayed redirect must fail")
	require.Equal(t, []string{"code123"}, h.twitch.exchanged)
}

func TestStatePlatformsDoNotCross(t *testing.T) {
	ctx := context.Background()
	h := newFlowHarness(t)

	authorizeURL, err := h.service.BeginYoutubeLogin(ctx)
	require.NoError(t, err)
	state := stateFrom(t, authorizeURL)

	require.Error(t, h.service.CompleteTwitchLogin(ctx, state, "code123"),
		"a youtube state must not complete a twitch login")
}

func TestYoutubeLoginUsesCustomCredentials(t *testing.T) {
	ctx := context.Background()
	h := newFlowHarness(t)

	require.NoError(t, h.service.SetYoutubeOauthCredentials(ctx, "custom-id", "custom-secret"))

	authorizeURL, err := h.service.BeginYoutubeLogin(ctx)
	require.NoError(t, err)
	require.Equal(t, "custom-id", h.youtube.clientIDSeen)

	state := stateFrom(t, authorizeURL)
	require.NoError(t, h.service.CompleteYoutubeLogin(ctx, state, "code"))

	login, err := h.creds.LoginByType(ctx, models.AccountTypeYouTube)
	require.NoError(t, err)
	require.NotNil(t, login)
	require.Equal(t, "yt-at", login.AccessToken)
}

func TestYoutubeSubscriptionsAreCached(t *testing.T) {
	ctx := context.Background()
	h := newFlowHarness(t)

	require.NoError(t, h.creds.SetLogin(ctx, models.Login{Type: models.AccountTypeYouTube, AccessToken: "t"}))
	h.subs.items = []models.YoutubeSubscriptionItem{{}}

	first, err := h.service.YoutubeSubscriptions(ctx, false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, h.subs.calls)

	second, err := h.service.YoutubeSubscriptions(ctx, false)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 1, h.subs.calls, "second read comes from the cache")

	_, err = h.service.YoutubeSubscriptions(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 2, h.subs.calls, "forced refresh bypasses the cache")
}
