package authflow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	youtubeClient "stream_tab_watcher/internal/client/youtube-client"
	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/credential"
	"stream_tab_watcher/internal/storage"
)

// stateTTL bounds how long an interactive login may sit on the consent
// screen before the redirect is rejected.
const stateTTL = time.Minute * 10

type TwitchExchanger interface {
	BuildAuthorizeURL(state string) string
	TwitchGetUserToken(ctx context.Context, code string) (*models.OauthTokenResponse, error)
}

type YoutubeExchanger interface {
	BuildAuthorizeURL(state, clientID string) string
	ExchangeCode(ctx context.Context, code, clientID, clientSecret string) (*models.OauthTokenResponse, error)
}

type SubscriptionSource interface {
	GetSubscriptions(ctx context.Context, auth youtubeClient.Auth) ([]models.YoutubeSubscriptionItem, error)
}

type TokenRefresher interface {
	EnsureFresh(ctx context.Context, login models.Login) (models.Login, error)
}

type pendingState struct {
	platform  models.Platform
	createdAt time.Time
}

// AuthFlowService owns the interactive login flows. Each flow issues a
// single-use state nonce; a redirect whose state does not match a pending
// flow is dropped and nothing is persisted.
type AuthFlowService struct {
	credentialService   *credential.CredentialService
	twitchOauthClient   TwitchExchanger
	youtubeOauthClient  YoutubeExchanger
	youtubeClient       SubscriptionSource
	youtubeTokenService TokenRefresher
	local               storage.Storage

	mu     sync.Mutex
	states map[string]pendingState
}

func NewAuthFlowService(
	credentialService *credential.CredentialService,
	twitchOauthClient TwitchExchanger,
	youtubeOauthClient YoutubeExchanger,
	youtubeClient SubscriptionSource,
	youtubeTokenService TokenRefresher,
	local storage.Storage,
) *AuthFlowService {
	return &AuthFlowService{
		credentialService:   credentialService,
		twitchOauthClient:   twitchOauthClient,
		youtubeOauthClient:  youtubeOauthClient,
		youtubeClient:       youtubeClient,
		youtubeTokenService: youtubeTokenService,
		local:               local,
		states:              make(map[string]pendingState),
	}
}

// BeginTwitchLogin returns the authorization URL to open in the browser.
func (afs *AuthFlowService) BeginTwitchLogin(ctx context.Context) (string, error) {
	state, err := afs.issueState(models.PlatformTwitch)
	if err != nil {
		return "", errors.Wrap(err, "issueState")
	}

	return afs.twitchOauthClient.BuildAuthorizeURL(state), nil
}

// CompleteTwitchLogin handles the authorization redirect.
func (afs *AuthFlowService) CompleteTwitchLogin(ctx context.Context, state, code string) error {
	if !afs.consumeState(state, models.PlatformTwitch) {
		return errors.New("unknown or expired login state")
	}

	tokenInfo, err := afs.twitchOauthClient.TwitchGetUserToken(ctx, code)
	if err != nil {
		return errors.Wrap(err, "TwitchGetUserToken")
	}

	login := models.Login{
		Type:         models.AccountTypeTwitch,
		AccessToken:  tokenInfo.AccessToken,
		RefreshToken: tokenInfo.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenInfo.ExpiresIn) * time.Second).Unix(),
	}

	logrus.Info("twitch login completed")

	return errors.Wrap(afs.credentialService.SetLogin(ctx, login), "SetLogin")
}

func (afs *AuthFlowService) BeginYoutubeLogin(ctx context.Context) (string, error) {
	state, err := afs.issueState(models.PlatformYouTube)
	if err != nil {
		return "", errors.Wrap(err, "issueState")
	}

	clientID := ""
	if creds, err := afs.credentialService.LoginByType(ctx, models.AccountTypeYouTubeOAuthCreds); err == nil && creds != nil {
		clientID = creds.ClientID
	}

	return afs.youtubeOauthClient.BuildAuthorizeURL(state, clientID), nil
}

func (afs *AuthFlowService) CompleteYoutubeLogin(ctx context.Context, state, code string) error {
	if !afs.consumeState(state, models.PlatformYouTube) {
		return errors.New("unknown or expired login state")
	}

	clientID, clientSecret := "", ""
	if creds, err := afs.credentialService.LoginByType(ctx, models.AccountTypeYouTubeOAuthCreds); err == nil && creds != nil {
		clientID, clientSecret = creds.ClientID, creds.ClientSecret
	}

	tokenInfo, err := afs.youtubeOauthClient.ExchangeCode(ctx, code, clientID, clientSecret)
	if err != nil {
		return errors.Wrap(err, "ExchangeCode")
	}

	login := models.Login{
		Type:         models.AccountTypeYouTube,
		AccessToken:  tokenInfo.AccessToken,
		RefreshToken: tokenInfo.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenInfo.ExpiresIn) * time.Second).Unix(),
	}

	logrus.Info("youtube login completed")

	return errors.Wrap(afs.credentialService.SetLogin(ctx, login), "SetLogin")
}

// SetYoutubeAPIKey stores the key-only YouTube login.
func (afs *AuthFlowService) SetYoutubeAPIKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return errors.New("api key must not be empty")
	}

	return errors.Wrap(afs.credentialService.SetLogin(ctx, models.Login{
		Type:   models.AccountTypeYouTubeAPIKey,
		APIKey: apiKey,
	}), "SetLogin")
}

// SetYoutubeOauthCredentials stores a custom client id/secret pair used by
// later interactive YouTube logins instead of the built-in credentials.
func (afs *AuthFlowService) SetYoutubeOauthCredentials(ctx context.Context, clientID, clientSecret string) error {
	if clientID == "" || clientSecret == "" {
		return errors.New("client id and secret must both be set")
	}

	return errors.Wrap(afs.credentialService.SetLogin(ctx, models.Login{
		Type:         models.AccountTypeYouTubeOAuthCreds,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}), "SetLogin")
}

// EnableKick records the credential-less Kick login. Kick fetching needs no
// token, only the user's opt-in.
func (afs *AuthFlowService) EnableKick(ctx context.Context) error {
	return errors.Wrap(afs.credentialService.SetLogin(ctx, models.Login{
		Type: models.AccountTypeKick,
	}), "SetLogin")
}

// YoutubeSubscriptions returns the authed user's subscription list, served
// from the local cache unless a refresh is forced. The list only feeds the
// add-channel picker, staleness is acceptable.
func (afs *AuthFlowService) YoutubeSubscriptions(ctx context.Context, forceRefresh bool) ([]models.YoutubeSubscriptionItem, error) {
	if !forceRefresh {
		if cached, ok := afs.cachedSubscriptions(ctx); ok {
			return cached, nil
		}
	}

	login, err := afs.credentialService.LoginByType(ctx, models.AccountTypeYouTube)
	if err != nil {
		return nil, errors.Wrap(err, "LoginByType")
	}
	if login == nil {
		return nil, errors.New("youtube login required")
	}

	fresh, err := afs.youtubeTokenService.EnsureFresh(ctx, *login)
	if err != nil {
		return nil, errors.Wrap(err, "EnsureFresh")
	}

	subscriptions, err := afs.youtubeClient.GetSubscriptions(ctx, youtubeClient.Auth{AccessToken: fresh.AccessToken})
	if err != nil {
		return nil, errors.Wrap(err, "GetSubscriptions")
	}

	raw, err := jsoniter.Marshal(subscriptions)
	if err != nil {
		return nil, errors.Wrap(err, "Marshal")
	}

	err = afs.local.Set(ctx, map[string]json.RawMessage{
		storage.KeyYoutubeSubscriptions: raw,
	})
	if err != nil {
		logrus.Errorf("could not cache youtube subscriptions: %v", err)
	}

	return subscriptions, nil
}

func (afs *AuthFlowService) cachedSubscriptions(ctx context.Context) ([]models.YoutubeSubscriptionItem, bool) {
	values, err := afs.local.Get(ctx, storage.KeyYoutubeSubscriptions)
	if err != nil {
		logrus.Errorf("could not read cached youtube subscriptions: %v", err)
		return nil, false
	}

	raw, ok := values[storage.KeyYoutubeSubscriptions]
	if !ok {
		return nil, false
	}

	var cached []models.YoutubeSubscriptionItem
	if err := jsoniter.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}

	return cached, true
}

func (afs *AuthFlowService) issueState(platform models.Platform) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := hex.EncodeToString(buf)

	afs.mu.Lock()
	defer afs.mu.Unlock()

	for existing, pending := range afs.states {
		if time.Since(pending.createdAt) > stateTTL {
			delete(afs.states, existing)
		}
	}

	afs.states[state] = pendingState{
		platform:  platform,
		createdAt: time.Now(),
	}

	return state, nil
}

// consumeState is single-use: a matched state is removed before the code
// exchange even starts, so a replayed redirect always fails.
func (afs *AuthFlowService) consumeState(state string, platform models.Platform) bool {
	afs.mu.Lock()
	defer afs.mu.Unlock()

	pending, ok := afs.states[state]
	if !ok {
		return false
	}

	delete(afs.states, state)

	if pending.platform != platform {
		return false
	}

	return time.Since(pending.createdAt) <= stateTTL
}
