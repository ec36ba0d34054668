package youtube_token

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	youtubeOauthClient "stream_tab_watcher/internal/client/youtube-oauth-client"
	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/credential"
)

// refreshSafetyMargin refreshes slightly early so a token never expires
// mid-cycle between the check and the actual API calls.
const refreshSafetyMargin = 2 * time.Minute

type YoutubeTokenService struct {
	credentialService  *credential.CredentialService
	youtubeOauthClient *youtubeOauthClient.YoutubeOauthClient
}

func NewYoutubeTokenService(
	credentialService *credential.CredentialService,
	oauthClient *youtubeOauthClient.YoutubeOauthClient,
) *YoutubeTokenService {
	return &YoutubeTokenService{
		credentialService:  credentialService,
		youtubeOauthClient: oauthClient,
	}
}

// EnsureFresh returns the login unchanged while it is comfortably valid,
// otherwise exchanges the refresh token, persists the updated login and
// returns it. A failed refresh (revoked grant) propagates so the caller
// can map it to a YouTube logout.
func (yts *YoutubeTokenService) EnsureFresh(ctx context.Context, login models.Login) (models.Login, error) {
	if login.RefreshToken == "" {
		return login, nil
	}

	expiry := time.Unix(login.ExpiresAt, 0)
	if login.ExpiresAt != 0 && time.Until(expiry) > refreshSafetyMargin {
		return login, nil
	}

	clientID, clientSecret := "", ""
	if creds, err := yts.credentialService.LoginByType(ctx, models.AccountTypeYouTubeOAuthCreds); err == nil && creds != nil {
		clientID, clientSecret = creds.ClientID, creds.ClientSecret
	}

	tokenInfo, err := yts.youtubeOauthClient.RefreshToken(ctx, login.RefreshToken, clientID, clientSecret)
	if err != nil {
		return login, errors.Wrap(err, "RefreshToken")
	}

	login.AccessToken = tokenInfo.AccessToken
	login.ExpiresAt = time.Now().Add(time.Duration(tokenInfo.ExpiresIn) * time.Second).Unix()
	if tokenInfo.RefreshToken != "" {
		login.RefreshToken = tokenInfo.RefreshToken
	}

	if err := yts.credentialService.SetLogin(ctx, login); err != nil {
		return login, errors.Wrap(err, "SetLogin")
	}

	logrus.Info("youtube access token refreshed")

	return login, nil
}
