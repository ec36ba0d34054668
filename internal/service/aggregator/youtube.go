package aggregator

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	youtubeClient "stream_tab_watcher/internal/client/youtube-client"
	"stream_tab_watcher/internal/models"
)

// fetchYoutube is the YouTube stage. OAuth is preferred; a standalone API
// key, when configured, is silently retried as a fallback before giving up.
// A remaining 401/403 means the grant is dead: log out and tell the user,
// since silent YouTube token death is otherwise invisible.
func (as *AggregatorService) fetchYoutube(ctx context.Context, logins []models.Login, added []string) []models.Channel {
	if len(added) == 0 {
		return nil
	}

	oauthLogin := models.FindLogin(logins, models.AccountTypeYouTube)
	keyLogin := models.FindLogin(logins, models.AccountTypeYouTubeAPIKey)

	if oauthLogin == nil && keyLogin == nil {
		return nil
	}

	if oauthLogin == nil {
		channels, err := as.youtubeClient.FetchLiveChannels(ctx, youtubeClient.Auth{APIKey: keyLogin.APIKey}, added)
		if err != nil {
			logrus.Errorf("could not fetch youtube channels with api key: %v", err)
			return nil
		}
		return channels
	}

	fresh, oauthErr := as.youtubeTokenService.EnsureFresh(ctx, *oauthLogin)
	refreshFailed := oauthErr != nil
	if oauthErr == nil {
		var channels []models.Channel
		channels, oauthErr = as.youtubeClient.FetchLiveChannels(ctx, youtubeClient.Auth{AccessToken: fresh.AccessToken}, added)
		if oauthErr == nil {
			return channels
		}
	}

	if keyLogin != nil {
		channels, keyErr := as.youtubeClient.FetchLiveChannels(ctx, youtubeClient.Auth{APIKey: keyLogin.APIKey}, added)
		if keyErr == nil {
			logrus.Infof("youtube oauth fetch failed, api key fallback succeeded: %v", oauthErr)
			return channels
		}
		logrus.Errorf("youtube api key fallback failed too: %v", keyErr)
	}

	as.handleYoutubeAuthError(ctx, oauthErr, refreshFailed)

	return nil
}

func (as *AggregatorService) handleYoutubeAuthError(ctx context.Context, err error, refreshFailed bool) {
	if sourceErr, ok := models.AsSourceError(err); ok {
		authDead := sourceErr.HTTPStatus == http.StatusUnauthorized || sourceErr.HTTPStatus == http.StatusForbidden

		// Google's token endpoint rejects a revoked refresh_token grant with
		// 400 invalid_grant, not 401. A 5xx from the token endpoint is still
		// transient and keeps the login.
		if refreshFailed && sourceErr.HTTPStatus == http.StatusBadRequest {
			authDead = true
		}

		if authDead {
			logrus.Infof("youtube grant dead (status %d), logging out", sourceErr.HTTPStatus)
			if err := as.credentialService.Logout(ctx, models.AccountTypeYouTube); err != nil {
				logrus.Errorf("could not clear youtube login: %v", err)
			}

			if as.notifier != nil {
				if err := as.notifier.Notify(ctx, "YouTube login expired",
					"The YouTube session is no longer valid. Log in again to keep seeing YouTube channels."); err != nil {
					logrus.Errorf("could not send youtube logout notification: %v", err)
				}
			}
			return
		}
	}

	logrus.Errorf("could not fetch youtube channels: %v", err)
}
