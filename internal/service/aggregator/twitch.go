package aggregator

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/models"
)

// fetchTwitch is the Twitch stage of one cycle. A 400/401 means the access
// token has been invalidated: the login is cleared and the stage gives up
// until the user re-authenticates. Anything else is logged and this cycle's
// Twitch contribution is simply empty.
func (as *AggregatorService) fetchTwitch(ctx context.Context, logins []models.Login, added []string) []models.Channel {
	login := models.FindLogin(logins, models.AccountTypeTwitch)
	if login == nil {
		return nil
	}

	validateInfo, err := as.twitchOauthClient.TwitchOAuthValidateToken(ctx, login.AccessToken)
	if err != nil {
		as.handleTwitchError(ctx, err)
		return nil
	}

	channels, err := as.twitchClient.FetchLiveChannels(ctx, login.AccessToken, validateInfo.UserId, added)
	if err != nil {
		as.handleTwitchError(ctx, err)
		return nil
	}

	return channels
}

func (as *AggregatorService) handleTwitchError(ctx context.Context, err error) {
	if sourceErr, ok := models.AsSourceError(err); ok &&
		(sourceErr.HTTPStatus == http.StatusBadRequest || sourceErr.HTTPStatus == http.StatusUnauthorized) {

		logrus.Infof("twitch token invalidated (status %d), logging out", sourceErr.HTTPStatus)
		if err := as.credentialService.Logout(ctx, models.AccountTypeTwitch); err != nil {
			logrus.Errorf("could not clear twitch login: %v", err)
		}
		return
	}

	logrus.Errorf("could not fetch twitch channels: %v", err)
}
