package youtube_oauth_client

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// BuildAuthorizeURL returns the interactive Google authorization URL.
// access_type=offline is required to get a refresh token at all.
func (yoc *YoutubeOauthClient) BuildAuthorizeURL(state, clientID string) string {
	resolvedID, _ := yoc.resolveCredentials(clientID, "-")

	query := url.Values{}
	query.Add("client_id", resolvedID)
	query.Add("response_type", "code")
	query.Add("redirect_uri", yoc.redirectURI)
	query.Add("scope", string(models.YoutubeReadonly))
	query.Add("access_type", "offline")
	query.Add("prompt", "consent")
	query.Add("state", state)

	return yoc.authSchemeHost + "/o/oauth2/v2/auth?" + query.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (yoc *YoutubeOauthClient) ExchangeCode(ctx context.Context, code, clientID, clientSecret string) (*models.OauthTokenResponse, error) {
	resolvedID, resolvedSecret := yoc.resolveCredentials(clientID, clientSecret)

	form := url.Values{}
	form.Add("client_id", resolvedID)
	form.Add("client_secret", resolvedSecret)
	form.Add("grant_type", "authorization_code")
	form.Add("code", code)
	form.Add("redirect_uri", yoc.redirectURI)

	return yoc.tokenRequest(ctx, form)
}

// RefreshToken trades a refresh token for a new access token. A revoked
// grant surfaces as a SourceError the caller maps to a YouTube logout.
func (yoc *YoutubeOauthClient) RefreshToken(ctx context.Context, refreshToken, clientID, clientSecret string) (*models.OauthTokenResponse, error) {
	resolvedID, resolvedSecret := yoc.resolveCredentials(clientID, clientSecret)

	form := url.Values{}
	form.Add("client_id", resolvedID)
	form.Add("client_secret", resolvedSecret)
	form.Add("grant_type", "refresh_token")
	form.Add("refresh_token", refreshToken)

	return yoc.tokenRequest(ctx, form)
}

func (yoc *YoutubeOauthClient) tokenRequest(ctx context.Context, form url.Values) (data *models.OauthTokenResponse, err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequestWithContext(ctx, "POST", yoc.tokenSchemeHost+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return
	}

	defer resp.Body.Close()

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(&models.SourceError{
			HTTPStatus: resp.StatusCode,
			Body:       string(readedResp),
		}, "tokenRequest")
	}

	var tokenInfo models.OauthTokenResponse
	err = jsoniter.Unmarshal(readedResp, &tokenInfo)
	if err != nil {
		return
	}

	data = &tokenInfo

	return
}
