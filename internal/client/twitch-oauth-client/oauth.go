package twitch_oauth_client

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// BuildAuthorizeURL returns the interactive authorization URL the login flow
// opens. The caller-provided state nonce is verified on redirect.
func (twc *TwitchOauthClient) BuildAuthorizeURL(state string) string {

	query := url.Values{}
	query.Add("client_id", twc.clientID)
	query.Add("response_type", "code")
	query.Add("redirect_uri", twc.redirectURI)
	query.Add("scope", string(models.UserReadFollows))
	query.Add("state", state)

	return twc.idSchemeHost + "/oauth2/authorize?" + query.Encode()
}

// TwitchGetUserToken exchanges an authorization code for a user token.
func (twc *TwitchOauthClient) TwitchGetUserToken(ctx context.Context, code string) (data *models.OauthTokenResponse, err error) {

	query := url.Values{}
	query.Add("client_id", twc.clientID)
	query.Add("client_secret", twc.clientSecret)
	query.Add("grant_type", "authorization_code")
	query.Add("code", code)
	query.Add("redirect_uri", twc.redirectURI)

	return twc.tokenRequest(ctx, query)
}

// TwitchGetUserTokenRefresh exchanges a refresh token for a new user token.
func (twc *TwitchOauthClient) TwitchGetUserTokenRefresh(ctx context.Context, refreshToken string) (data *models.OauthTokenResponse, err error) {

	query := url.Values{}
	query.Add("client_id", twc.clientID)
	query.Add("client_secret", twc.clientSecret)
	query.Add("grant_type", "refresh_token")
	query.Add("refresh_token", refreshToken)

	return twc.tokenRequest(ctx, query)
}

func (twc *TwitchOauthClient) tokenRequest(ctx context.Context, query url.Values) (data *models.OauthTokenResponse, err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequestWithContext(ctx, "POST", twc.idSchemeHost+"/oauth2/token", nil)
	if err != nil {
		return nil, err
	}

	req.URL.RawQuery = query.Encode()

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

// TwitchOAuthValidateToken resolves the user id behind a token. The followed
// channels/streams endpoints require it as a query parameter.
func (twc *TwitchOauthClient) TwitchOAuthValidateToken(ctx context.Context, token string) (data *models.TwitchOautValidateTokenResponse, err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", twc.idSchemeHost+"/oauth2/validate", nil)
	if err != nil {
		return nil, err
	}

	req.Header.Add("Authorization", fmt.Sprintf("OAuth %s", token))

	resp, err := client.Do(req)
	if err != nil {
		return
	}

	defer resp.Body.Close()

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(&models.SourceError{
			HTTPStatus: resp.StatusCode,
			Body:       string(readedResp),
		}, "TwitchOAuthValidateToken")
	}

	var validateTokenInfo models.TwitchOautValidateTokenResponse
	err = jsoniter.Unmarshal(readedResp, &validateTokenInfo)
	if err != nil {
		return
	}

	data = &validateTokenInfo

	return
}
