package models

type Scope string

var (
	UserReadFollows Scope = "user:read:follows"
	YoutubeReadonly Scope = "https://www.googleapis.com/auth/youtube.readonly"
)

type TwitchOautValidateTokenResponse struct {
	ClientId  string   `json:"client_id"`
	Login     string   `json:"login"`
	Scopes    []string `json:"scopes"`
	UserId    string   `json:"user_id"`
	ExpiresIn uint64   `json:"expires_in"`
}

// OauthTokenResponse is the token-endpoint payload shape both Twitch and
// Google use for authorization-code and refresh-token grants.
type OauthTokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"` // may be absent on refresh
	TokenType    string `json:"token_type"`
}
