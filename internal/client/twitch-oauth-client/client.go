package twitch_oauth_client

import (
	"os"
)

const twitchIDSchemeHost string = "https://id.twitch.tv"

type TwitchOauthClient struct {
	idSchemeHost string
	clientID     string
	clientSecret string
	redirectURI  string
}

func NewTwitchOauthClient(redirectURI string) *TwitchOauthClient {
	return &TwitchOauthClient{
		idSchemeHost: twitchIDSchemeHost,
		clientID:     os.Getenv("TWITCH_CLIENT_ID"),
		clientSecret: os.Getenv("TWITCH_SECRET"),
		redirectURI:  redirectURI,
	}
}
