package youtube_oauth_client

import (
	"os"
)

const (
	googleAuthSchemeHost  string = "https://accounts.google.com"
	googleTokenSchemeHost string = "https://oauth2.googleapis.com"
)

type YoutubeOauthClient struct {
	authSchemeHost  string
	tokenSchemeHost string
	clientID        string
	clientSecret    string
	redirectURI     string
}

func NewYoutubeOauthClient(redirectURI string) *YoutubeOauthClient {
	return &YoutubeOauthClient{
		authSchemeHost:  googleAuthSchemeHost,
		tokenSchemeHost: googleTokenSchemeHost,
		clientID:        os.Getenv("YOUTUBE_CLIENT_ID"),
		clientSecret:    os.Getenv("YOUTUBE_SECRET"),
		redirectURI:     redirectURI,
	}
}

// resolveCredentials prefers an explicit client id/secret pair (the
// YOUTUBE_OAUTH_CREDENTIALS login) over the environment defaults.
func (yoc *YoutubeOauthClient) resolveCredentials(clientID, clientSecret string) (string, string) {
	if clientID != "" && clientSecret != "" {
		return clientID, clientSecret
	}

	return yoc.clientID, yoc.clientSecret
}
