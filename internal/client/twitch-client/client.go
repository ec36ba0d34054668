package twitch_client

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

const twitchApiSchemeHost string = "https://api.twitch.tv"

type TwitchClient struct {
	apiSchemeHost string
	clientID      string
}

func NewTwitchClient() *TwitchClient {
	return &TwitchClient{
		apiSchemeHost: twitchApiSchemeHost,
		clientID:      os.Getenv("TWITCH_CLIENT_ID"),
	}
}

// helixGet issues one authorized Helix request and returns the raw body.
// Any non-2xx response becomes a models.SourceError so callers can map
// 400/401 to a forced logout.
func (twc *TwitchClient) helixGet(ctx context.Context, token, path string, query url.Values) ([]byte, error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", twc.apiSchemeHost+path, nil)
	if err != nil {
		return nil, err
	}

	req.URL.RawQuery = query.Encode()

	req.Header.Add("Client-Id", twc.clientID)
	req.Header.Add("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Wrap(&models.SourceError{
			HTTPStatus: resp.StatusCode,
			Body:       string(readedResp),
		}, "helixGet "+path)
	}

	return readedResp, nil
}

// chunkStrings splits ids into slices of at most size elements.
func chunkStrings(ids []string, size int) (chunks [][]string) {
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}

	return
}
