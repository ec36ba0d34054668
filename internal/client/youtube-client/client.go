package youtube_client

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

const youtubeApiSchemeHost string = "https://www.googleapis.com"

// Auth carries one of the two supported credential shapes. A non-empty
// access token wins; otherwise the bare API key goes into the query string.
type Auth struct {
	AccessToken string
	APIKey      string
}

type YoutubeClient struct {
	apiSchemeHost string
	cache         ChannelCache
}

func NewYoutubeClient(cache ChannelCache) *YoutubeClient {
	if cache == nil {
		cache = NewSessionCache()
	}

	return &YoutubeClient{
		apiSchemeHost: youtubeApiSchemeHost,
		cache:         cache,
	}
}

func (ytc *YoutubeClient) apiGet(ctx context.Context, auth Auth, path string, query url.Values) ([]byte, error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", ytc.apiSchemeHost+path, nil)
	if err != nil {
		return nil, err
	}

	if auth.AccessToken != "" {
		req.Header.Add("Authorization", "Bearer "+auth.AccessToken)
	} else {
		query.Add("key", auth.APIKey)
	}
	req.URL.RawQuery = query.Encode()

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
		}, "apiGet "+path)
	}

	return readedResp, nil
}
