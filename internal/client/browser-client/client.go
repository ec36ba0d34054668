package browser_client

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

const defaultBridgeSchemeHost string = "http://127.0.0.1:8791"

// BrowserClient talks to the companion extension's local bridge, which
// proxies tab, badge and notification actions into the running browser.
type BrowserClient struct {
	bridgeSchemeHost string
}

func NewBrowserClient() *BrowserClient {
	schemeHost := os.Getenv("BROWSER_BRIDGE_ADDR")
	if schemeHost == "" {
		schemeHost = defaultBridgeSchemeHost
	}

	return &BrowserClient{
		bridgeSchemeHost: schemeHost,
	}
}

func (bc *BrowserClient) bridgeDo(ctx context.Context, method, path string, query url.Values, body interface{}, timeout time.Duration) ([]byte, error) {

	client := http.Client{
		Timeout: timeout,
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, bc.bridgeSchemeHost+path, reqBody)
	if err != nil {
		return nil, err
	}

	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
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
		}, "bridgeDo "+path)
	}

	return readedResp, nil
}
