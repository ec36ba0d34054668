package browser_client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/service/tabs"
)

const bridgeTimeout = time.Second * 5

// HasHostPermission asks the extension whether the origin is granted.
func (bc *BrowserClient) HasHostPermission(ctx context.Context, originPattern string) (bool, error) {

	query := url.Values{}
	query.Add("origin", originPattern)

	readedResp, err := bc.bridgeDo(ctx, "GET", "/permissions", query, nil, bridgeTimeout)
	if err != nil {
		return false, errors.Wrap(err, "HasHostPermission")
	}

	var result struct {
		Granted bool `json:"granted"`
	}
	if err = jsoniter.Unmarshal(readedResp, &result); err != nil {
		return false, errors.Wrap(err, "Unmarshal")
	}

	return result.Granted, nil
}

func (bc *BrowserClient) QueryTabs(ctx context.Context, urlPattern string) ([]tabs.Tab, error) {

	query := url.Values{}
	query.Add("url_pattern", urlPattern)

	readedResp, err := bc.bridgeDo(ctx, "GET", "/tabs", query, nil, bridgeTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "QueryTabs")
	}

	var result []tabs.Tab
	if err = jsoniter.Unmarshal(readedResp, &result); err != nil {
		return nil, errors.Wrap(err, "Unmarshal")
	}

	return result, nil
}

func (bc *BrowserClient) CreateTab(ctx context.Context, tabURL string, background bool) (tabs.Tab, error) {

	body := struct {
		URL        string `json:"url"`
		Background bool   `json:"background"`
	}{URL: tabURL, Background: background}

	readedResp, err := bc.bridgeDo(ctx, "POST", "/tabs", nil, body, bridgeTimeout)
	if err != nil {
		return tabs.Tab{}, errors.Wrap(err, "CreateTab")
	}

	var created tabs.Tab
	if err = jsoniter.Unmarshal(readedResp, &created); err != nil {
		return tabs.Tab{}, errors.Wrap(err, "Unmarshal")
	}

	return created, nil
}

func (bc *BrowserClient) UpdateTabURL(ctx context.Context, tabID int, tabURL string) error {

	body := struct {
		URL string `json:"url"`
	}{URL: tabURL}

	_, err := bc.bridgeDo(ctx, "POST", fmt.Sprintf("/tabs/%d/url", tabID), nil, body, bridgeTimeout)

	return errors.Wrap(err, "UpdateTabURL")
}

func (bc *BrowserClient) MuteTab(ctx context.Context, tabID int, muted bool) error {

	body := struct {
		Muted bool `json:"muted"`
	}{Muted: muted}

	_, err := bc.bridgeDo(ctx, "POST", fmt.Sprintf("/tabs/%d/muted", tabID), nil, body, bridgeTimeout)

	return errors.Wrap(err, "MuteTab")
}

// WaitForComplete blocks until the tab finishes loading or the window
// elapses. The bridge holds the request open, so the HTTP timeout has to
// outlast the wait itself.
func (bc *BrowserClient) WaitForComplete(ctx context.Context, tabID int, timeout time.Duration) error {

	body := struct {
		TimeoutMs int64 `json:"timeout_ms"`
	}{TimeoutMs: timeout.Milliseconds()}

	_, err := bc.bridgeDo(ctx, "POST", fmt.Sprintf("/tabs/%d/wait", tabID), nil, body, timeout+bridgeTimeout)

	return errors.Wrap(err, "WaitForComplete")
}

// InjectScript runs the in-page player mute script in the tab.
func (bc *BrowserClient) InjectScript(ctx context.Context, tabID int) error {

	_, err := bc.bridgeDo(ctx, "POST", fmt.Sprintf("/tabs/%d/mute-script", tabID), nil, nil, bridgeTimeout)

	return errors.Wrap(err, "InjectScript")
}
