package browser_client

import (
	"context"

	"github.com/pkg/errors"
)

// SetBadge puts text on the toolbar icon.
func (bc *BrowserClient) SetBadge(ctx context.Context, text, color string) error {

	body := struct {
		Text  string `json:"text"`
		Color string `json:"color"`
	}{Text: text, Color: color}

	_, err := bc.bridgeDo(ctx, "POST", "/badge", nil, body, bridgeTimeout)

	return errors.Wrap(err, "SetBadge")
}

func (bc *BrowserClient) ClearBadge(ctx context.Context) error {

	body := struct {
		Text string `json:"text"`
	}{}

	_, err := bc.bridgeDo(ctx, "POST", "/badge", nil, body, bridgeTimeout)

	return errors.Wrap(err, "ClearBadge")
}

// ShowNotification raises a native browser notification.
func (bc *BrowserClient) ShowNotification(ctx context.Context, title, message string) error {

	body := struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}{Title: title, Message: message}

	_, err := bc.bridgeDo(ctx, "POST", "/notifications", nil, body, bridgeTimeout)

	return errors.Wrap(err, "ShowNotification")
}
