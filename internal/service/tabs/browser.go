package tabs

import (
	"context"
	"time"
)

// Tab is the slice of browser tab state the reconciler cares about.
type Tab struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Muted bool   `json:"muted"`
}

// Browser is the tab/window capability of the companion extension. The
// reconciler never assumes it runs inside the browser; everything goes
// through this interface.
type Browser interface {
	HasHostPermission(ctx context.Context, originPattern string) (bool, error)
	QueryTabs(ctx context.Context, urlPattern string) ([]Tab, error)
	CreateTab(ctx context.Context, url string, background bool) (Tab, error)
	UpdateTabURL(ctx context.Context, tabID int, url string) error
	MuteTab(ctx context.Context, tabID int, muted bool) error
	// WaitForComplete resolves when the tab reports load-complete or the
	// timeout elapses, whichever comes first. The timeout is not an error.
	WaitForComplete(ctx context.Context, tabID int, timeout time.Duration) error
	InjectScript(ctx context.Context, tabID int) error
}
