package tabs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/snapshot"
	"stream_tab_watcher/internal/storage"
)

type fakeBrowser struct {
	permission bool
	tabs       []Tab

	created  []string
	updated  map[int]string
	muted    []int
	injected []int
	waited   []int
	nextID   int
}

func newFakeBrowser(tabs ...Tab) *fakeBrowser {
	return &fakeBrowser{
		permission: true,
		tabs:       tabs,
		updated:    map[int]string{},
		nextID:     1000,
	}
}

func (b *fakeBrowser) HasHostPermission(ctx context.Context, originPattern string) (bool, error) {
	return b.permission, nil
}

func (b *fakeBrowser) QueryTabs(ctx context.Context, urlPattern string) ([]Tab, error) {
	return b.tabs, nil
}

func (b *fakeBrowser) CreateTab(ctx context.Context, url string, background bool) (Tab, error) {
	b.created = append(b.created, url)
	b.nextID++
	return Tab{ID: b.nextID, URL: url}, nil
}

func (b *fakeBrowser) UpdateTabURL(ctx context.Context, tabID int, url string) error {
	b.updated[tabID] = url
	return nil
}

func (b *fakeBrowser) MuteTab(ctx context.Context, tabID int, muted bool) error {
	b.muted = append(b.muted, tabID)
	return nil
}

func (b *fakeBrowser) WaitForComplete(ctx context.Context, tabID int, timeout time.Duration) error {
	b.waited = append(b.waited, tabID)
	return nil
}

func (b *fakeBrowser) InjectScript(ctx context.Context, tabID int) error {
	b.injected = append(b.injected, tabID)
	return nil
}

func live(username string, viewers uint64) models.TwitchChannel {
	return models.TwitchChannel{Username: username, Name: username, ViewerCount: &viewers}
}

func favoritesFor(usernames ...string) []models.Favorite {
	favorites := make([]models.Favorite, 0, len(usernames))
	for _, username := range usernames {
		favorites = append(favorites, models.Favorite{Platform: models.PlatformTwitch, Identity: username})
	}
	return favorites
}

func newTabHarness(t *testing.T, browser Browser, prefs models.Preferences, favorites []models.Favorite, channels []models.Channel) *TabService {
	t.Helper()
	ctx := context.Background()

	prefService := preferences.NewPreferenceService(storage.NewMemory(nil))
	require.NoError(t, prefService.SetPreferences(ctx, prefs))
	require.NoError(t, prefService.SetFavorites(ctx, favorites))

	snapService := snapshot.NewSnapshotService(storage.NewMemory(nil))
	require.NoError(t, snapService.Commit(ctx, channels))

	return NewTabService(prefService, snapService, browser)
}

func TestReconcileOpensTopFavoritesUpToMaxStreams(t *testing.T) {
	browser := newFakeBrowser()

	prefs := models.DefaultPreferences() // MaxStreams 2, viewer count descending
	channels := []models.Channel{live("x", 30), live("y", 20), live("z", 10)}
	service := newTabHarness(t, browser, prefs, favoritesFor("x", "y", "z"), channels)

	require.NoError(t, service.Reconcile(context.Background()))

	require.Equal(t, []string{
		"https://www.twitch.tv/x",
		"https://www.twitch.tv/y",
	}, browser.created)
	require.Empty(t, browser.updated)
}

func TestReconcileNeverTouchesLockedTabs(t *testing.T) {
	browser := newFakeBrowser(
		Tab{ID: 1, URL: "https://www.twitch.tv/videos/123456", Muted: true},
		Tab{ID: 2, URL: "https://www.twitch.tv/someone/schedule", Muted: true},
	)

	prefs := models.DefaultPreferences()
	service := newTabHarness(t, browser, prefs, favoritesFor("x"), []models.Channel{live("x", 10)})

	require.NoError(t, service.Reconcile(context.Background()))

	require.Empty(t, browser.updated, "engaged tabs must never be navigated")
	// the two locked tabs fill both slots, so nothing new opens either
	require.Empty(t, browser.created)
}

func TestReconcileReplacesLowestRankedReplaceableTab(t *testing.T) {
	browser := newFakeBrowser(
		Tab{ID: 1, URL: "https://www.twitch.tv/low", Muted: true},
		Tab{ID: 2, URL: "https://www.twitch.tv/high", Muted: true},
	)

	prefs := models.DefaultPreferences()
	channels := []models.Channel{live("best", 100), live("high", 50), live("low", 5)}
	service := newTabHarness(t, browser, prefs, favoritesFor("best", "high", "low"), channels)

	require.NoError(t, service.Reconcile(context.Background()))

	require.Empty(t, browser.created, "both slots already taken")
	require.Equal(t, map[int]string{1: "https://www.twitch.tv/best"}, browser.updated)
}

func TestReconcileSkipsAlreadyOpenChannel(t *testing.T) {
	browser := newFakeBrowser(
		Tab{ID: 1, URL: "https://www.twitch.tv/X", Muted: true},
	)

	prefs := models.DefaultPreferences()
	service := newTabHarness(t, browser, prefs, favoritesFor("x", "y"),
		[]models.Channel{live("x", 20), live("y", 10)})

	require.NoError(t, service.Reconcile(context.Background()))

	// tab URLs compare case-insensitively against channel identity
	require.Equal(t, []string{"https://www.twitch.tv/y"}, browser.created)
	require.Empty(t, browser.updated)
}

func TestReconcileWithAutoMuteSparesUnmutedTabs(t *testing.T) {
	browser := newFakeBrowser(
		Tab{ID: 1, URL: "https://www.twitch.tv/low", Muted: false},
		Tab{ID: 2, URL: "https://www.twitch.tv/mid", Muted: true},
	)

	prefs := models.DefaultPreferences()
	prefs.AutoMuteTabs = true
	channels := []models.Channel{live("best", 100), live("mid", 50), live("low", 5)}
	service := newTabHarness(t, browser, prefs, favoritesFor("best", "mid", "low"), channels)

	require.NoError(t, service.Reconcile(context.Background()))

	// the unmuted tab means the user is listening, so the muted one goes
	require.Equal(t, map[int]string{2: "https://www.twitch.tv/best"}, browser.updated)
	require.Contains(t, browser.muted, 2)
	require.Contains(t, browser.injected, 2)
}

func TestReconcileNoOpWithoutPermissionOrFavorites(t *testing.T) {
	browser := newFakeBrowser()
	browser.permission = false

	prefs := models.DefaultPreferences()
	service := newTabHarness(t, browser, prefs, favoritesFor("x"), []models.Channel{live("x", 10)})
	require.NoError(t, service.Reconcile(context.Background()))
	require.Empty(t, browser.created)

	browser = newFakeBrowser()
	service = newTabHarness(t, browser, prefs, nil, []models.Channel{live("x", 10)})
	require.NoError(t, service.Reconcile(context.Background()))
	require.Empty(t, browser.created, "no live favorites means nothing to do")
}

func TestChannelFromURL(t *testing.T) {
	cases := []struct {
		url   string
		login string
		ok    bool
	}{
		{"https://www.twitch.tv/Streamer", "streamer", true},
		{"https://www.twitch.tv/streamer/", "streamer", true},
		{"https://www.twitch.tv/directory/gaming", "", false},
		{"https://www.twitch.tv/settings", "", false},
		{"https://www.twitch.tv/videos/987", "", false},
		{"https://example.com/streamer", "", false},
		{"https://www.twitch.tv/", "", false},
	}

	for _, tc := range cases {
		login, ok := channelFromURL(tc.url)
		require.Equal(t, tc.ok, ok, tc.url)
		require.Equal(t, tc.login, login, tc.url)
	}
}

func TestLockedTab(t *testing.T) {
	require.True(t, lockedTab("https://www.twitch.tv/videos/123"))
	require.True(t, lockedTab("https://www.twitch.tv/streamer/clip/FunnyMoment"))
	require.True(t, lockedTab("https://www.twitch.tv/streamer/schedule"))
	require.True(t, lockedTab("https://www.twitch.tv/moderator/streamer"))
	require.False(t, lockedTab("https://www.twitch.tv/streamer"))
}
