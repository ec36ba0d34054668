package presenter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/snapshot"
	"stream_tab_watcher/internal/storage"
)

type fakeBadge struct {
	texts  []string
	clears int
}

func (b *fakeBadge) SetBadge(ctx context.Context, text, color string) error {
	b.texts = append(b.texts, text)
	return nil
}

func (b *fakeBadge) ClearBadge(ctx context.Context) error {
	b.clears++
	return nil
}

type fakeNotifier struct {
	titles []string
}

func (n *fakeNotifier) Notify(ctx context.Context, title, message string) error {
	n.titles = append(n.titles, title)
	return nil
}

type presenterHarness struct {
	snaps    *snapshot.SnapshotService
	prefs    *preferences.PreferenceService
	badge    *fakeBadge
	notifier *fakeNotifier
	stop     func()
}

func newPresenterHarness(t *testing.T) *presenterHarness {
	t.Helper()

	h := &presenterHarness{
		snaps:    snapshot.NewSnapshotService(storage.NewMemory(nil)),
		prefs:    preferences.NewPreferenceService(storage.NewMemory(nil)),
		badge:    &fakeBadge{},
		notifier: &fakeNotifier{},
	}

	service := NewPresenterService(h.prefs, h.snaps, h.badge, h.notifier)
	h.stop = service.Start(context.Background())
	t.Cleanup(h.stop)

	return h
}

func liveTwitch(username string, viewers uint64) models.Channel {
	return models.TwitchChannel{Username: username, Name: username, ViewerCount: &viewers}
}

func TestBadgeShowsLiveCountAndClearsOnEmpty(t *testing.T) {
	ctx := context.Background()
	h := newPresenterHarness(t)

	require.NoError(t, h.snaps.Commit(ctx, []models.Channel{
		liveTwitch("a", 1),
		liveTwitch("b", 2),
		models.TwitchChannel{Username: "offline"},
	}))
	require.Equal(t, []string{"2"}, h.badge.texts, "badge counts live channels only")

	require.NoError(t, h.snaps.Commit(ctx, nil))
	require.Equal(t, 1, h.badge.clears, "empty snapshot clears the badge")
}

func TestFavoriteGoingLiveNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	h := newPresenterHarness(t)

	require.NoError(t, h.prefs.SetFavorites(ctx, []models.Favorite{
		{Platform: models.PlatformTwitch, Identity: "fav"},
	}))

	require.NoError(t, h.snaps.Commit(ctx, []models.Channel{
		models.TwitchChannel{Username: "fav", Name: "Fav"},
	}))
	require.Empty(t, h.notifier.titles, "offline favorite stays quiet")

	require.NoError(t, h.snaps.Commit(ctx, []models.Channel{liveTwitch("fav", 7)}))
	require.Equal(t, []string{"fav is live"}, h.notifier.titles)

	require.NoError(t, h.snaps.Commit(ctx, []models.Channel{liveTwitch("fav", 9)}))
	require.Len(t, h.notifier.titles, 1, "still-live favorite is not re-announced")
}

func TestNonFavoritesAndDisabledNotificationsStayQuiet(t *testing.T) {
	ctx := context.Background()
	h := newPresenterHarness(t)

	require.NoError(t, h.snaps.Commit(ctx, []models.Channel{liveTwitch("random", 5)}))
	require.Empty(t, h.notifier.titles, "non-favorites never notify")

	prefs := models.DefaultPreferences()
	prefs.NotificationsEnabled = false
	require.NoError(t, h.prefs.SetPreferences(ctx, prefs))
	require.NoError(t, h.prefs.SetFavorites(ctx, []models.Favorite{
		{Platform: models.PlatformTwitch, Identity: "fav"},
	}))

	require.NoError(t, h.snaps.Commit(ctx, []models.Channel{liveTwitch("fav", 5)}))
	require.Empty(t, h.notifier.titles, "notifications off means no announcements")
}
