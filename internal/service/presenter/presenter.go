package presenter

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/snapshot"
	"stream_tab_watcher/internal/utils/formater"
)

const liveBadgeColor = "#9146ff"

type BadgeSink interface {
	SetBadge(ctx context.Context, text, color string) error
	ClearBadge(ctx context.Context) error
}

type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// PresenterService projects each committed snapshot onto the user-visible
// surfaces: the toolbar badge shows the live count, and a favorite
// transitioning offline-to-live raises a notification. Both are
// best-effort, presentation never fails a cycle.
type PresenterService struct {
	preferenceService *preferences.PreferenceService
	snapshotService   *snapshot.SnapshotService
	badge             BadgeSink
	notifier          Notifier

	mu       sync.Mutex
	prevLive map[string]bool
}

func NewPresenterService(
	preferenceService *preferences.PreferenceService,
	snapshotService *snapshot.SnapshotService,
	badge BadgeSink,
	notifier Notifier,
) *PresenterService {
	return &PresenterService{
		preferenceService: preferenceService,
		snapshotService:   snapshotService,
		badge:             badge,
		notifier:          notifier,
	}
}

// Start subscribes to snapshot commits. The restored snapshot seeds the
// transition baseline so a process restart does not re-announce channels
// that were already live.
func (ps *PresenterService) Start(ctx context.Context) (stop func()) {
	ps.mu.Lock()
	ps.prevLive = liveKeys(ps.snapshotService.Current())
	ps.mu.Unlock()

	return ps.snapshotService.Subscribe(func(snap models.ChannelSnapshot) {
		ps.present(ctx, snap)
	})
}

func (ps *PresenterService) present(ctx context.Context, snap models.ChannelSnapshot) {
	ps.presentBadge(ctx, snap)
	ps.notifyTransitions(ctx, snap)
}

func (ps *PresenterService) presentBadge(ctx context.Context, snap models.ChannelSnapshot) {
	liveCount := snap.LiveCount()

	if liveCount == 0 {
		if err := ps.badge.ClearBadge(ctx); err != nil {
			logrus.Errorf("could not clear badge: %v", err)
		}
		return
	}

	if err := ps.badge.SetBadge(ctx, strconv.Itoa(liveCount), liveBadgeColor); err != nil {
		logrus.Errorf("could not set badge: %v", err)
	}
}

func (ps *PresenterService) notifyTransitions(ctx context.Context, snap models.ChannelSnapshot) {
	current := liveKeys(snap)

	ps.mu.Lock()
	previous := ps.prevLive
	ps.prevLive = current
	ps.mu.Unlock()

	prefs, err := ps.preferenceService.Preferences(ctx)
	if err != nil {
		logrus.Errorf("could not read preferences for notifications: %v", err)
		return
	}
	if !prefs.NotificationsEnabled || ps.notifier == nil {
		return
	}

	favorites, err := ps.preferenceService.Favorites(ctx)
	if err != nil {
		logrus.Errorf("could not read favorites for notifications: %v", err)
		return
	}

	for _, channel := range snap.Channels {
		if !models.IsLive(channel) || previous[channel.Key()] {
			continue
		}
		if models.FavoriteIndex(favorites, channel) == -1 {
			continue
		}

		title := fmt.Sprintf("%s is live", channel.DisplayName())
		if err := ps.notifier.Notify(ctx, title, streamLine(channel)); err != nil {
			logrus.Errorf("could not notify for %s: %v", channel.Key(), err)
		}
	}
}

func streamLine(channel models.Channel) string {
	line := string(channel.ChannelPlatform())
	if viewers := channel.Viewers(); viewers != nil {
		line = fmt.Sprintf("%s viewers on %s", strconv.FormatUint(*viewers, 10), line)
	}
	if startedAt := startTime(channel); startedAt != nil {
		line += ", live for " + formater.StreamDuration(*startedAt)
	}

	return line
}

func startTime(channel models.Channel) *time.Time {
	switch typed := channel.(type) {
	case models.TwitchChannel:
		return typed.StartedAt
	case models.YouTubeChannel:
		return typed.StartedAt
	case models.KickChannel:
		return typed.StartedAt
	}

	return nil
}

func liveKeys(snap models.ChannelSnapshot) map[string]bool {
	keys := make(map[string]bool, len(snap.Channels))
	for _, channel := range snap.Channels {
		if models.IsLive(channel) {
			keys[channel.Key()] = true
		}
	}

	return keys
}
