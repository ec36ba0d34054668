package tabs

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/ranker"
	"stream_tab_watcher/internal/service/snapshot"
)

const tabLoadTimeout = time.Second * 5

// TabService keeps open Twitch tabs in line with the committed channel
// snapshot: open tabs for the top live favorites, replace the least
// important replaceable tab when a better candidate appears, and never
// touch a tab the user is engaged with.
type TabService struct {
	preferenceService *preferences.PreferenceService
	snapshotService   *snapshot.SnapshotService
	browser           Browser
}

func NewTabService(
	preferenceService *preferences.PreferenceService,
	snapshotService *snapshot.SnapshotService,
	browser Browser,
) *TabService {
	return &TabService{
		preferenceService: preferenceService,
		snapshotService:   snapshotService,
		browser:           browser,
	}
}

// openTab is one enumerated Twitch tab plus the channel identity parsed
// from its URL. An empty login means the URL matched the channel-page
// pattern but carries no usable identity; such a tab still occupies a
// slot yet never matches a candidate.
type openTab struct {
	tab   Tab
	login string
}

// Reconcile runs one pass against the current snapshot. Every step is
// best-effort: a single failed tab operation is logged and skipped, the
// pass moves on.
func (ts *TabService) Reconcile(ctx context.Context) error {
	prefs, err := ts.preferenceService.Preferences(ctx)
	if err != nil {
		return errors.Wrap(err, "Preferences")
	}

	if prefs.MaxStreams == 0 {
		return nil
	}

	granted, err := ts.browser.HasHostPermission(ctx, twitchOriginPattern)
	if err != nil {
		return errors.Wrap(err, "HasHostPermission")
	}
	if !granted {
		logrus.Info("no twitch host permission, skipping tab reconciliation")
		return nil
	}

	favorites, err := ts.preferenceService.Favorites(ctx)
	if err != nil {
		return errors.Wrap(err, "Favorites")
	}

	candidates := ts.liveFavorites(favorites)
	if len(candidates) == 0 {
		return nil
	}

	allTabs, err := ts.browser.QueryTabs(ctx, twitchTabPattern)
	if err != nil {
		return errors.Wrap(err, "QueryTabs")
	}

	var (
		channelTabs []openTab
		lockedCount int
		openLogins  = map[string]bool{}
	)
	for _, tab := range allTabs {
		if lockedTab(tab.URL) {
			lockedCount++
			if login, ok := channelFromURL(tab.URL); ok {
				openLogins[login] = true
			}
			continue
		}

		login, ok := channelFromURL(tab.URL)
		if !ok {
			continue
		}

		openLogins[login] = true
		channelTabs = append(channelTabs, openTab{tab: tab, login: login})
	}

	totalOpen := lockedCount + len(channelTabs)

	replaceable := ts.replaceableTabs(channelTabs, prefs)

	// A channel already on screen never gets a second tab, wherever it is.
	wanted := make([]models.TwitchChannel, 0, len(candidates))
	for _, candidate := range candidates {
		if openLogins[candidate.Key()] {
			continue
		}
		wanted = append(wanted, candidate)
		if uint(len(wanted)) == prefs.MaxStreams {
			break
		}
	}

	newSlots := 0
	if uint(totalOpen) < prefs.MaxStreams {
		newSlots = int(prefs.MaxStreams) - totalOpen
	}
	if newSlots > len(wanted) {
		newSlots = len(wanted)
	}

	for _, candidate := range wanted[:newSlots] {
		ts.openTab(ctx, candidate, prefs)
	}

	remaining := wanted[newSlots:]
	for i, candidate := range remaining {
		if i >= len(replaceable) {
			break
		}
		ts.replaceTab(ctx, replaceable[i], candidate, prefs, favorites)
	}

	return nil
}

// liveFavorites filters the committed snapshot down to live, favorited
// Twitch channels. Snapshot order is already the ranked order, which the
// filter preserves.
func (ts *TabService) liveFavorites(favorites []models.Favorite) []models.TwitchChannel {
	var out []models.TwitchChannel
	for _, channel := range ts.snapshotService.Current().Channels {
		twitch, ok := channel.(models.TwitchChannel)
		if !ok || !models.IsLive(twitch) {
			continue
		}
		if models.FavoriteIndex(favorites, twitch) == -1 {
			continue
		}
		out = append(out, twitch)
	}

	return out
}

// replaceableTabs orders the candidate replacement targets least important
// first: unranked tabs, then ranked tabs worst rank first. With auto-mute
// on, an unmuted tab means the user turned the sound on and the tab is
// off-limits. At most MaxStreams tabs are ever considered.
func (ts *TabService) replaceableTabs(channelTabs []openTab, prefs models.Preferences) []openTab {
	replaceable := make([]openTab, 0, len(channelTabs))
	for _, open := range channelTabs {
		if prefs.AutoMuteTabs && !open.tab.Muted {
			continue
		}
		replaceable = append(replaceable, open)
	}

	ranked := ts.snapshotRanks()
	sort.SliceStable(replaceable, func(i, j int) bool {
		ri, iKnown := ranked[replaceable[i].login]
		rj, jKnown := ranked[replaceable[j].login]
		if iKnown != jKnown {
			return !iKnown
		}
		return ri > rj
	})

	if uint(len(replaceable)) > prefs.MaxStreams {
		replaceable = replaceable[:prefs.MaxStreams]
	}

	return replaceable
}

// snapshotRanks maps twitch logins in the current snapshot to their rank
// position, lower is better.
func (ts *TabService) snapshotRanks() map[string]int {
	ranks := map[string]int{}
	for i, channel := range ts.snapshotService.Current().Channels {
		if twitch, ok := channel.(models.TwitchChannel); ok {
			if _, seen := ranks[twitch.Key()]; !seen {
				ranks[twitch.Key()] = i
			}
		}
	}

	return ranks
}

func (ts *TabService) openTab(ctx context.Context, candidate models.TwitchChannel, prefs models.Preferences) {
	created, err := ts.browser.CreateTab(ctx, channelURL(candidate.Username), prefs.OpenTabsInBackground)
	if err != nil {
		logrus.Errorf("could not open tab for %s: %v", candidate.Key(), err)
		return
	}

	// A foreground tab starts playing immediately, so the mute has to wait
	// for the player to exist. Background tabs can be muted right away.
	if !prefs.OpenTabsInBackground {
		if err := ts.browser.WaitForComplete(ctx, created.ID, tabLoadTimeout); err != nil {
			logrus.Errorf("load wait failed for %s: %v", candidate.Key(), err)
		}
	}

	ts.applyMute(ctx, created.ID, candidate.Key(), prefs)
}

func (ts *TabService) replaceTab(ctx context.Context, target openTab, candidate models.TwitchChannel, prefs models.Preferences, favorites []models.Favorite) {
	if strings.EqualFold(target.login, candidate.Username) {
		return
	}

	// Only navigate away when the candidate genuinely outranks whatever the
	// tab shows now. A tab showing a channel we know nothing about loses to
	// any candidate.
	if current, ok := ts.snapshotChannel(target.login); ok {
		if !ranker.Less(candidate, current, favorites, prefs.SortLiveAscending) {
			return
		}
	}

	if err := ts.browser.UpdateTabURL(ctx, target.tab.ID, channelURL(candidate.Username)); err != nil {
		logrus.Errorf("could not replace tab %d with %s: %v", target.tab.ID, candidate.Key(), err)
		return
	}

	ts.applyMute(ctx, target.tab.ID, candidate.Key(), prefs)
}

func (ts *TabService) snapshotChannel(login string) (models.Channel, bool) {
	for _, channel := range ts.snapshotService.Current().Channels {
		if twitch, ok := channel.(models.TwitchChannel); ok && twitch.Key() == login {
			return twitch, true
		}
	}

	return nil, false
}

func (ts *TabService) applyMute(ctx context.Context, tabID int, key string, prefs models.Preferences) {
	if !prefs.AutoMuteTabs {
		return
	}

	if err := ts.browser.MuteTab(ctx, tabID, true); err != nil {
		logrus.Errorf("could not mute tab for %s: %v", key, err)
	}
	if err := ts.browser.InjectScript(ctx, tabID); err != nil {
		logrus.Errorf("could not inject player mute script for %s: %v", key, err)
	}
}
