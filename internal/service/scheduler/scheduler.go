package scheduler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"stream_tab_watcher/internal/service/credential"
	"stream_tab_watcher/internal/service/preferences"
	"stream_tab_watcher/internal/service/snapshot"
	"stream_tab_watcher/internal/storage"
)

// restartDebounce coalesces bursts of settings writes (an import, a sync
// from another device) into a single restart.
const restartDebounce = time.Second * 3

type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// SchedulerService drives the poll loop. It is either idle (no usable
// login, empty snapshot, no alarm) or armed (one pending alarm). The next
// fire time is persisted so a process restart resumes the cadence instead
// of resetting it.
type SchedulerService struct {
	credentialService *credential.CredentialService
	preferenceService *preferences.PreferenceService
	snapshotService   *snapshot.SnapshotService
	synced            storage.Storage
	local             storage.Storage
	runner            CycleRunner

	debounceDelay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	running bool

	debounceMu sync.Mutex
	debounce   *time.Timer
}

func NewSchedulerService(
	credentialService *credential.CredentialService,
	preferenceService *preferences.PreferenceService,
	snapshotService *snapshot.SnapshotService,
	synced storage.Storage,
	local storage.Storage,
	runner CycleRunner,
) *SchedulerService {
	return &SchedulerService{
		credentialService: credentialService,
		preferenceService: preferenceService,
		snapshotService:   snapshotService,
		synced:            synced,
		local:             local,
		runner:            runner,
		debounceDelay:     restartDebounce,
	}
}

// Start wires the settings subscription and runs the startup wake. The
// returned stop function cancels the subscription and any pending timers.
func (s *SchedulerService) Start(ctx context.Context) (stop func()) {
	unsubscribe := s.synced.Subscribe(func(change storage.Change) {
		switch change.Key {
		case storage.KeyLogins, storage.KeyPreferences, storage.KeyAddedChannels:
			s.scheduleRestart(ctx)
		}
	})

	s.Wake(ctx)

	return func() {
		unsubscribe()

		s.debounceMu.Lock()
		if s.debounce != nil {
			s.debounce.Stop()
		}
		s.debounceMu.Unlock()

		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()
	}
}

// Wake re-evaluates the schedule from persisted state. With no usable
// login it goes idle. An overdue or missing alarm runs a cycle right away;
// a future alarm is re-armed for the remaining duration, not reset.
func (s *SchedulerService) Wake(ctx context.Context) {
	usable, err := s.credentialService.HasAnyUsableLogin(ctx)
	if err != nil {
		logrus.Errorf("could not check logins on wake: %v", err)
		return
	}

	if !usable {
		s.toIdle(ctx)
		return
	}

	nextAt := s.persistedNextAt(ctx)
	if nextAt.IsZero() || !nextAt.After(time.Now()) {
		s.runCycleAndArm(ctx)
		return
	}

	s.armAt(ctx, nextAt)
}

// Refresh runs a cycle right now and re-bases the cadence on it. Backs the
// manual refresh button, so it skips the settings debounce.
func (s *SchedulerService) Refresh(ctx context.Context) {
	s.restart(ctx)
}

func (s *SchedulerService) scheduleRestart(ctx context.Context) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()

	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.debounceDelay, func() {
		s.restart(ctx)
	})
}

// restart drops the pending alarm and wakes, so the changed settings take
// effect immediately instead of at the old alarm time.
func (s *SchedulerService) restart(ctx context.Context) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.persistNextAt(ctx, time.Time{})
	s.Wake(ctx)
}

func (s *SchedulerService) runCycleAndArm(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.runner.RunCycle(ctx); err != nil {
		logrus.Errorf("poll cycle failed: %v", err)
	}

	prefs, err := s.preferenceService.Preferences(ctx)
	if err != nil {
		logrus.Errorf("could not read preferences after cycle: %v", err)
	}

	delay := time.Duration(prefs.PollDelayMinutes) * time.Minute
	if delay <= 0 {
		delay = time.Minute
	}

	s.armAt(ctx, time.Now().Add(delay))
}

func (s *SchedulerService) armAt(ctx context.Context, at time.Time) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(time.Until(at), func() {
		s.runCycleAndArm(ctx)
	})
	s.mu.Unlock()

	s.persistNextAt(ctx, at)
}

// toIdle is the no-login state: pending alarm cancelled, persisted alarm
// cleared, snapshot emptied. The empty snapshot fans out to subscribers,
// which is what clears the badge.
func (s *SchedulerService) toIdle(ctx context.Context) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.persistNextAt(ctx, time.Time{})

	if err := s.snapshotService.Clear(ctx); err != nil {
		logrus.Errorf("could not clear snapshot on idle: %v", err)
	}
}

func (s *SchedulerService) persistedNextAt(ctx context.Context) time.Time {
	values, err := s.local.Get(ctx, storage.KeyPollNextAt)
	if err != nil {
		logrus.Errorf("could not read persisted alarm: %v", err)
		return time.Time{}
	}

	raw, ok := values[storage.KeyPollNextAt]
	if !ok {
		return time.Time{}
	}

	var unix int64
	if err := jsoniter.Unmarshal(raw, &unix); err != nil || unix == 0 {
		return time.Time{}
	}

	return time.Unix(unix, 0)
}

func (s *SchedulerService) persistNextAt(ctx context.Context, at time.Time) {
	var unix int64
	if !at.IsZero() {
		unix = at.Unix()
	}

	raw, err := jsoniter.Marshal(unix)
	if err != nil {
		logrus.Errorf("could not marshal alarm time: %v", err)
		return
	}

	err = s.local.Set(ctx, map[string]json.RawMessage{
		storage.KeyPollNextAt: raw,
	})
	if err != nil {
		logrus.Errorf("could not persist alarm time: %v", err)
	}
}
