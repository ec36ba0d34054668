package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	dbRepository "stream_tab_watcher/db/repository"
)

// Synced is the cross-device scope, backed by Postgres. Preferences,
// favorites, added/hidden channels and logins live here.
type Synced struct {
	repo     *dbRepository.DBRepository
	defaults map[string]json.RawMessage
	hub      hub
}

func NewSynced(repo *dbRepository.DBRepository, defaults map[string]json.RawMessage) *Synced {
	return &Synced{
		repo:     repo,
		defaults: defaults,
	}
}

func (s *Synced) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	values, err := s.repo.GetEntries(ctx, keys)
	if err != nil {
		return nil, errors.Wrap(err, "GetEntries")
	}

	return mergeDefaults(values, s.defaults, keys), nil
}

func (s *Synced) Set(ctx context.Context, values map[string]json.RawMessage) error {
	for key, value := range values {
		if err := s.repo.UpsertEntry(ctx, key, value); err != nil {
			return errors.Wrap(err, "UpsertEntry")
		}

		s.hub.notify(Change{Key: key, NewValue: value})
	}

	return nil
}

func (s *Synced) Subscribe(fn func(Change)) func() {
	return s.hub.subscribe(fn)
}
