package preferences

import (
	"context"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
	"stream_tab_watcher/internal/storage"
)

// PreferenceService reads and writes the user-facing settings stored in the
// synced scope. Absent keys fall back to defaults, so a fresh install works
// before the options page is ever opened.
type PreferenceService struct {
	synced storage.Storage
}

func NewPreferenceService(synced storage.Storage) *PreferenceService {
	return &PreferenceService{
		synced: synced,
	}
}

func (ps *PreferenceService) Preferences(ctx context.Context) (models.Preferences, error) {
	prefs := models.DefaultPreferences()
	err := ps.read(ctx, storage.KeyPreferences, &prefs)

	return prefs, err
}

func (ps *PreferenceService) Favorites(ctx context.Context) (favorites []models.Favorite, err error) {
	err = ps.read(ctx, storage.KeyFavorites, &favorites)

	return
}

func (ps *PreferenceService) AddedChannels(ctx context.Context) (added models.PlatformLists, err error) {
	err = ps.read(ctx, storage.KeyAddedChannels, &added)

	return
}

func (ps *PreferenceService) HiddenChannels(ctx context.Context) (hidden models.PlatformLists, err error) {
	err = ps.read(ctx, storage.KeyHiddenChannels, &hidden)

	return
}

func (ps *PreferenceService) SetPreferences(ctx context.Context, prefs models.Preferences) error {
	return ps.write(ctx, storage.KeyPreferences, prefs)
}

func (ps *PreferenceService) SetFavorites(ctx context.Context, favorites []models.Favorite) error {
	return ps.write(ctx, storage.KeyFavorites, favorites)
}

func (ps *PreferenceService) SetAddedChannels(ctx context.Context, added models.PlatformLists) error {
	return ps.write(ctx, storage.KeyAddedChannels, added)
}

func (ps *PreferenceService) SetHiddenChannels(ctx context.Context, hidden models.PlatformLists) error {
	return ps.write(ctx, storage.KeyHiddenChannels, hidden)
}

func (ps *PreferenceService) read(ctx context.Context, key string, target interface{}) error {
	values, err := ps.synced.Get(ctx, key)
	if err != nil {
		return errors.Wrap(err, "Get")
	}

	raw, ok := values[key]
	if !ok {
		return nil
	}

	return errors.Wrap(jsoniter.Unmarshal(raw, target), "Unmarshal")
}

func (ps *PreferenceService) write(ctx context.Context, key string, value interface{}) error {
	raw, err := jsoniter.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "Marshal")
	}

	return errors.Wrap(ps.synced.Set(ctx, map[string]json.RawMessage{key: raw}), "Set")
}
