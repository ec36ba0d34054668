package storage

import (
	"context"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// exportKeys is the preference subset that travels in an export.
// Credentials never leave the synced store.
var exportKeys = []string{
	KeyPreferences,
	KeyFavorites,
	KeyAddedChannels,
	KeyHiddenChannels,
}

// Export serializes the preference subset of the synced scope to JSON.
func Export(ctx context.Context, synced Storage) ([]byte, error) {
	values, err := synced.Get(ctx, exportKeys...)
	if err != nil {
		return nil, errors.Wrap(err, "Get")
	}

	export := make(map[string]json.RawMessage, len(exportKeys))
	for _, key := range exportKeys {
		if value, ok := values[key]; ok {
			export[key] = value
		}
	}

	return jsoniter.MarshalIndent(export, "", "  ")
}

// Import writes an exported preference subset back. Keys outside the
// exportable subset are dropped, so a tampered export cannot inject logins.
func Import(ctx context.Context, synced Storage, raw []byte) error {
	var imported map[string]json.RawMessage
	if err := jsoniter.Unmarshal(raw, &imported); err != nil {
		return errors.Wrap(err, "Unmarshal")
	}

	values := make(map[string]json.RawMessage, len(exportKeys))
	for _, key := range exportKeys {
		if value, ok := imported[key]; ok {
			values[key] = value
		}
	}

	if len(values) == 0 {
		return nil
	}

	return errors.Wrap(synced.Set(ctx, values), "Set")
}
