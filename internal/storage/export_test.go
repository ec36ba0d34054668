package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := NewMemory(nil)

	seed := map[string]json.RawMessage{
		KeyPreferences:    json.RawMessage(`{"poll_delay_minutes":7,"max_streams":3}`),
		KeyFavorites:      json.RawMessage(`[{"platform":"twitch","identity":"streamer"}]`),
		KeyAddedChannels:  json.RawMessage(`{"twitch":["added_one"],"youtube":["UC1"],"kick":[]}`),
		KeyHiddenChannels: json.RawMessage(`{"twitch":[],"youtube":["UC2"],"kick":["noisy"]}`),
		KeyLogins:         json.RawMessage(`[{"type":"TWITCH","access_token":"secret"}]`),
	}
	require.NoError(t, source.Set(ctx, seed))

	exported, err := Export(ctx, source)
	require.NoError(t, err)
	require.NotContains(t, string(exported), "secret")

	target := NewMemory(nil)
	require.NoError(t, Import(ctx, target, exported))

	values, err := target.Get(ctx, exportKeys...)
	require.NoError(t, err)
	for _, key := range exportKeys {
		require.JSONEq(t, string(seed[key]), string(values[key]), key)
	}

	logins, err := target.Get(ctx, KeyLogins)
	require.NoError(t, err)
	require.NotContains(t, logins, KeyLogins)
}

func TestMemorySubscribeObservesSet(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory(nil)

	var got []Change
	unsubscribe := memory.Subscribe(func(change Change) {
		got = append(got, change)
	})
	defer unsubscribe()

	require.NoError(t, memory.Set(ctx, map[string]json.RawMessage{
		KeyCanary: json.RawMessage(`1`),
	}))

	require.Len(t, got, 1)
	require.Equal(t, KeyCanary, got[0].Key)
}

func TestGetMergesDefaults(t *testing.T) {
	ctx := context.Background()
	memory := NewMemory(map[string]json.RawMessage{
		KeyPreferences: json.RawMessage(`{"poll_delay_minutes":5}`),
	})

	values, err := memory.Get(ctx, KeyPreferences, KeyFavorites)
	require.NoError(t, err)
	require.JSONEq(t, `{"poll_delay_minutes":5}`, string(values[KeyPreferences]))
	require.NotContains(t, values, KeyFavorites)
}
