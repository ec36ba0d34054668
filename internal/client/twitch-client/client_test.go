package twitch_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"stream_tab_watcher/internal/models"
)

func TestGetFollowedChannelsPaginates(t *testing.T) {
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/helix/channels/followed", r.URL.Path)
		requests++

		switch r.URL.Query().Get("after") {
		case "":
			w.Write([]byte(`{"data":[{"broadcaster_login":"one"},{"broadcaster_login":"two"}],"pagination":{"cursor":"next"}}`))
		case "next":
			w.Write([]byte(`{"data":[{"broadcaster_login":"three"}],"pagination":{}}`))
		default:
			t.Fatalf("unexpected cursor %q", r.URL.Query().Get("after"))
		}
	}))
	defer srv.Close()

	client := &TwitchClient{apiSchemeHost: srv.URL}

	channels, err := client.GetFollowedChannels(context.Background(), "token", "123")
	require.NoError(t, err)
	require.Equal(t, 2, requests)
	require.Len(t, channels, 3)
	require.Equal(t, "one", channels[0].BroadcasterLogin)
	require.Equal(t, "three", channels[2].BroadcasterLogin)
}

func TestHelixGetReturnsSourceErrorOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized","status":401,"message":"Invalid OAuth token"}`))
	}))
	defer srv.Close()

	client := &TwitchClient{apiSchemeHost: srv.URL}

	_, err := client.GetFollowedStreams(context.Background(), "dead-token", "123")
	require.Error(t, err)

	sourceErr, ok := models.AsSourceError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, sourceErr.HTTPStatus)
}

func TestFetchLiveChannelsMergesStreamsIntoUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/helix/channels/followed":
			w.Write([]byte(`{"data":[{"broadcaster_id":"1","broadcaster_login":"live_one"},{"broadcaster_id":"2","broadcaster_login":"off_one"}],"pagination":{}}`))
		case "/helix/streams/followed":
			w.Write([]byte(`{"data":[{"id":"s1","user_id":"1","user_login":"live_one","game_name":"Chess","viewer_count":17}],"pagination":{}}`))
		case "/helix/streams":
			// added channels query
			require.Equal(t, []string{"added_one"}, r.URL.Query()["user_login"])
			w.Write([]byte(`{"data":[],"pagination":{}}`))
		case "/helix/users":
			w.Write([]byte(`{"data":[
				{"id":"1","login":"live_one","display_name":"LiveOne"},
				{"id":"2","login":"off_one","display_name":"OffOne"},
				{"id":"3","login":"added_one","display_name":"AddedOne"}
			]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := &TwitchClient{apiSchemeHost: srv.URL}

	channels, err := client.FetchLiveChannels(context.Background(), "token", "42", []string{"added_one", "LIVE_ONE"})
	require.NoError(t, err)
	require.Len(t, channels, 3)

	byKey := make(map[string]models.Channel, len(channels))
	for _, channel := range channels {
		byKey[channel.Key()] = channel
	}

	live := byKey["live_one"].(models.TwitchChannel)
	require.NotNil(t, live.ViewerCount)
	require.Equal(t, uint64(17), *live.ViewerCount)
	require.Equal(t, "Chess", live.Game)

	require.Nil(t, byKey["off_one"].Viewers())
	require.Nil(t, byKey["added_one"].Viewers())
}

func TestChunkStrings(t *testing.T) {
	ids := make([]string, 0, 205)
	for i := 0; i < 205; i++ {
		ids = append(ids, "id")
	}

	chunks := chunkStrings(ids, models.TwitchPageSize)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 100)
	require.Len(t, chunks[2], 5)

	require.Nil(t, chunkStrings(nil, models.TwitchPageSize))
}
