package youtube_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"stream_tab_watcher/internal/models"
)

func newTestClient(srv *httptest.Server) *YoutubeClient {
	return &YoutubeClient{
		apiSchemeHost: srv.URL,
		cache:         NewSessionCache(),
	}
}

func TestFetchLiveChannelsEmitsPerLiveVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/channels":
			if r.URL.Query().Get("forUsername") == "streamer" {
				w.Write([]byte(`{"items":[{"id":"UC1","snippet":{"title":"Streamer"},"contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`))
				return
			}
			w.Write([]byte(`{"items":[]}`))
		case "/youtube/v3/playlistItems":
			require.Equal(t, "UU1", r.URL.Query().Get("playlistId"))
			w.Write([]byte(`{"items":[
				{"snippet":{"resourceId":{"videoId":"v1"},"thumbnails":{"default":{"url":"https://i.ytimg.com/vi/v1/default_live.jpg"}}}},
				{"snippet":{"resourceId":{"videoId":"v2"},"thumbnails":{"default":{"url":"https://i.ytimg.com/vi/v2/default.jpg"}}}},
				{"snippet":{"resourceId":{"videoId":"v3"},"thumbnails":{"default":{"url":"https://i.ytimg.com/vi/v3/default_live.jpg"}}}}
			]}`))
		case "/youtube/v3/videos":
			require.Equal(t, "v1,v3", r.URL.Query().Get("id"))
			w.Write([]byte(`{"items":[
				{"id":"v1","snippet":{"channelId":"UC1","title":"live one","liveBroadcastContent":"live"},"liveStreamingDetails":{"concurrentViewers":"12","actualStartTime":"2024-05-01T10:00:00Z"}},
				{"id":"v3","snippet":{"channelId":"UC1","title":"old premiere","liveBroadcastContent":"none"}}
			]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv)

	channels, err := client.FetchLiveChannels(context.Background(), Auth{APIKey: "key"}, []string{"streamer"})
	require.NoError(t, err)
	require.Len(t, channels, 1)

	live := channels[0].(models.YouTubeChannel)
	require.Equal(t, "v1", live.VideoID)
	require.Equal(t, uint64(12), *live.ViewerCount)
	require.Equal(t, "streamer", live.ManualInputQuery)
}

func TestFetchLiveChannelsFallsBackToIDLookup(t *testing.T) {
	var channelCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/channels":
			channelCalls++
			if r.URL.Query().Get("id") == "UC9" {
				w.Write([]byte(`{"items":[{"id":"UC9","snippet":{"title":"ById"},"contentDetails":{"relatedPlaylists":{"uploads":"UU9"}}}]}`))
				return
			}
			w.Write([]byte(`{"items":[]}`))
		case "/youtube/v3/playlistItems":
			// livestream-only channel without an uploads playlist
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":404}}`))
		case "/youtube/v3/videos":
			t.Fatal("no candidates expected")
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv)

	channels, err := client.FetchLiveChannels(context.Background(), Auth{APIKey: "key"}, []string{"UC9"})
	require.NoError(t, err)
	require.Equal(t, 2, channelCalls) // forUsername miss, then id hit
	require.Len(t, channels, 1)
	require.Nil(t, channels[0].Viewers())

	// second cycle is served from the session cache
	_, err = client.FetchLiveChannels(context.Background(), Auth{APIKey: "key"}, []string{"UC9"})
	require.NoError(t, err)
	require.Equal(t, 2, channelCalls)
}

func TestFetchLiveChannelsSkipsUnresolvable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/channels":
			w.Write([]byte(`{"items":[]}`))
		case "/youtube/v3/videos":
			w.Write([]byte(`{"items":[]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv)

	channels, err := client.FetchLiveChannels(context.Background(), Auth{APIKey: "key"}, []string{"ghost"})
	require.NoError(t, err)
	require.Empty(t, channels)
}
