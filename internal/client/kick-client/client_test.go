package kick_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchLiveChannelsToleratesPerChannelFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/channels/good":
			w.Write([]byte(`{"user":{"username":"good","profile_pic":"pic"},"livestream":{"session_title":"hi","viewer_count":9,"categories":[{"name":"IRL"}]}}`))
		case "/api/v2/channels/gone":
			w.WriteHeader(http.StatusNotFound)
		case "/api/v2/channels/sleeping":
			w.Write([]byte(`{"user":{"username":"sleeping"},"livestream":null}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := &KickClient{apiSchemeHost: srv.URL}

	channels := client.FetchLiveChannels(context.Background(), []string{"good", "gone", "sleeping"})
	require.Len(t, channels, 2)

	require.Equal(t, "good", channels[0].Key())
	require.Equal(t, uint64(9), *channels[0].Viewers())

	require.Equal(t, "sleeping", channels[1].Key())
	require.Nil(t, channels[1].Viewers())
}
