package twitch_client

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

var digitCheck = regexp.MustCompile(`^[0-9]+$`) // check if have only digits

// GetFollowedStreams pages through the live streams of channels the authed
// user follows. Manually added (non-followed) channels never appear here,
// they go through GetStreamsByIDs instead.
func (twc *TwitchClient) GetFollowedStreams(ctx context.Context, token, userID string) (streams []models.Stream, err error) {

	cursor := ""
	for {
		query := url.Values{}
		query.Add("user_id", userID)
		query.Add("first", strconv.Itoa(models.TwitchPageSize))
		if cursor != "" {
			query.Add("after", cursor)
		}

		readedResp, err := twc.helixGet(ctx, token, "/helix/streams/followed", query)
		if err != nil {
			return nil, errors.Wrap(err, "GetFollowedStreams")
		}

		var page models.Streams
		if err = jsoniter.Unmarshal(readedResp, &page); err != nil {
			return nil, errors.Wrap(err, "Unmarshal")
		}

		streams = append(streams, page.StreamInfo...)

		cursor = page.Pagination.Cursor
		if cursor == "" {
			break
		}
	}

	return streams, nil
}

// GetStreamsByIDs queries live-stream info for arbitrary channels in chunks
// of the Helix page size. Chunks fan out concurrently and join.
func (twc *TwitchClient) GetStreamsByIDs(ctx context.Context, token string, ids []string) (streams []models.Stream, err error) {

	chunks := chunkStrings(ids, models.TwitchPageSize)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()

			query := url.Values{}
			for _, id := range chunk {
				if digitCheck.MatchString(id) {
					query.Add("user_id", id)
					continue
				}
				query.Add("user_login", id)
			}

			readedResp, err := twc.helixGet(ctx, token, "/helix/streams", query)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			var page models.Streams
			if err = jsoniter.Unmarshal(readedResp, &page); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			streams = append(streams, page.StreamInfo...)
			mu.Unlock()
		}(chunk)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "GetStreamsByIDs")
	}

	return streams, nil
}
