package twitch_client

import (
	"context"
	"net/url"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"stream_tab_watcher/internal/models"
)

// GetUserInfo bulk-fetches profile metadata for the given ids/logins in
// chunks of the Helix page size. The endpoint silently omits unknown users.
func (twc *TwitchClient) GetUserInfo(ctx context.Context, token string, ids []string) (users []models.TwitchUserInfo, err error) {

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
					query.Add("id", id)
					continue
				}
				query.Add("login", id)
			}

			readedResp, err := twc.helixGet(ctx, token, "/helix/users", query)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			var page models.GetUserInfoResponse
			if err = jsoniter.Unmarshal(readedResp, &page); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			users = append(users, page.Data...)
			mu.Unlock()
		}(chunk)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, errors.Wrap(firstErr, "GetUserInfo")
	}

	return users, nil
}
