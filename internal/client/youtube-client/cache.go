package youtube_client

import (
	"sync"

	"stream_tab_watcher/internal/models"
)

// ChannelCache memoizes resolved channel metadata. Channel ids and uploads
// playlists are effectively immutable, so entries are valid for the whole
// process lifetime; a restart is the only invalidation.
type ChannelCache interface {
	Get(query string) (models.YoutubeChannelItem, bool)
	Put(query string, item models.YoutubeChannelItem)
}

// SessionCache is the default policy: grow for the session, never evict.
// Matches the original behavior; swap the interface to bound it.
type SessionCache struct {
	mu    sync.Mutex
	items map[string]models.YoutubeChannelItem
}

func NewSessionCache() *SessionCache {
	return &SessionCache{
		items: make(map[string]models.YoutubeChannelItem),
	}
}

func (c *SessionCache) Get(query string) (models.YoutubeChannelItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[query]
	return item, ok
}

func (c *SessionCache) Put(query string, item models.YoutubeChannelItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[query] = item
}
