package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const localKeyPrefix = "watcher:"

// Local is the device-only scope, backed by Redis: the cached channel
// snapshot, the durable poll alarm and the subscription cache. Values are
// stored without TTL; the snapshot is overwritten wholesale every cycle.
type Local struct {
	client   *redis.Client
	defaults map[string]json.RawMessage
	hub      hub
}

func NewLocal(client *redis.Client, defaults map[string]json.RawMessage) *Local {
	return &Local{
		client:   client,
		defaults: defaults,
	}
}

func (l *Local) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, localKeyPrefix+key)
	}

	raw, err := l.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "MGet")
	}

	values := make(map[string]json.RawMessage, len(keys))
	for i, value := range raw {
		text, ok := value.(string)
		if !ok {
			continue // absent key
		}
		values[keys[i]] = json.RawMessage(text)
	}

	return mergeDefaults(values, l.defaults, keys), nil
}

func (l *Local) Set(ctx context.Context, values map[string]json.RawMessage) error {
	for key, value := range values {
		err := l.client.Set(ctx, localKeyPrefix+key, []byte(value), 0).Err()
		if err != nil {
			return errors.Wrap(err, "Set")
		}

		l.hub.notify(Change{Key: key, NewValue: value})
	}

	return nil
}

func (l *Local) Subscribe(fn func(Change)) func() {
	return l.hub.subscribe(fn)
}
