package sessioncache

import "context"

// Repository is the device-local key/value store holding resumable study
// state. Values are opaque bytes; their encoding belongs to the caller.
type Repository interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	ListTopic(ctx context.Context, topicID int64) (map[Field][]byte, error)
	ClearTopic(ctx context.Context, topicID int64) error
}
