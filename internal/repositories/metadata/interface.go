package metadata

import (
	"context"
)

// Repository stores device-level settings such as the signing secret and
// the persisted login token.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	GetOrCreate(ctx context.Context, key string, create func() []byte) ([]byte, error)
}
