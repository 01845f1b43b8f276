package contracts

import (
	"context"
	"time"
)

type BlobCacheRepository interface {
	Set(ctx context.Context, key string, value []byte, exp time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
}
