package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("storage key not found")

// Store is a synchronous key-value store of serialized blobs, one blob per
// key. There is no transaction spanning keys; callers do read-modify-write
// on a single key and the last writer wins.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
