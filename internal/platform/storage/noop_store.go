package storage

import "context"

// NoopStore stands in when no persistence backend is available. Reads see
// an empty store and writes are dropped, so callers degrade to their
// default structures instead of failing.
type NoopStore struct{}

func (NoopStore) Read(context.Context, string) ([]byte, error) {
	return nil, ErrKeyNotFound
}

func (NoopStore) Write(context.Context, string, []byte) error {
	return nil
}

func (NoopStore) Delete(context.Context, string) error {
	return nil
}

func (NoopStore) Exists(context.Context, string) (bool, error) {
	return false, nil
}
