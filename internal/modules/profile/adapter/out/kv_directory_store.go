package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fastlog/internal/modules/profile/domain"
	profileout "fastlog/internal/modules/profile/port/out"
	"fastlog/internal/platform/storage"
)

// KVDirectoryStore persists the profile directory as a single JSON blob.
type KVDirectoryStore struct {
	store storage.Store
}

func NewKVDirectoryStore(store storage.Store) profileout.DirectoryStore {
	return &KVDirectoryStore{store: store}
}

func (s *KVDirectoryStore) Load(ctx context.Context) (domain.Directory, error) {
	payload, err := s.store.Read(ctx, storage.DirectoryKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.EmptyDirectory(), nil
		}
		return domain.Directory{}, err
	}
	directory := domain.EmptyDirectory()
	if err := json.Unmarshal(payload, &directory); err != nil {
		// Corrupt directory blobs self-heal to empty; the bootstrap will
		// recreate a default profile on the next run.
		return domain.EmptyDirectory(), nil
	}
	if directory.Profiles == nil {
		directory.Profiles = []domain.Profile{}
	}
	return directory, nil
}

func (s *KVDirectoryStore) Save(ctx context.Context, directory domain.Directory) error {
	payload, err := json.MarshalIndent(directory, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile directory: %w", err)
	}
	if err := s.store.Write(ctx, storage.DirectoryKey, payload); err != nil {
		return fmt.Errorf("write profile directory: %w", err)
	}
	return nil
}
