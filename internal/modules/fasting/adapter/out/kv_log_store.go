package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fastlog/internal/modules/fasting/domain"
	fastingout "fastlog/internal/modules/fasting/port/out"
	"fastlog/internal/platform/storage"
)

// KVLogStore persists each profile's log as one JSON blob under its
// namespaced key.
type KVLogStore struct {
	store storage.Store
}

func NewKVLogStore(store storage.Store) fastingout.LogStore {
	return &KVLogStore{store: store}
}

func (s *KVLogStore) Load(ctx context.Context, profileID string) (domain.Log, error) {
	payload, err := s.store.Read(ctx, storage.LogKey(profileID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.EmptyLog(), nil
		}
		return domain.Log{}, err
	}
	log := domain.EmptyLog()
	if err := json.Unmarshal(payload, &log); err != nil {
		// A corrupt blob must not take the app down; the read self-heals
		// to the empty log and the next write replaces the blob.
		return domain.EmptyLog(), nil
	}
	if log.Fasts == nil {
		log.Fasts = []domain.Fast{}
	}
	return log, nil
}

func (s *KVLogStore) Save(ctx context.Context, profileID string, log domain.Log) error {
	payload, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fasting log: %w", err)
	}
	if err := s.store.Write(ctx, storage.LogKey(profileID), payload); err != nil {
		return fmt.Errorf("write fasting log: %w", err)
	}
	return nil
}

func (s *KVLogStore) Clear(ctx context.Context, profileID string) error {
	if err := s.store.Delete(ctx, storage.LogKey(profileID)); err != nil {
		return fmt.Errorf("clear fasting log: %w", err)
	}
	return nil
}
