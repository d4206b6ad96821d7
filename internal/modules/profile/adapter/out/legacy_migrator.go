package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	profileout "fastlog/internal/modules/profile/port/out"
	"fastlog/internal/platform/storage"
)

// KVLegacyMigrator moves the pre-profile fasting blob under a profile's
// namespaced key. It works on the raw JSON shape rather than typed records:
// the legacy blob predates the current modules and only needs its sessions
// stamped with the adopting profile's id.
type KVLegacyMigrator struct {
	store storage.Store
}

func NewKVLegacyMigrator(store storage.Store) profileout.LegacyMigrator {
	return &KVLegacyMigrator{store: store}
}

func (m *KVLegacyMigrator) Migrate(ctx context.Context, profileID string) (bool, error) {
	targetExists, err := m.store.Exists(ctx, storage.LogKey(profileID))
	if err != nil {
		return false, err
	}
	payload, err := m.store.Read(ctx, storage.LegacyLogKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if targetExists {
		// An earlier run already wrote the namespaced blob but crashed
		// before removing the legacy key; finish the cleanup only.
		if err := m.store.Delete(ctx, storage.LegacyLogKey); err != nil {
			return false, err
		}
		return false, nil
	}

	var blob map[string]json.RawMessage
	if err := json.Unmarshal(payload, &blob); err != nil {
		// Nothing usable to adopt; drop the corrupt legacy blob so the
		// migration does not retry forever.
		if err := m.store.Delete(ctx, storage.LegacyLogKey); err != nil {
			return false, err
		}
		return false, nil
	}
	stamped, err := stampOwner(blob, profileID)
	if err != nil {
		return false, fmt.Errorf("stamp legacy sessions: %w", err)
	}
	if err := m.store.Write(ctx, storage.LogKey(profileID), stamped); err != nil {
		return false, err
	}
	if err := m.store.Delete(ctx, storage.LegacyLogKey); err != nil {
		return false, err
	}
	return true, nil
}

// stampOwner sets userId on the in-progress session and every completed
// session in the legacy blob, leaving all other fields untouched.
func stampOwner(blob map[string]json.RawMessage, profileID string) ([]byte, error) {
	if raw, ok := blob["currentSession"]; ok && string(raw) != "null" {
		var session map[string]any
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, err
		}
		session["userId"] = profileID
		stamped, err := json.Marshal(session)
		if err != nil {
			return nil, err
		}
		blob["currentSession"] = stamped
	}
	if raw, ok := blob["sessions"]; ok {
		var sessions []map[string]any
		if err := json.Unmarshal(raw, &sessions); err != nil {
			return nil, err
		}
		for i := range sessions {
			sessions[i]["userId"] = profileID
		}
		stamped, err := json.Marshal(sessions)
		if err != nil {
			return nil, err
		}
		blob["sessions"] = stamped
	}
	return json.MarshalIndent(blob, "", "  ")
}
