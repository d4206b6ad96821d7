package out_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	profileout "fastlog/internal/modules/profile/adapter/out"
	"fastlog/internal/platform/storage"
)

func TestMigrateNoLegacyBlobIsANoop(t *testing.T) {
	t.Parallel()
	store := storage.NewFileStore(t.TempDir())
	migrator := profileout.NewKVLegacyMigrator(store)

	migrated, err := migrator.Migrate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if migrated {
		t.Fatal("expected no migration without a legacy blob")
	}
}

func TestMigrateStampsSessionsWithNewOwner(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := storage.NewFileStore(dir)
	legacy := `{
  "currentSession": {"id": "fast-live", "startTime": 5000, "userId": ""},
  "sessions": [
    {"id": "fast-1", "startTime": 1000, "endTime": 2000, "duration": 1000, "userId": ""},
    {"id": "fast-2", "startTime": 3000, "endTime": 4000, "duration": 1000, "userId": ""}
  ],
  "totalSessions": 2,
  "totalFastingTime": 2000
}`
	if err := store.Write(context.Background(), storage.LegacyLogKey, []byte(legacy)); err != nil {
		t.Fatalf("seed legacy blob: %v", err)
	}

	migrated, err := profileout.NewKVLegacyMigrator(store).Migrate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !migrated {
		t.Fatal("expected migration to report adopted data")
	}

	payload, err := os.ReadFile(filepath.Join(dir, "fasting-user-1.json"))
	if err != nil {
		t.Fatalf("read namespaced blob: %v", err)
	}
	var blob struct {
		Current *struct {
			UserID string `json:"userId"`
		} `json:"currentSession"`
		Sessions []struct {
			ID     string `json:"id"`
			UserID string `json:"userId"`
		} `json:"sessions"`
		TotalSessions int `json:"totalSessions"`
	}
	if err := json.Unmarshal(payload, &blob); err != nil {
		t.Fatalf("decode namespaced blob: %v", err)
	}
	if blob.Current == nil || blob.Current.UserID != "user-1" {
		t.Fatalf("expected in-progress session stamped, got %+v", blob.Current)
	}
	for _, session := range blob.Sessions {
		if session.UserID != "user-1" {
			t.Fatalf("expected session %s stamped with user-1, got %q", session.ID, session.UserID)
		}
	}
	if blob.TotalSessions != 2 {
		t.Fatalf("aggregates must survive migration, got %+v", blob)
	}
	if _, err := os.Stat(filepath.Join(dir, "fasting.json")); !os.IsNotExist(err) {
		t.Fatalf("legacy blob must be removed, got %v", err)
	}
}

func TestMigrateFinishesInterruptedCleanup(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := storage.NewFileStore(dir)
	ctx := context.Background()
	if err := store.Write(ctx, storage.LogKey("user-1"), []byte(`{"sessions": []}`)); err != nil {
		t.Fatalf("seed namespaced blob: %v", err)
	}
	if err := store.Write(ctx, storage.LegacyLogKey, []byte(`{"sessions": [{"id": "stale"}]}`)); err != nil {
		t.Fatalf("seed legacy blob: %v", err)
	}

	migrated, err := profileout.NewKVLegacyMigrator(store).Migrate(ctx, "user-1")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if migrated {
		t.Fatal("expected cleanup only, not a fresh migration")
	}

	payload, err := os.ReadFile(filepath.Join(dir, "fasting-user-1.json"))
	if err != nil {
		t.Fatalf("read namespaced blob: %v", err)
	}
	if string(payload) != `{"sessions": []}` {
		t.Fatalf("existing namespaced blob must not be overwritten, got %s", payload)
	}
	if _, err := os.Stat(filepath.Join(dir, "fasting.json")); !os.IsNotExist(err) {
		t.Fatalf("legacy blob must be removed, got %v", err)
	}
}

func TestMigrateDropsCorruptLegacyBlob(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := storage.NewFileStore(dir)
	ctx := context.Background()
	if err := store.Write(ctx, storage.LegacyLogKey, []byte("{{{not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	migrated, err := profileout.NewKVLegacyMigrator(store).Migrate(ctx, "user-1")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if migrated {
		t.Fatal("corrupt legacy data must not be adopted")
	}
	if _, err := os.Stat(filepath.Join(dir, "fasting.json")); !os.IsNotExist(err) {
		t.Fatalf("corrupt legacy blob must be dropped, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "fasting-user-1.json")); !os.IsNotExist(err) {
		t.Fatalf("no namespaced blob should be written, got %v", err)
	}
}
