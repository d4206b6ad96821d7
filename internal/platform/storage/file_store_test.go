package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fastlog/internal/platform/storage"
)

func TestReadMissingKeyReturnsSentinel(t *testing.T) {
	t.Parallel()
	store := storage.NewFileStore(t.TempDir())
	if _, err := store.Read(context.Background(), "absent.json"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestWriteReadDeleteRoundTrip(t *testing.T) {
	t.Parallel()
	store := storage.NewFileStore(t.TempDir())
	ctx := context.Background()

	if err := store.Write(ctx, "blob.json", []byte(`{"ok": true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	exists, err := store.Exists(ctx, "blob.json")
	if err != nil || !exists {
		t.Fatalf("expected key to exist, got %v %v", exists, err)
	}
	payload, err := store.Read(ctx, "blob.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(payload) != `{"ok": true}` {
		t.Fatalf("payload round trip mismatch: %s", payload)
	}

	if err := store.Delete(ctx, "blob.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	exists, err = store.Exists(ctx, "blob.json")
	if err != nil || exists {
		t.Fatalf("expected key gone, got %v %v", exists, err)
	}
}

func TestDeleteMissingKeyIsANoop(t *testing.T) {
	t.Parallel()
	store := storage.NewFileStore(t.TempDir())
	if err := store.Delete(context.Background(), "absent.json"); err != nil {
		t.Fatalf("delete of a missing key must not fail: %v", err)
	}
}

func TestWriteCreatesBaseDirectory(t *testing.T) {
	t.Parallel()
	base := filepath.Join(t.TempDir(), ".fastlog")
	store := storage.NewFileStore(base)
	if err := store.Write(context.Background(), "blob.json", []byte("{}")); err != nil {
		t.Fatalf("write into missing base dir: %v", err)
	}
	payload, err := store.Read(context.Background(), "blob.json")
	if err != nil || string(payload) != "{}" {
		t.Fatalf("read back: %s %v", payload, err)
	}
}
