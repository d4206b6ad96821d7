package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pluginout "fastlog/internal/modules/plugin/adapter/out"
)

func seedManifests(t *testing.T, payload string) string {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "plugins")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir plugins: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugins.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	return base
}

func TestLoadMissingManifestFileReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := pluginout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifest set, got %+v", manifests)
	}
}

func TestLoadResolvesRelativeBinaryPaths(t *testing.T) {
	t.Parallel()
	sum := strings.Repeat("ab", 32)
	base := seedManifests(t, `[
  {"name": "reference", "version": "1.0.0", "binary": "plugins/reference", "sha256": "`+sum+`", "enabled": true, "capabilities": ["reference"]},
  {"name": "absolute", "version": "1.0.0", "binary": "/opt/absolute", "sha256": "`+sum+`", "enabled": false, "capabilities": ["command"]}
]`)

	manifests, err := pluginout.NewFileManifestStore(base).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("expected two manifests, got %+v", manifests)
	}
	if want := filepath.Join(base, "plugins", "reference"); manifests[0].Binary != want {
		t.Fatalf("relative binary not anchored to the store: got %q want %q", manifests[0].Binary, want)
	}
	if manifests[1].Binary != "/opt/absolute" {
		t.Fatalf("absolute binary must pass through untouched, got %q", manifests[1].Binary)
	}
}

func TestLoadRejectsUnknownManifestFields(t *testing.T) {
	t.Parallel()
	base := seedManifests(t, `[{"name": "reference", "surprise": true}]`)
	if _, err := pluginout.NewFileManifestStore(base).Load(context.Background()); err == nil {
		t.Fatal("expected a decode error for unknown fields")
	}
}
