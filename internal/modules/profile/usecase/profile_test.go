package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	profileout "fastlog/internal/modules/profile/adapter/out"
	profiledto "fastlog/internal/modules/profile/dto"
	profilein "fastlog/internal/modules/profile/port/in"
	"fastlog/internal/modules/profile/service"
	"fastlog/internal/modules/profile/usecase"
	apperrors "fastlog/internal/platform/errors"
	"fastlog/internal/platform/storage"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct {
	values []string
	idx    int
}

func (f *fakeID) New() string {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

func newInteractor(dir string, ids *fakeID) profilein.Usecase {
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}}
	store := storage.NewFileStore(dir)
	svc := service.NewProfileService(clk, ids, profileout.NewKVDirectoryStore(store), profileout.NewKVLegacyMigrator(store))
	return usecase.NewInteractor(svc)
}

func TestFirstProfileBecomesActive(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t.TempDir(), &fakeID{values: []string{"user-1", "user-2"}})

	first, err := uc.Create(context.Background(), profiledto.CreateInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if !first.Active {
		t.Fatalf("first profile must become active, got %+v", first)
	}
	second, err := uc.Create(context.Background(), profiledto.CreateInput{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.Active {
		t.Fatalf("second profile must not steal the active slot, got %+v", second)
	}
	active, err := uc.Active(context.Background())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != "user-1" {
		t.Fatalf("expected user-1 active, got %+v", active)
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t.TempDir(), &fakeID{values: []string{"user-1"}})
	if _, err := uc.Create(context.Background(), profiledto.CreateInput{Name: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
}

func TestSetActiveUnknownProfileFails(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t.TempDir(), &fakeID{values: []string{"user-1"}})
	if _, err := uc.Create(context.Background(), profiledto.CreateInput{Name: "Alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := uc.SetActive(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t.TempDir(), &fakeID{values: []string{"user-1"}})
	if _, err := uc.Create(context.Background(), profiledto.CreateInput{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	email := "new@example.com"
	updated, err := uc.Update(context.Background(), profiledto.UpdateInput{ID: "user-1", Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Alice" || updated.Email != "new@example.com" {
		t.Fatalf("expected email-only merge, got %+v", updated)
	}

	blank := "  "
	if _, err := uc.Update(context.Background(), profiledto.UpdateInput{ID: "user-1", Name: &blank}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid-input for blank name, got %v", err)
	}
	name := "Alicia"
	if _, err := uc.Update(context.Background(), profiledto.UpdateInput{ID: "ghost", Name: &name}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not-found for unknown id, got %v", err)
	}
}

func TestDeleteActiveProfileAdoptsFirstRemaining(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t.TempDir(), &fakeID{values: []string{"user-1", "user-2"}})
	if _, err := uc.Create(context.Background(), profiledto.CreateInput{Name: "Alice"}); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := uc.Create(context.Background(), profiledto.CreateInput{Name: "Bob"}); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	if err := uc.Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("delete active: %v", err)
	}
	active, err := uc.Active(context.Background())
	if err != nil {
		t.Fatalf("active after delete: %v", err)
	}
	if active.ID != "user-2" {
		t.Fatalf("expected bob adopted as active, got %+v", active)
	}

	if err := uc.Delete(context.Background(), "user-2"); err != nil {
		t.Fatalf("delete last: %v", err)
	}
	if _, err := uc.Active(context.Background()); !errors.Is(err, apperrors.ErrNoActiveProfile) {
		t.Fatalf("expected no-active-profile after emptying directory, got %v", err)
	}
}

func TestEnsureDefaultSeedsDirectoryAndAdoptsLegacyData(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	legacy := map[string]any{
		"currentSession": nil,
		"sessions": []map[string]any{
			{"id": "fast-old", "startTime": 1000, "endTime": 2000, "duration": 1000, "createdAt": 1000, "userId": ""},
		},
		"totalSessions":    1,
		"totalFastingTime": 1000,
	}
	payload, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy blob: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fasting.json"), payload, 0o644); err != nil {
		t.Fatalf("seed legacy blob: %v", err)
	}

	uc := newInteractor(dir, &fakeID{values: []string{"user-default"}})
	profile, err := uc.EnsureDefault(context.Background())
	if err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if profile.Name != "Default" || !profile.Active {
		t.Fatalf("expected active default profile, got %+v", profile)
	}

	migrated, err := os.ReadFile(filepath.Join(dir, "fasting-user-default.json"))
	if err != nil {
		t.Fatalf("expected namespaced log after migration: %v", err)
	}
	var blob struct {
		Sessions []struct {
			ID     string `json:"id"`
			UserID string `json:"userId"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(migrated, &blob); err != nil {
		t.Fatalf("decode migrated blob: %v", err)
	}
	if len(blob.Sessions) != 1 || blob.Sessions[0].UserID != "user-default" {
		t.Fatalf("expected legacy sessions stamped with new owner, got %+v", blob)
	}
	if _, err := os.Stat(filepath.Join(dir, "fasting.json")); !os.IsNotExist(err) {
		t.Fatalf("legacy blob must be removed after adoption, got %v", err)
	}

	// A second run is a no-op: same profile back, no duplicates.
	again, err := uc.EnsureDefault(context.Background())
	if err != nil {
		t.Fatalf("second ensure default: %v", err)
	}
	if again.ID != profile.ID {
		t.Fatalf("ensure default must be idempotent, got %+v vs %+v", again, profile)
	}
	profiles, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected one profile after repeated bootstrap, got %+v", profiles)
	}
}

func TestEnsureDefaultHealsDanglingActiveReference(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	directory := map[string]any{
		"users": []map[string]any{
			{"id": "user-1", "name": "Alice", "createdAt": 1000, "isActive": false},
		},
		"activeUserId": "ghost",
	}
	payload, err := json.Marshal(directory)
	if err != nil {
		t.Fatalf("marshal directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profiles.json"), payload, 0o644); err != nil {
		t.Fatalf("seed directory: %v", err)
	}

	uc := newInteractor(dir, &fakeID{values: []string{"unused"}})
	profile, err := uc.EnsureDefault(context.Background())
	if err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if profile.ID != "user-1" {
		t.Fatalf("expected first profile adopted for dangling active, got %+v", profile)
	}
	active, err := uc.Active(context.Background())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != "user-1" {
		t.Fatalf("expected healed active selection, got %+v", active)
	}
}
