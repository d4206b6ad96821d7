package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	fastingout "fastlog/internal/modules/fasting/adapter/out"
	fastingdto "fastlog/internal/modules/fasting/dto"
	fastingin "fastlog/internal/modules/fasting/port/in"
	"fastlog/internal/modules/fasting/service"
	"fastlog/internal/modules/fasting/usecase"
	profiledto "fastlog/internal/modules/profile/dto"
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

type fakeProfiles struct {
	activeID  string
	activeErr error
}

func (f *fakeProfiles) Create(context.Context, profiledto.CreateInput) (profiledto.Profile, error) {
	return profiledto.Profile{}, nil
}
func (f *fakeProfiles) List(context.Context) ([]profiledto.Profile, error) { return nil, nil }
func (f *fakeProfiles) Get(context.Context, string) (profiledto.Profile, error) {
	return profiledto.Profile{}, nil
}
func (f *fakeProfiles) Active(context.Context) (profiledto.Profile, error) {
	if f.activeErr != nil {
		return profiledto.Profile{}, f.activeErr
	}
	return profiledto.Profile{ID: f.activeID, Name: "Default", Active: true}, nil
}
func (f *fakeProfiles) SetActive(context.Context, string) error { return nil }
func (f *fakeProfiles) Update(context.Context, profiledto.UpdateInput) (profiledto.Profile, error) {
	return profiledto.Profile{}, nil
}
func (f *fakeProfiles) Delete(context.Context, string) error { return nil }
func (f *fakeProfiles) EnsureDefault(context.Context) (profiledto.Profile, error) {
	return profiledto.Profile{}, nil
}

func newInteractor(t *testing.T, clk *fakeClock, ids *fakeID, activeID string) fastingin.Usecase {
	t.Helper()
	dir := t.TempDir()
	projector, err := fastingout.NewSQLiteHistoryProjector(dir + "/index.db")
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	svc := service.NewFastingService(clk, ids, fastingout.NewKVLogStore(storage.NewFileStore(dir)), projector)
	return usecase.NewInteractor(svc, &fakeProfiles{activeID: activeID})
}

func TestFastLifecycleFiveHourScenario(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start, start.Add(5 * time.Hour)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	started, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"})
	if err != nil {
		t.Fatalf("start fast: %v", err)
	}
	if started.ID != "fast-1" || !started.StartedAt.Equal(start) {
		t.Fatalf("unexpected started fast: %+v", started)
	}

	current, err := uc.Current(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("current fast: %v", err)
	}
	if current.ID != "fast-1" || !current.EndedAt.IsZero() {
		t.Fatalf("expected in-progress fast, got %+v", current)
	}

	stopped, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1", Notes: "easy day"})
	if err != nil {
		t.Fatalf("stop fast: %v", err)
	}
	if stopped.Duration != 5*time.Hour {
		t.Fatalf("expected 5h duration, got %s", stopped.Duration)
	}
	if stopped.Notes != "easy day" {
		t.Fatalf("expected notes carried over, got %q", stopped.Notes)
	}

	if _, err := uc.Current(context.Background(), "user-1"); !errors.Is(err, apperrors.ErrNoActiveFast) {
		t.Fatalf("expected no active fast after stop, got %v", err)
	}

	history, err := uc.History(context.Background(), fastingdto.HistoryInput{ProfileID: "user-1"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != "fast-1" {
		t.Fatalf("expected one completed fast, got %+v", history)
	}

	stats, err := uc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalFasts != 1 || stats.TotalFastingTime != 5*time.Hour {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.AverageFastingTime != 5*time.Hour || stats.LongestFast != 5*time.Hour {
		t.Fatalf("unexpected derived stats: %+v", stats)
	}
}

func TestStartFailsWhileFastIsActive(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1", "fast-2"}}, "user-1")

	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); !errors.Is(err, apperrors.ErrFastAlreadyActive) {
		t.Fatalf("expected already-active error, got %v", err)
	}
}

func TestStopAndEditWithoutActiveFastFail(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	if _, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1"}); !errors.Is(err, apperrors.ErrNoActiveFast) {
		t.Fatalf("expected no-active error on stop, got %v", err)
	}
	if _, err := uc.EditStartTime(context.Background(), fastingdto.EditStartInput{ProfileID: "user-1", StartedAt: clk.Now()}); !errors.Is(err, apperrors.ErrNoActiveFast) {
		t.Fatalf("expected no-active error on edit, got %v", err)
	}
}

func TestStopWithCustomEndTime(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start, start.Add(20 * time.Hour)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	// I fell asleep; the fast really ended at 12:00 the next day.
	end := start.Add(16 * time.Hour)
	stopped, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1", EndedAt: &end})
	if err != nil {
		t.Fatalf("stop with custom end: %v", err)
	}
	if stopped.Duration != 16*time.Hour {
		t.Fatalf("expected 16h duration, got %s", stopped.Duration)
	}
}

func TestEditStartTimeMovesTheWindow(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start, start.Add(4 * time.Hour)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	moved := start.Add(-2 * time.Hour)
	edited, err := uc.EditStartTime(context.Background(), fastingdto.EditStartInput{ProfileID: "user-1", StartedAt: moved})
	if err != nil {
		t.Fatalf("edit start: %v", err)
	}
	if !edited.StartedAt.Equal(moved) {
		t.Fatalf("expected start %s, got %s", moved, edited.StartedAt)
	}
	stopped, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1"})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.Duration != 6*time.Hour {
		t.Fatalf("expected 6h after moving start back 2h, got %s", stopped.Duration)
	}
}

func TestDeleteKeepsAggregatesConsistent(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{
		start, start.Add(14 * time.Hour),
		start.Add(24 * time.Hour), start.Add(34 * time.Hour),
	}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1", "fast-2"}}, "user-1")

	for i := 0; i < 2; i++ {
		if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		if _, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1"}); err != nil {
			t.Fatalf("stop %d: %v", i, err)
		}
	}

	if err := uc.Delete(context.Background(), "user-1", "fast-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stats, err := uc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalFasts != 1 || stats.TotalFastingTime != 10*time.Hour {
		t.Fatalf("expected one 10h fast remaining, got %+v", stats)
	}
	if err := uc.Delete(context.Background(), "user-1", "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not-found for unknown fast, got %v", err)
	}
}

func TestHistoryRangeFiltersOnStartTime(t *testing.T) {
	t.Parallel()
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)
	clk := &fakeClock{values: []time.Time{
		day1, day1.Add(12 * time.Hour),
		day2, day2.Add(12 * time.Hour),
		day3, day3.Add(12 * time.Hour),
	}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1", "fast-2", "fast-3"}}, "user-1")

	for i := 0; i < 3; i++ {
		if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		if _, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1"}); err != nil {
			t.Fatalf("stop %d: %v", i, err)
		}
	}

	from := day2.Add(-time.Hour)
	to := day2.Add(time.Hour)
	fasts, err := uc.History(context.Background(), fastingdto.HistoryInput{ProfileID: "user-1", From: &from, To: &to})
	if err != nil {
		t.Fatalf("ranged history: %v", err)
	}
	if len(fasts) != 1 || fasts[0].ID != "fast-2" {
		t.Fatalf("expected only the middle fast, got %+v", fasts)
	}

	all, err := uc.History(context.Background(), fastingdto.HistoryInput{ProfileID: "user-1", From: &day1})
	if err != nil {
		t.Fatalf("open-ended history: %v", err)
	}
	if len(all) != 3 || all[0].ID != "fast-3" {
		t.Fatalf("expected all fasts newest first, got %+v", all)
	}
}

func TestExportImportRoundTripRestampsOwnership(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start, start.Add(18 * time.Hour)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	snapshot, err := uc.Export(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(snapshot.Payload), `"totalSessions": 1`) {
		t.Fatalf("export payload missing aggregates: %s", snapshot.Payload)
	}

	// Import the snapshot into a different profile on a fresh install.
	other := newInteractor(t, &fakeClock{values: []time.Time{start}}, &fakeID{values: []string{"x"}}, "user-2")
	out, err := other.Import(context.Background(), fastingdto.ImportInput{ProfileID: "user-2", Payload: snapshot.Payload})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.TotalFasts != 1 || out.InProgress {
		t.Fatalf("unexpected import result: %+v", out)
	}
	history, err := other.History(context.Background(), fastingdto.HistoryInput{ProfileID: "user-2"})
	if err != nil {
		t.Fatalf("history after import: %v", err)
	}
	if len(history) != 1 || history[0].ProfileID != "user-2" {
		t.Fatalf("expected imported fast re-stamped to user-2, got %+v", history)
	}
}

func TestImportRejectsMalformedSnapshotWithoutMutation(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start, start.Add(12 * time.Hour)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("stop: %v", err)
	}

	for _, payload := range []string{
		"{not json",
		`{"currentSession":null,"sessions":[],"totalSessions":0,"totalFastingTime":0,"bogus":1}`,
	} {
		if _, err := uc.Import(context.Background(), fastingdto.ImportInput{ProfileID: "user-1", Payload: []byte(payload)}); !errors.Is(err, apperrors.ErrMalformedSnapshot) {
			t.Fatalf("expected malformed-snapshot error for %q, got %v", payload, err)
		}
	}

	history, err := uc.History(context.Background(), fastingdto.HistoryInput{ProfileID: "user-1"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("failed import must not mutate the log, got %+v", history)
	}
}

func TestProfilesDoNotSeeEachOthersFasts(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start, start.Add(8 * time.Hour)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Current(context.Background(), "user-2"); !errors.Is(err, apperrors.ErrNoActiveFast) {
		t.Fatalf("expected user-2 to have no active fast, got %v", err)
	}
	history, err := uc.History(context.Background(), fastingdto.HistoryInput{ProfileID: "user-2"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history for user-2, got %+v", history)
	}
}

func TestEmptyProfileIDResolvesToActiveProfile(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-active")

	started, err := uc.Start(context.Background(), fastingdto.StartInput{})
	if err != nil {
		t.Fatalf("start with empty profile id: %v", err)
	}
	if started.ProfileID != "user-active" {
		t.Fatalf("expected fast owned by active profile, got %q", started.ProfileID)
	}
}

func TestClearWipesLogAndIndex(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{start, start.Add(10 * time.Hour)}}
	uc := newInteractor(t, clk, &fakeID{values: []string{"fast-1"}}, "user-1")

	if _, err := uc.Start(context.Background(), fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Stop(context.Background(), fastingdto.StopInput{ProfileID: "user-1"}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := uc.Clear(context.Background(), "user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	stats, err := uc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("stats after clear: %v", err)
	}
	if stats.TotalFasts != 0 || stats.TotalFastingTime != 0 {
		t.Fatalf("expected empty stats after clear, got %+v", stats)
	}
	from := start.Add(-time.Hour)
	ranged, err := uc.History(context.Background(), fastingdto.HistoryInput{ProfileID: "user-1", From: &from})
	if err != nil {
		t.Fatalf("ranged history after clear: %v", err)
	}
	if len(ranged) != 0 {
		t.Fatalf("expected empty index after clear, got %+v", ranged)
	}
}

func TestReindexRebuildsTheHistoryIndex(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	clk := &fakeClock{values: []time.Time{
		start, start.Add(12 * time.Hour),
		start.Add(24 * time.Hour), start.Add(34 * time.Hour),
	}}
	dir := t.TempDir()
	projector, err := fastingout.NewSQLiteHistoryProjector(dir + "/index.db")
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	svc := service.NewFastingService(clk, &fakeID{values: []string{"fast-1", "fast-2"}},
		fastingout.NewKVLogStore(storage.NewFileStore(dir)), projector)
	uc := usecase.NewInteractor(svc, &fakeProfiles{activeID: "user-1"})
	ctx := context.Background()

	for range 2 {
		if _, err := uc.Start(ctx, fastingdto.StartInput{ProfileID: "user-1"}); err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := uc.Stop(ctx, fastingdto.StopInput{ProfileID: "user-1"}); err != nil {
			t.Fatalf("stop: %v", err)
		}
	}
	before, err := uc.History(ctx, fastingdto.HistoryInput{ProfileID: "user-1"})
	if err != nil {
		t.Fatalf("history before: %v", err)
	}
	if len(before) != 2 {
		t.Fatalf("expected two completed fasts, got %+v", before)
	}

	// Simulate a lost index; the JSON log remains the source of truth.
	if err := projector.Reset(ctx, "user-1"); err != nil {
		t.Fatalf("reset projector: %v", err)
	}
	if err := uc.Reindex(ctx, "user-1"); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	after, err := uc.History(ctx, fastingdto.HistoryInput{ProfileID: "user-1"})
	if err != nil {
		t.Fatalf("history after: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("reindex must restore the full index: %d vs %d", len(after), len(before))
	}
	for i := range after {
		if after[i].ID != before[i].ID || !after[i].StartedAt.Equal(before[i].StartedAt) {
			t.Fatalf("rebuilt index diverges at %d: %+v vs %+v", i, after[i], before[i])
		}
	}
}
