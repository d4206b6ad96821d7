package out_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"fastlog/internal/modules/fasting/adapter/out"
	"fastlog/internal/modules/fasting/domain"
)

func seedFast(id, profileID string, startMs int64) domain.Fast {
	return domain.Fast{
		ID:        id,
		ProfileID: profileID,
		StartTime: startMs,
		EndTime:   startMs + 3600_000,
		Duration:  3600_000,
		CreatedAt: startMs,
	}
}

func TestProjectorListRangeOrdersNewestFirst(t *testing.T) {
	t.Parallel()
	projector, err := out.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	ctx := context.Background()
	for i, startMs := range []int64{1000, 3000, 2000} {
		if err := projector.Upsert(ctx, seedFast(string(rune('a'+i)), "user-1", startMs)); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	fasts, err := projector.ListRange(ctx, "user-1", 0, math.MaxInt64)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(fasts) != 3 || fasts[0].StartTime != 3000 || fasts[2].StartTime != 1000 {
		t.Fatalf("expected newest-first ordering, got %+v", fasts)
	}

	bounded, err := projector.ListRange(ctx, "user-1", 1500, 2500)
	if err != nil {
		t.Fatalf("bounded range: %v", err)
	}
	if len(bounded) != 1 || bounded[0].StartTime != 2000 {
		t.Fatalf("expected only the middle fast, got %+v", bounded)
	}
}

func TestProjectorUpsertOverwritesAndDeleteRemoves(t *testing.T) {
	t.Parallel()
	projector, err := out.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	ctx := context.Background()

	fast := seedFast("fast-1", "user-1", 1000)
	if err := projector.Upsert(ctx, fast); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	fast.Notes = "rewritten"
	fast.Duration = 7200_000
	if err := projector.Upsert(ctx, fast); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	fasts, err := projector.ListRange(ctx, "user-1", 0, math.MaxInt64)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(fasts) != 1 || fasts[0].Notes != "rewritten" || fasts[0].Duration != 7200_000 {
		t.Fatalf("upsert must overwrite in place, got %+v", fasts)
	}

	if err := projector.Delete(ctx, "user-1", "fast-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	fasts, err = projector.ListRange(ctx, "user-1", 0, math.MaxInt64)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(fasts) != 0 {
		t.Fatalf("expected empty index after delete, got %+v", fasts)
	}
}

func TestProjectorResetIsScopedToOneProfile(t *testing.T) {
	t.Parallel()
	projector, err := out.NewSQLiteHistoryProjector(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	ctx := context.Background()
	if err := projector.Upsert(ctx, seedFast("fast-1", "user-1", 1000)); err != nil {
		t.Fatalf("upsert user-1: %v", err)
	}
	if err := projector.Upsert(ctx, seedFast("fast-2", "user-2", 2000)); err != nil {
		t.Fatalf("upsert user-2: %v", err)
	}

	if err := projector.Reset(ctx, "user-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	mine, err := projector.ListRange(ctx, "user-1", 0, math.MaxInt64)
	if err != nil {
		t.Fatalf("list user-1: %v", err)
	}
	theirs, err := projector.ListRange(ctx, "user-2", 0, math.MaxInt64)
	if err != nil {
		t.Fatalf("list user-2: %v", err)
	}
	if len(mine) != 0 || len(theirs) != 1 {
		t.Fatalf("reset must only clear one profile: mine=%+v theirs=%+v", mine, theirs)
	}
}
