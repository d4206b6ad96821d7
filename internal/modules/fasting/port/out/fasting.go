package out

import (
	"context"

	"fastlog/internal/modules/fasting/domain"
)

// LogStore owns one JSON blob per profile. Load returns the empty Log when
// the profile has no data yet; it must also self-heal a corrupt blob to the
// empty Log instead of failing the read.
type LogStore interface {
	Load(ctx context.Context, profileID string) (domain.Log, error)
	Save(ctx context.Context, profileID string, log domain.Log) error
	Clear(ctx context.Context, profileID string) error
}

// HistoryProjector is a derived read index over completed fasts. It is
// best-effort and fully rebuildable from the log store.
type HistoryProjector interface {
	Upsert(ctx context.Context, fast domain.Fast) error
	Delete(ctx context.Context, profileID, fastID string) error
	Reset(ctx context.Context, profileID string) error
	ListRange(ctx context.Context, profileID string, fromMs, toMs int64) ([]domain.Fast, error)
}
