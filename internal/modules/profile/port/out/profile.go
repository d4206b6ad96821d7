package out

import (
	"context"

	"fastlog/internal/modules/profile/domain"
)

// DirectoryStore owns the single persisted profile directory blob. Load
// returns the empty directory when nothing is stored or the blob is
// corrupt.
type DirectoryStore interface {
	Load(ctx context.Context) (domain.Directory, error)
	Save(ctx context.Context, directory domain.Directory) error
}

// LegacyMigrator adopts pre-profile fasting data into a profile's
// namespace. It must be idempotent: it acts only when the legacy blob still
// exists and the target namespace is empty, so a run interrupted between
// the two writes heals on the next call.
type LegacyMigrator interface {
	Migrate(ctx context.Context, profileID string) (bool, error)
}
