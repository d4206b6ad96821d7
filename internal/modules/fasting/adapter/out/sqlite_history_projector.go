package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"fastlog/internal/modules/fasting/domain"
	fastingout "fastlog/internal/modules/fasting/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryProjector indexes completed fasts for date-range queries.
// The JSON blobs remain the source of truth; this table can be rebuilt at
// any time with Reindex.
type SQLiteHistoryProjector struct {
	db *sql.DB
}

func NewSQLiteHistoryProjector(dbPath string) (fastingout.HistoryProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteHistoryProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (p *SQLiteHistoryProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS fasts (
  id TEXT NOT NULL,
  profile_id TEXT NOT NULL,
  start_time INTEGER NOT NULL,
  end_time INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL,
  notes TEXT,
  created_at INTEGER NOT NULL,
  PRIMARY KEY (profile_id, id)
);
CREATE INDEX IF NOT EXISTS idx_fasts_profile_start ON fasts (profile_id, start_time);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create fasts table: %w", err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) Upsert(ctx context.Context, fast domain.Fast) error {
	const stmt = `
INSERT INTO fasts (id, profile_id, start_time, end_time, duration_ms, notes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile_id, id) DO UPDATE SET
  start_time=excluded.start_time,
  end_time=excluded.end_time,
  duration_ms=excluded.duration_ms,
  notes=excluded.notes,
  created_at=excluded.created_at;
`
	_, err := p.db.ExecContext(ctx, stmt,
		fast.ID,
		fast.ProfileID,
		fast.StartTime,
		fast.EndTime,
		fast.Duration,
		fast.Notes,
		fast.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert fast: %w", err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) Delete(ctx context.Context, profileID, fastID string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM fasts WHERE profile_id = ? AND id = ?`, profileID, fastID); err != nil {
		return fmt.Errorf("delete fast: %w", err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) Reset(ctx context.Context, profileID string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM fasts WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("reset fasts: %w", err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) ListRange(ctx context.Context, profileID string, fromMs, toMs int64) ([]domain.Fast, error) {
	const query = `
SELECT id, profile_id, start_time, end_time, duration_ms, notes, created_at
FROM fasts
WHERE profile_id = ? AND start_time >= ? AND start_time <= ?
ORDER BY start_time DESC;
`
	rows, err := p.db.QueryContext(ctx, query, profileID, fromMs, toMs)
	if err != nil {
		return nil, fmt.Errorf("query fasts: %w", err)
	}
	defer rows.Close()

	fasts := []domain.Fast{}
	for rows.Next() {
		var fast domain.Fast
		var notes sql.NullString
		if err := rows.Scan(&fast.ID, &fast.ProfileID, &fast.StartTime, &fast.EndTime, &fast.Duration, &notes, &fast.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fast: %w", err)
		}
		fast.Notes = notes.String
		fasts = append(fasts, fast)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fasts: %w", err)
	}
	return fasts, nil
}
