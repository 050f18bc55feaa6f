package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingestion_store.go -package=mocks docqa/internal/storage IngestionStore

import (
	"context"
	"database/sql"
	"fmt"
)

// IngestionStore is the ingestion log: one row per attempt plus the chunk sizes it stored.
type IngestionStore interface {
	// Record appends an attempt and its chunk lengths.
	Record(ctx context.Context, rec *IngestionRecord) error
	// Summary aggregates the latest attempt per source.
	Summary(ctx context.Context) (*IngestionSummary, error)
	// LatestChunkLengths returns the rune counts stored by the latest successful attempt per source.
	LatestChunkLengths(ctx context.Context) ([]int, error)
	// DeleteBySource forgets every attempt for source.
	DeleteBySource(ctx context.Context, source string) error
}

// IngestionRepo implements IngestionStore on SQLite.
type IngestionRepo struct {
	db *sql.DB
}

// NewIngestionRepo creates a new IngestionRepo.
func NewIngestionRepo(db *sql.DB) *IngestionRepo {
	return &IngestionRepo{db: db}
}

// latestPerSource selects the newest attempt id per source, ignoring failures.
const latestPerSource = `SELECT MAX(id) FROM ingestions WHERE status != 'failed' GROUP BY source`

// Record appends an attempt and its chunk lengths in one transaction.
// rec.ID is set on success.
func (r *IngestionRepo) Record(ctx context.Context, rec *IngestionRecord) error {
	if len(rec.ChunkIDs) != len(rec.ChunkLengths) {
		return fmt.Errorf("chunk ids (%d) and lengths (%d) differ", len(rec.ChunkIDs), len(rec.ChunkLengths))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // No-op after commit
	}()

	var errText sql.NullString
	if rec.Error != "" {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO ingestions (source, user_id, status, sections, skipped, chunks, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Source, rec.UserID, rec.Status, rec.Sections, rec.Skipped, rec.Chunks, rec.Duration.Milliseconds(), errText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ingestion id: %w", err)
	}

	if len(rec.ChunkLengths) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO ingestion_chunks (ingestion_id, chunk_id, rune_count) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare chunk insert: %w", err)
		}
		defer func() {
			_ = stmt.Close()
		}()

		for i, n := range rec.ChunkLengths {
			if _, err := stmt.ExecContext(ctx, id, rec.ChunkIDs[i], n); err != nil {
				return fmt.Errorf("failed to insert chunk length: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ingestion: %w", err)
	}

	rec.ID = id
	return nil
}

// Summary aggregates the latest attempt per source.
func (r *IngestionRepo) Summary(ctx context.Context) (*IngestionSummary, error) {
	var s IngestionSummary

	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'empty' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(chunks), 0)
		 FROM ingestions WHERE id IN (`+latestPerSource+`)`,
	).Scan(&s.DocsProcessed, &s.DocsWith0Chunks, &s.ChunksStored)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion summary: %w", err)
	}

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingestions WHERE status = 'failed'").Scan(&s.FailedAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to count failed ingestions: %w", err)
	}

	return &s, nil
}

// LatestChunkLengths returns the rune counts stored by the latest successful attempt per source.
func (r *IngestionRepo) LatestChunkLengths(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT rune_count FROM ingestion_chunks WHERE ingestion_id IN ("+latestPerSource+")",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk lengths: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var lengths []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan chunk length: %w", err)
		}
		lengths = append(lengths, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return lengths, nil
}

// DeleteBySource forgets every attempt for source. Chunk rows cascade.
func (r *IngestionRepo) DeleteBySource(ctx context.Context, source string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM ingestions WHERE source = ?", source); err != nil {
		return fmt.Errorf("failed to delete ingestions: %w", err)
	}
	return nil
}
