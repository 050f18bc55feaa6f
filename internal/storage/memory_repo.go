package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_memory_store.go -package=mocks docqa/internal/storage MemoryStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MemoryStore defines the per-user fact store used to personalise answers.
type MemoryStore interface {
	// Add stores a fact for userID.
	Add(ctx context.Context, text, userID string) error
	// GetAll returns every fact for userID, oldest first.
	GetAll(ctx context.Context, userID string) ([]MemoryRecord, error)
}

// MemoryRepo provides methods for memory operations.
// It implements the MemoryStore interface.
type MemoryRepo struct {
	db *sql.DB
}

// NewMemoryRepo creates a new MemoryRepo.
func NewMemoryRepo(db *sql.DB) *MemoryRepo {
	return &MemoryRepo{db: db}
}

// Add stores a fact for userID.
func (r *MemoryRepo) Add(ctx context.Context, text, userID string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("memory text is required")
	}
	if userID == "" {
		return errors.New("memory user id is required")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO memories (id, user_id, text) VALUES (?, ?, ?)",
		uuid.New().String(), userID, text,
	)
	if err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}
	return nil
}

// GetAll returns every fact for userID, oldest first.
func (r *MemoryRepo) GetAll(ctx context.Context, userID string) ([]MemoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, text, created_at FROM memories WHERE user_id = ? ORDER BY created_at, rowid",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []MemoryRecord
	for rows.Next() {
		var rec MemoryRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
