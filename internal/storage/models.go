package storage

import "time"

// Ingestion statuses recorded in the ingestions table.
const (
	IngestionOK     = "ok"
	IngestionEmpty  = "empty"
	IngestionFailed = "failed"
)

// MemoryRecord is one long-term fact about a user.
type MemoryRecord struct {
	ID        string // UUID
	UserID    string
	Text      string
	CreatedAt time.Time
}

// IngestionRecord is one ingestion attempt of a document.
type IngestionRecord struct {
	ID           int64
	Source       string // Document display name
	UserID       string // Visibility scope the chunks were written with
	Status       string // IngestionOK, IngestionEmpty or IngestionFailed
	Sections     int
	Skipped      int // Sub-texts dropped as too short
	Chunks       int // Chunks written to the vector store
	Duration     time.Duration
	Error        string
	ChunkIDs     []string // Parallel to ChunkLengths
	ChunkLengths []int    // Rune count per stored chunk
	CreatedAt    time.Time
}

// IngestionSummary aggregates the latest attempt per source.
type IngestionSummary struct {
	DocsProcessed   int // Sources whose latest attempt succeeded (ok or empty)
	DocsWith0Chunks int // Sources whose latest attempt produced no chunks
	ChunksStored    int // Chunks written by the latest successful attempt per source
	FailedAttempts  int // All failed attempts
}
