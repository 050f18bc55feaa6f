package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_converter.go -package=mocks docqa/internal/indexer Converter
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks docqa/internal/indexer ChunkStore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"
	"unicode/utf8"

	"docqa/internal/contextutil"
	"docqa/internal/storage"
	"docqa/internal/vault"
)

// Converter turns a file on disk into Markdown text.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// ChunkStore persists chunks into the vector index.
type ChunkStore interface {
	// EnsureCollection creates the backing collection when it is absent.
	EnsureCollection(ctx context.Context) error
	// Add embeds and stores chunks, returning how many were written before any failure.
	Add(ctx context.Context, chunks []Chunk) (int, error)
}

// Pipeline drives one document from disk to the vector index:
// convert, build chunks, ensure the collection, store. Every attempt is
// recorded in the ingestion log.
type Pipeline struct {
	converter  Converter
	builder    *ChunkBuilder
	store      ChunkStore
	ingestions storage.IngestionStore
	accept     func(path string) bool
}

// NewPipeline creates a new ingestion pipeline. accept filters files during
// directory ingestion.
func NewPipeline(
	converter Converter,
	builder *ChunkBuilder,
	store ChunkStore,
	ingestions storage.IngestionStore,
	accept func(path string) bool,
) *Pipeline {
	return &Pipeline{
		converter:  converter,
		builder:    builder,
		store:      store,
		ingestions: ingestions,
		accept:     accept,
	}
}

// Ingest converts, chunks and stores the file at filePath with visibility userID.
// The document is named originalFilename, or the base name of filePath when empty.
// It returns the number of chunks stored. A document that yields no chunks is not
// an error. Conversion failures are returned before anything is written.
func (p *Pipeline) Ingest(ctx context.Context, filePath, userID, originalFilename string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	source := originalFilename
	if source == "" {
		source = filepath.Base(filePath)
	}

	start := time.Now()
	rec := &storage.IngestionRecord{Source: source, UserID: userID}

	markdown, err := p.converter.Convert(ctx, filePath)
	if err != nil {
		p.record(ctx, rec, start, err)
		return 0, fmt.Errorf("failed to convert %s: %w", source, err)
	}

	chunks, stats := p.builder.BuildWithStats(ctx, Document{Content: markdown, SourceName: source}, userID)
	rec.Sections = stats.Sections
	rec.Skipped = stats.Skipped

	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "source", source, "sections", stats.Sections, "skipped", stats.Skipped)
		p.record(ctx, rec, start, nil)
		return 0, nil
	}

	if err := p.store.EnsureCollection(ctx); err != nil {
		p.record(ctx, rec, start, err)
		return 0, fmt.Errorf("failed to ensure collection: %w", err)
	}

	stored, err := p.store.Add(ctx, chunks)
	rec.Chunks = stored
	if err != nil {
		p.record(ctx, rec, start, err)
		return stored, fmt.Errorf("failed to store chunks of %s: %w", source, err)
	}

	rec.ChunkIDs = make([]string, len(chunks))
	rec.ChunkLengths = make([]int, len(chunks))
	for i, c := range chunks {
		rec.ChunkIDs[i] = c.ChunkID
		rec.ChunkLengths[i] = utf8.RuneCountInString(c.Content)
	}
	p.record(ctx, rec, start, nil)

	logger.InfoContext(ctx, "document ingested", "source", source, "user_id", userID, "chunks", stored, "duration", time.Since(start))
	return stored, nil
}

// DirResult summarizes a directory ingestion.
type DirResult struct {
	Files  int              // Files found by the scan
	Chunks int              // Chunks stored across all files
	Failed map[string]error // Per relative path
}

// IngestDir ingests every supported file under dir. Errors for individual files
// are logged and collected but don't stop the run; the source name of each file is
// its path relative to dir.
func (p *Pipeline) IngestDir(ctx context.Context, dir, userID string) (*DirResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	scannedFiles, err := vault.Scan(ctx, dir, p.accept)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logger.InfoContext(ctx, "starting directory ingestion", "dir", dir, "total_files", len(scannedFiles))

	result := &DirResult{Files: len(scannedFiles), Failed: make(map[string]error)}
	for _, file := range scannedFiles {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		n, err := p.Ingest(ctx, file.AbsPath, userID, file.RelPath)
		result.Chunks += n
		if err != nil {
			result.Failed[file.RelPath] = err
			logger.ErrorContext(ctx, "failed to ingest file", "rel_path", file.RelPath, "error", err)
			continue
		}
	}

	logger.InfoContext(ctx, "directory ingestion completed",
		"total_files", result.Files, "chunks", result.Chunks, "errors", len(result.Failed))
	return result, nil
}

// Forget drops the ingestion history of source after its chunks were deleted.
func (p *Pipeline) Forget(ctx context.Context, source string) error {
	return p.ingestions.DeleteBySource(ctx, source)
}

// record writes one attempt to the ingestion log. Failures here are logged only.
func (p *Pipeline) record(ctx context.Context, rec *storage.IngestionRecord, start time.Time, cause error) {
	rec.Duration = time.Since(start)
	switch {
	case cause != nil:
		rec.Status = storage.IngestionFailed
		rec.Error = cause.Error()
		rec.ChunkIDs, rec.ChunkLengths = nil, nil
	case rec.Chunks == 0:
		rec.Status = storage.IngestionEmpty
	default:
		rec.Status = storage.IngestionOK
	}

	if err := p.ingestions.Record(ctx, rec); err != nil {
		if !errors.Is(err, context.Canceled) {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record ingestion", "source", rec.Source, "error", err)
		}
	}
}
