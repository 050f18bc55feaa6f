package indexer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"docqa/internal/contextutil"
)

const (
	minChunkSize     = 50  // Sub-texts shorter than this (trimmed, in runes) are dropped
	progressInterval = 100 // Sections between progress log lines
	generalContext   = "General"
)

// BuildStats describes one chunk-building run.
type BuildStats struct {
	Sections int // Sections produced by the header splitter
	Skipped  int // Sub-texts dropped for being shorter than minChunkSize
}

// ChunkBuilder turns a converted document into enriched, size-bounded chunks.
type ChunkBuilder struct {
	splitter *RecursiveSplitter
}

// NewChunkBuilder creates a chunk builder around splitter.
func NewChunkBuilder(splitter *RecursiveSplitter) *ChunkBuilder {
	return &ChunkBuilder{splitter: splitter}
}

// Build returns the chunks for doc scoped to userID, in document order.
// It does not touch any store; the context only carries the logger.
func (b *ChunkBuilder) Build(ctx context.Context, doc Document, userID string) []Chunk {
	chunks, _ := b.BuildWithStats(ctx, doc, userID)
	return chunks
}

// BuildWithStats is Build plus counters for the ingestion log.
func (b *ChunkBuilder) BuildWithStats(ctx context.Context, doc Document, userID string) ([]Chunk, BuildStats) {
	logger := contextutil.LoggerFromContext(ctx)

	sections := SplitSections(doc.Content)
	stats := BuildStats{Sections: len(sections)}
	logger.DebugContext(ctx, "header split", "source", doc.SourceName, "sections", len(sections))

	var chunks []Chunk
	for i, section := range sections {
		headerPath := section.Headers.Path()
		if headerPath == "" {
			headerPath = generalContext
		}

		for j, sub := range b.splitter.Split(section.Content) {
			if utf8.RuneCountInString(strings.TrimSpace(sub)) < minChunkSize {
				stats.Skipped++
				continue
			}

			chunks = append(chunks, Chunk{
				Content:    fmt.Sprintf("[Context: %s > %s]\n\n%s", doc.SourceName, headerPath, sub),
				Source:     doc.SourceName,
				ChunkID:    fmt.Sprintf("%d_%d", i, j),
				UserID:     userID,
				HeaderPath: headerPath,
				Headers:    section.Headers,
			})
		}

		if (i+1)%progressInterval == 0 {
			logger.InfoContext(ctx, "chunking progress", "source", doc.SourceName, "sections_done", i+1, "sections_total", len(sections))
		}
	}

	logger.InfoContext(ctx, "text chunking complete", "source", doc.SourceName, "chunks", len(chunks), "skipped", stats.Skipped)
	return chunks, stats
}
