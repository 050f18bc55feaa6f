package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// ChunkerVersion identifies the chunking rules. Update this when chunk
// boundaries or enrichment change, so the index version changes too.
const ChunkerVersion = "v2.0"

// IngestionStats contains statistics about the ingestion log.
type IngestionStats struct {
	// DocsProcessed is the number of sources whose latest attempt succeeded.
	DocsProcessed int `json:"docs_processed"`
	// DocsWith0Chunks is the number of those sources that produced 0 chunks.
	DocsWith0Chunks int `json:"docs_with_0_chunks"`
	// ChunksStored is the number of chunks written by the latest attempt per source.
	ChunksStored int `json:"chunks_stored"`
	// FailedAttempts counts every failed attempt, including superseded ones.
	FailedAttempts int `json:"failed_attempts"`
	// ChunkLengthStats describes chunk sizes in runes.
	ChunkLengthStats ChunkLengthStats `json:"chunk_length_stats"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
	// IndexVersion is a hash identifying the index build (chunker + embedding model + params).
	IndexVersion string `json:"index_version"`
}

// ChunkLengthStats contains statistics about chunk lengths in runes.
type ChunkLengthStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Stats computes ingestion statistics from the ingestion log.
func (p *Pipeline) Stats(ctx context.Context, embeddingModelName string) (*IngestionStats, error) {
	summary, err := p.ingestions.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ingestions: %w", err)
	}

	lengths, err := p.ingestions.LatestChunkLengths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunk lengths: %w", err)
	}

	return &IngestionStats{
		DocsProcessed:    summary.DocsProcessed,
		DocsWith0Chunks:  summary.DocsWith0Chunks,
		ChunksStored:     summary.ChunksStored,
		FailedAttempts:   summary.FailedAttempts,
		ChunkLengthStats: computeLengthStats(lengths),
		ChunkerVersion:   ChunkerVersion,
		IndexVersion:     indexVersion(embeddingModelName, p.builder.splitter),
	}, nil
}

// indexVersion hashes everything that changes the vectors of a re-ingested document.
func indexVersion(embeddingModelName string, splitter *RecursiveSplitter) string {
	input := fmt.Sprintf("%s|%s|chunkSize=%d|chunkOverlap=%d|minChunkSize=%d",
		ChunkerVersion, embeddingModelName, splitter.size, splitter.overlap, minChunkSize)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits
}

// computeLengthStats computes min, max, mean, and p95 from chunk lengths.
func computeLengthStats(lengths []int) ChunkLengthStats {
	if len(lengths) == 0 {
		return ChunkLengthStats{}
	}

	// Sort for percentile calculation
	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	sum := 0
	for _, n := range lengths {
		sum += n
	}
	mean := float64(sum) / float64(len(lengths))

	// Nearest-rank p95
	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkLengthStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
