package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_scorer.go -package=mocks docqa/internal/rag Scorer

import (
	"context"
	"sort"

	"docqa/internal/contextutil"
	"docqa/internal/indexer"
)

// DefaultTopN is the number of chunks kept after reranking.
const DefaultTopN = 3

// Scorer returns one relevance score per document for query, aligned with documents.
type Scorer interface {
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// Reranker reorders retrieved chunks and keeps the best topN. It never fails.
type Reranker interface {
	Rerank(ctx context.Context, query string, chunks []indexer.Chunk) []indexer.Chunk
}

// RerankerStatus reports which reranker NewReranker selected.
type RerankerStatus string

const (
	// RerankerReady means the cross-encoder answered the startup probe.
	RerankerReady RerankerStatus = "ready"
	// RerankerDegraded means chunks pass through in retrieval order.
	RerankerDegraded RerankerStatus = "degraded"
)

// NewReranker probes scorer once and returns a cross-encoder reranker when it
// answers, or a passthrough when it is nil or fails. topN <= 0 means DefaultTopN.
func NewReranker(ctx context.Context, scorer Scorer, topN int) (Reranker, RerankerStatus) {
	logger := contextutil.LoggerFromContext(ctx)

	if topN <= 0 {
		topN = DefaultTopN
	}
	passthrough := &passthroughReranker{topN: topN}

	if scorer == nil {
		logger.WarnContext(ctx, "no rerank model configured, using passthrough reranker", "top_n", topN)
		return passthrough, RerankerDegraded
	}

	if _, err := scorer.Score(ctx, "health check", []string{"health check"}); err != nil {
		logger.WarnContext(ctx, "rerank model unavailable, using passthrough reranker", "top_n", topN, "error", err)
		return passthrough, RerankerDegraded
	}

	logger.InfoContext(ctx, "cross-encoder reranker ready", "top_n", topN)
	return &crossEncoderReranker{scorer: scorer, topN: topN, fallback: passthrough}, RerankerReady
}

// passthroughReranker keeps retrieval order and truncates.
type passthroughReranker struct {
	topN int
}

func (p *passthroughReranker) Rerank(_ context.Context, _ string, chunks []indexer.Chunk) []indexer.Chunk {
	if len(chunks) > p.topN {
		chunks = chunks[:p.topN]
	}
	return append([]indexer.Chunk(nil), chunks...)
}

// crossEncoderReranker sorts chunks by the scorer's relevance for the query.
type crossEncoderReranker struct {
	scorer   Scorer
	topN     int
	fallback *passthroughReranker
}

func (c *crossEncoderReranker) Rerank(ctx context.Context, query string, chunks []indexer.Chunk) []indexer.Chunk {
	if len(chunks) == 0 {
		return nil
	}

	documents := make([]string, len(chunks))
	for i, chunk := range chunks {
		documents[i] = chunk.Content
	}

	scores, err := c.scorer.Score(ctx, query, documents)
	if err == nil && len(scores) != len(chunks) {
		err = errScoreCount
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "rerank failed, keeping retrieval order", "error", err)
		return c.fallback.Rerank(ctx, query, chunks)
	}

	order := make([]int, len(chunks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	n := min(c.topN, len(order))
	ranked := make([]indexer.Chunk, n)
	for i := 0; i < n; i++ {
		ranked[i] = chunks[order[i]]
	}
	return ranked
}
