package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks docqa/internal/rag Embedder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_candidate_searcher.go -package=mocks docqa/internal/rag CandidateSearcher

import (
	"context"
	"fmt"
	"math"

	"docqa/internal/contextutil"
	"docqa/internal/docstore"
	"docqa/internal/indexer"
	"docqa/internal/vectorstore"
)

// Embedder converts texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CandidateSearcher returns the nearest chunks visible to userID, with their vectors.
type CandidateSearcher interface {
	Search(ctx context.Context, query []float32, k int, userID string) ([]docstore.Candidate, error)
}

// RetrieverOptions tunes candidate fetching and diversification.
type RetrieverOptions struct {
	K         int     // Chunks returned
	FetchK    int     // Candidates fetched before diversification
	Diversity float64 // MMR lambda: 1 is pure relevance, 0 is pure diversity
}

// DefaultRetrieverOptions returns K=10, FetchK=20, Diversity=0.5.
func DefaultRetrieverOptions() RetrieverOptions {
	return RetrieverOptions{K: 10, FetchK: 20, Diversity: 0.5}
}

// Retriever selects relevant, mutually diverse chunks for a query using maximal
// marginal relevance over the nearest FetchK candidates.
type Retriever struct {
	embedder Embedder
	searcher CandidateSearcher
	opts     RetrieverOptions
}

// NewRetriever creates a retriever.
func NewRetriever(embedder Embedder, searcher CandidateSearcher, opts RetrieverOptions) (*Retriever, error) {
	if opts.K <= 0 {
		return nil, fmt.Errorf("k must be greater than 0, got %d", opts.K)
	}
	if opts.FetchK < opts.K {
		return nil, fmt.Errorf("fetch_k %d must be at least k %d", opts.FetchK, opts.K)
	}
	if opts.Diversity < 0 || opts.Diversity > 1 {
		return nil, fmt.Errorf("diversity %v must be in [0, 1]", opts.Diversity)
	}
	return &Retriever{embedder: embedder, searcher: searcher, opts: opts}, nil
}

// Retrieve returns up to K chunks for query that userID may see, most relevant first.
// An empty userID disables visibility filtering. Store and embedding errors are returned.
func (r *Retriever) Retrieve(ctx context.Context, query, userID string) ([]indexer.Chunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	queryVector := embeddings[0]

	candidates, err := r.searcher.Search(ctx, queryVector, r.opts.FetchK, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	vectors := make([][]float32, len(candidates))
	for i, c := range candidates {
		vectors[i] = c.Vec
	}
	selected := maximalMarginalRelevance(queryVector, vectors, r.opts.K, r.opts.Diversity)

	chunks := make([]indexer.Chunk, len(selected))
	for i, idx := range selected {
		chunks[i] = candidates[idx].Chunk
	}

	logger.DebugContext(ctx, "retrieval completed",
		"user_id", userID, "candidates", len(candidates), "selected", len(chunks))
	return chunks, nil
}

// maximalMarginalRelevance greedily picks up to k indexes of candidates, each time
// taking the one maximizing lambda*sim(query) - (1-lambda)*max sim(selected).
// The first pick is the candidate closest to the query. Ties go to the lower index.
func maximalMarginalRelevance(query []float32, candidates [][]float32, k int, lambda float64) []int {
	k = min(k, len(candidates))
	if k <= 0 {
		return nil
	}

	querySim := make([]float64, len(candidates))
	best := 0
	for i, c := range candidates {
		querySim[i] = float64(vectorstore.CosineSimilarity(query, c))
		if querySim[i] > querySim[best] {
			best = i
		}
	}

	selected := []int{best}
	picked := make([]bool, len(candidates))
	picked[best] = true

	// redundancy[i] is the max similarity of candidate i to any selected candidate.
	redundancy := make([]float64, len(candidates))
	for i := range redundancy {
		redundancy[i] = math.Inf(-1)
	}

	for len(selected) < k {
		last := candidates[selected[len(selected)-1]]
		bestScore := math.Inf(-1)
		next := -1
		for i, c := range candidates {
			if picked[i] {
				continue
			}
			redundancy[i] = math.Max(redundancy[i], float64(vectorstore.CosineSimilarity(c, last)))
			score := lambda*querySim[i] - (1-lambda)*redundancy[i]
			if score > bestScore {
				bestScore = score
				next = i
			}
		}
		selected = append(selected, next)
		picked[next] = true
	}

	return selected
}
