package rag

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/indexer"
	"docqa/internal/rag/mocks"
)

func chunksWithIDs(ids ...string) []indexer.Chunk {
	chunks := make([]indexer.Chunk, len(ids))
	for i, id := range ids {
		chunks[i] = indexer.Chunk{ChunkID: id, Content: "content " + id}
	}
	return chunks
}

func chunkIDs(chunks []indexer.Chunk) []string {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ChunkID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewReranker_ProbeFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	scorer := mocks.NewMockScorer(ctrl)
	scorer.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("model not found"))

	reranker, status := NewReranker(context.Background(), scorer, 3)
	if status != RerankerDegraded {
		t.Fatalf("status = %q, want %q", status, RerankerDegraded)
	}

	got := reranker.Rerank(context.Background(), "q", chunksWithIDs("a", "b", "c", "d", "e"))
	if want := []string{"a", "b", "c"}; !equalIDs(chunkIDs(got), want) {
		t.Errorf("Rerank() = %v, want %v", chunkIDs(got), want)
	}
}

func TestNewReranker_NilScorer(t *testing.T) {
	reranker, status := NewReranker(context.Background(), nil, 0)
	if status != RerankerDegraded {
		t.Fatalf("status = %q, want %q", status, RerankerDegraded)
	}

	got := reranker.Rerank(context.Background(), "q", chunksWithIDs("a", "b", "c", "d"))
	if len(got) != DefaultTopN {
		t.Errorf("Rerank() returned %d chunks, want %d", len(got), DefaultTopN)
	}
}

func TestPassthroughReranker_FewerThanTopN(t *testing.T) {
	p := &passthroughReranker{topN: 3}

	got := p.Rerank(context.Background(), "q", chunksWithIDs("a", "b"))
	if want := []string{"a", "b"}; !equalIDs(chunkIDs(got), want) {
		t.Errorf("Rerank() = %v, want %v", chunkIDs(got), want)
	}
	if got := p.Rerank(context.Background(), "q", nil); len(got) != 0 {
		t.Errorf("Rerank(nil) = %v, want empty", got)
	}
}

func TestCrossEncoderReranker_Rerank(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name   string
		input  []string
		scores []float64
		err    error
		want   []string
	}{
		{
			name:   "sorted by score and truncated",
			input:  []string{"a", "b", "c", "d"},
			scores: []float64{0.1, 0.9, 0.4, 0.7},
			want:   []string{"b", "d", "c"},
		},
		{
			name:   "equal scores keep retrieval order",
			input:  []string{"a", "b", "c"},
			scores: []float64{0.5, 0.5, 0.8},
			want:   []string{"c", "a", "b"},
		},
		{
			name:   "fewer chunks than top n",
			input:  []string{"a", "b"},
			scores: []float64{0.2, 0.3},
			want:   []string{"b", "a"},
		},
		{
			name:  "call failure falls back to passthrough",
			input: []string{"a", "b", "c", "d"},
			err:   errBoom,
			want:  []string{"a", "b", "c"},
		},
		{
			name:   "score count mismatch falls back to passthrough",
			input:  []string{"a", "b", "c", "d"},
			scores: []float64{0.9},
			want:   []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			scorer := mocks.NewMockScorer(ctrl)
			scorer.EXPECT().Score(gomock.Any(), "health check", gomock.Any()).Return([]float64{1}, nil)

			reranker, status := NewReranker(context.Background(), scorer, 3)
			if status != RerankerReady {
				t.Fatalf("status = %q, want %q", status, RerankerReady)
			}

			input := chunksWithIDs(tt.input...)
			documents := make([]string, len(input))
			for i, c := range input {
				documents[i] = c.Content
			}
			scorer.EXPECT().Score(gomock.Any(), "question", documents).Return(tt.scores, tt.err)

			got := reranker.Rerank(context.Background(), "question", input)
			if !equalIDs(chunkIDs(got), tt.want) {
				t.Errorf("Rerank() = %v, want %v", chunkIDs(got), tt.want)
			}
		})
	}
}

func TestCrossEncoderReranker_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	scorer := mocks.NewMockScorer(ctrl)
	scorer.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).Return([]float64{1}, nil).Times(1)

	reranker, _ := NewReranker(context.Background(), scorer, 3)
	if got := reranker.Rerank(context.Background(), "q", nil); got != nil {
		t.Errorf("Rerank(nil) = %v, want nil", got)
	}
}
