package indexer

import (
	"context"
	"errors"
	"testing"

	"docqa/internal/storage"
	"docqa/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func TestPipeline_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIngestions := mocks.NewMockIngestionStore(ctrl)
	mockIngestions.EXPECT().Summary(gomock.Any()).Return(&storage.IngestionSummary{
		DocsProcessed:   3,
		DocsWith0Chunks: 1,
		ChunksStored:    4,
		FailedAttempts:  2,
	}, nil)
	mockIngestions.EXPECT().LatestChunkLengths(gomock.Any()).Return([]int{100, 300, 200, 400}, nil)

	pipeline := &Pipeline{builder: newTestBuilder(t, DefaultChunkSize, DefaultChunkOverlap), ingestions: mockIngestions}

	stats, err := pipeline.Stats(context.Background(), "bge-m3")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.DocsProcessed != 3 || stats.DocsWith0Chunks != 1 || stats.ChunksStored != 4 || stats.FailedAttempts != 2 {
		t.Errorf("Stats() counts = %+v", stats)
	}
	want := ChunkLengthStats{Min: 100, Max: 400, Mean: 250, P95: 400}
	if stats.ChunkLengthStats != want {
		t.Errorf("ChunkLengthStats = %+v, want %+v", stats.ChunkLengthStats, want)
	}
	if stats.ChunkerVersion != ChunkerVersion {
		t.Errorf("ChunkerVersion = %q, want %q", stats.ChunkerVersion, ChunkerVersion)
	}
	if len(stats.IndexVersion) != 16 {
		t.Errorf("IndexVersion = %q, want 16 hex chars", stats.IndexVersion)
	}
}

func TestPipeline_Stats_Errors(t *testing.T) {
	boom := errors.New("database is locked")

	tests := []struct {
		name  string
		setup func(m *mocks.MockIngestionStore)
	}{
		{
			name: "summary fails",
			setup: func(m *mocks.MockIngestionStore) {
				m.EXPECT().Summary(gomock.Any()).Return(nil, boom)
			},
		},
		{
			name: "lengths fail",
			setup: func(m *mocks.MockIngestionStore) {
				m.EXPECT().Summary(gomock.Any()).Return(&storage.IngestionSummary{}, nil)
				m.EXPECT().LatestChunkLengths(gomock.Any()).Return(nil, boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockIngestions := mocks.NewMockIngestionStore(ctrl)
			tt.setup(mockIngestions)

			pipeline := &Pipeline{builder: newTestBuilder(t, 100, 10), ingestions: mockIngestions}
			if _, err := pipeline.Stats(context.Background(), "m"); !errors.Is(err, boom) {
				t.Errorf("Stats() error = %v, want wrapped %v", err, boom)
			}
		})
	}
}

func TestIndexVersion(t *testing.T) {
	a, _ := NewRecursiveSplitter(1000, 200)
	b, _ := NewRecursiveSplitter(500, 200)

	if indexVersion("m1", a) != indexVersion("m1", a) {
		t.Error("indexVersion() should be stable")
	}
	if indexVersion("m1", a) == indexVersion("m2", a) {
		t.Error("indexVersion() should change with the embedding model")
	}
	if indexVersion("m1", a) == indexVersion("m1", b) {
		t.Error("indexVersion() should change with the chunk size")
	}
}

func TestComputeLengthStats(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		want    ChunkLengthStats
	}{
		{
			name:    "empty",
			lengths: []int{},
			want:    ChunkLengthStats{},
		},
		{
			name:    "single value",
			lengths: []int{10},
			want:    ChunkLengthStats{Min: 10, Max: 10, Mean: 10.0, P95: 10},
		},
		{
			name:    "multiple values",
			lengths: []int{5, 10, 15, 20, 25},
			want:    ChunkLengthStats{Min: 5, Max: 25, Mean: 15.0, P95: 25},
		},
		{
			name:    "unsorted values",
			lengths: []int{30, 5, 20, 10, 15},
			want:    ChunkLengthStats{Min: 5, Max: 30, Mean: 16.0, P95: 30},
		},
		{
			name:    "many values for p95",
			lengths: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			want:    ChunkLengthStats{Min: 1, Max: 20, Mean: 10.5, P95: 19}, // nearest rank 19 of 20
		},
		{
			name:    "mean rounded",
			lengths: []int{1, 1, 2},
			want:    ChunkLengthStats{Min: 1, Max: 2, Mean: 1.33, P95: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeLengthStats(tt.lengths)
			if got != tt.want {
				t.Errorf("computeLengthStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
