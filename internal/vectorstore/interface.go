package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docqa/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
// Vec is only populated when the search was asked to return vectors.
type SearchResult struct {
	PointID string
	Score   float32
	Vec     []float32
	Meta    map[string]any
}

// Record is a point returned by a scroll, payload only.
type Record struct {
	PointID string
	Meta    map[string]any
}

// Match is an exact keyword match on a payload field.
type Match struct {
	Key   string
	Value string
}

// Filter restricts points by payload. A point passes when it satisfies every
// Must match and, if Should is non-empty, at least one Should match.
// A nil *Filter matches everything.
type Filter struct {
	Must   []Match
	Should []Match
}

// CollectionInfo contains information about a Qdrant collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// EnsureCollection creates the collection and keyword indexes on indexedFields
	// when it is absent, and validates the vector size when it is present.
	EnsureCollection(ctx context.Context, collection string, vectorSize int, indexedFields []string) error

	// Upsert inserts or updates points in the collection and waits for the write to apply.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a cosine similarity search restricted by filter.
	Search(ctx context.Context, collection string, query []float32, k int, filter *Filter, withVectors bool) ([]SearchResult, error)

	// Scroll returns up to limit points with only the requested payload fields.
	Scroll(ctx context.Context, collection string, limit int, fields []string) ([]Record, error)

	// DeleteByFilter removes every point matching filter.
	DeleteByFilter(ctx context.Context, collection string, filter *Filter) error

	// GetCollectionInfo returns information about a collection including point count.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)
}

var (
	_ Backend = (*QdrantStore)(nil)
	_ Backend = (*MemoryStore)(nil)
)
