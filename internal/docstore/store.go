package docstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks docqa/internal/docstore Embedder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/indexer"
	"docqa/internal/vectorstore"
)

const (
	// DefaultBatchSize is the number of chunks embedded and upserted together.
	DefaultBatchSize = 50
	// scrollLimit bounds ListDocuments; sources only seen past it are not reported.
	scrollLimit = 10000
	// unknownUser is reported for points stored without a user_id.
	unknownUser = "unknown"
)

// ErrStoreUnavailable marks failures of the vector store backend itself.
var ErrStoreUnavailable = errors.New("vector store unavailable")

// Embedder converts texts into vectors, one per text, in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentInfo describes one stored document.
type DocumentInfo struct {
	UserID string `json:"user_id"` // Scope of the first point seen for the source
	Count  int    `json:"count"`   // Stored chunks
}

// Candidate is a search hit carrying its vector, for client-side re-ranking.
type Candidate struct {
	Chunk indexer.Chunk
	Score float32
	Vec   []float32
}

// Store is the document-level view of the vector index: chunks in, documents out.
type Store struct {
	vectors    vectorstore.VectorStore
	embedder   Embedder
	collection string
	vectorSize int
	batchSize  int
}

// New creates a store over one collection.
func New(vectors vectorstore.VectorStore, embedder Embedder, collection string, vectorSize int) *Store {
	return &Store{
		vectors:    vectors,
		embedder:   embedder,
		collection: collection,
		vectorSize: vectorSize,
		batchSize:  DefaultBatchSize,
	}
}

// Collection returns the collection name.
func (s *Store) Collection() string {
	return s.collection
}

// EnsureCollection creates the collection with keyword indexes on source and
// user_id when it is absent. An existing collection is only validated.
func (s *Store) EnsureCollection(ctx context.Context) error {
	if err := s.vectors.EnsureCollection(ctx, s.collection, s.vectorSize, []string{FieldSource, FieldUserID}); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w: %w", s.collection, ErrStoreUnavailable, err)
	}
	return nil
}

// Add embeds and upserts chunks in batches. A failed batch aborts the remaining
// ones; batches already written stay. It returns the number of chunks written.
func (s *Store) Add(ctx context.Context, chunks []indexer.Chunk) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	stored := 0
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("failed to embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return stored, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
		}

		points := make([]vectorstore.Point, len(batch))
		for i, c := range batch {
			points[i] = vectorstore.Point{
				ID:   uuid.New().String(),
				Vec:  vectors[i],
				Meta: chunkPayload(c),
			}
		}

		if err := s.vectors.Upsert(ctx, s.collection, points); err != nil {
			return stored, fmt.Errorf("failed to upsert batch %d-%d: %w: %w", start, end, ErrStoreUnavailable, err)
		}
		stored += len(batch)

		logger.DebugContext(ctx, "batch stored", "collection", s.collection, "stored", stored, "total", len(chunks))
	}

	return stored, nil
}

// ListDocuments returns every source in the collection with its chunk count.
// The scan stops after scrollLimit points. Backend errors are logged and yield
// an empty map.
func (s *Store) ListDocuments(ctx context.Context) map[string]DocumentInfo {
	logger := contextutil.LoggerFromContext(ctx)
	docs := make(map[string]DocumentInfo)

	exists, err := s.vectors.CollectionExists(ctx, s.collection)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "collection", s.collection, "error", err)
		return docs
	}
	if !exists {
		return docs
	}

	records, err := s.vectors.Scroll(ctx, s.collection, scrollLimit, []string{FieldSource, FieldUserID})
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "collection", s.collection, "error", err)
		return docs
	}
	if len(records) >= scrollLimit {
		logger.WarnContext(ctx, "document listing truncated", "collection", s.collection, "limit", scrollLimit)
	}

	for _, r := range records {
		source, _ := r.Meta[FieldSource].(string)
		if source == "" {
			continue
		}
		userID, _ := r.Meta[FieldUserID].(string)
		if userID == "" {
			userID = unknownUser
		}

		info, seen := docs[source]
		if !seen {
			info.UserID = userID
		} else if info.UserID != userID {
			logger.WarnContext(ctx, "document has chunks in several scopes",
				"source", source, "reported_user_id", info.UserID, "other_user_id", userID)
		}
		info.Count++
		docs[source] = info
	}

	return docs
}

// Delete removes every chunk of source. Deleting an unknown source succeeds.
// Backend errors are logged and reported as false.
func (s *Store) Delete(ctx context.Context, source string) bool {
	logger := contextutil.LoggerFromContext(ctx)

	if source == "" {
		logger.WarnContext(ctx, "refusing to delete empty source name")
		return false
	}

	exists, err := s.vectors.CollectionExists(ctx, s.collection)
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "source", source, "error", err)
		return false
	}
	if !exists {
		return true
	}

	filter := &vectorstore.Filter{Must: []vectorstore.Match{{Key: FieldSource, Value: source}}}
	if err := s.vectors.DeleteByFilter(ctx, s.collection, filter); err != nil {
		logger.ErrorContext(ctx, "failed to delete document", "source", source, "error", err)
		return false
	}

	logger.InfoContext(ctx, "document deleted", "source", source, "collection", s.collection)
	return true
}

// Search returns up to k chunks nearest to query that userID may see, with their
// vectors. A collection that was never created holds no chunks. Backend errors
// are returned; a query cannot be answered without the store.
func (s *Store) Search(ctx context.Context, query []float32, k int, userID string) ([]Candidate, error) {
	exists, err := s.vectors.CollectionExists(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %s: %w: %w", s.collection, ErrStoreUnavailable, err)
	}
	if !exists {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "search on missing collection", "collection", s.collection)
		return nil, nil
	}

	results, err := s.vectors.Search(ctx, s.collection, query, k, VisibilityFilter(userID), true)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w: %w", s.collection, ErrStoreUnavailable, err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, Candidate{
			Chunk: chunkFromPayload(r.Meta),
			Score: r.Score,
			Vec:   r.Vec,
		})
	}
	return candidates, nil
}
