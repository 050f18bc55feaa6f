package docstore

import (
	"fmt"

	"docqa/internal/indexer"
	"docqa/internal/vectorstore"
)

// Visibility scopes besides real user ids.
const (
	// GlobalScope marks chunks every user may retrieve.
	GlobalScope = "GLOBAL"
	// LegacyScope is the scope of chunks written before per-user scoping; treated as global.
	LegacyScope = "default"
)

// Payload field names of an indexed point.
const (
	FieldContent    = "content"
	FieldSource     = "source"
	FieldUserID     = "user_id"
	FieldChunkID    = "chunk_id"
	FieldHeaderPath = "header_path"
)

// headerField returns the payload key of heading level (1-based).
func headerField(level int) string {
	return fmt.Sprintf("header_%d", level)
}

// VisibilityFilter restricts retrieval to userID's own chunks plus global and
// legacy ones. An empty userID means no restriction.
func VisibilityFilter(userID string) *vectorstore.Filter {
	if userID == "" {
		return nil
	}

	filter := &vectorstore.Filter{}
	for _, scope := range []string{userID, GlobalScope, LegacyScope} {
		dup := false
		for _, m := range filter.Should {
			dup = dup || m.Value == scope
		}
		if !dup {
			filter.Should = append(filter.Should, vectorstore.Match{Key: FieldUserID, Value: scope})
		}
	}
	return filter
}

// chunkPayload flattens a chunk into point payload. Only present heading levels are stored.
func chunkPayload(c indexer.Chunk) map[string]any {
	payload := map[string]any{
		FieldContent:    c.Content,
		FieldSource:     c.Source,
		FieldUserID:     c.UserID,
		FieldChunkID:    c.ChunkID,
		FieldHeaderPath: c.HeaderPath,
	}
	for i, h := range c.Headers {
		if h != "" {
			payload[headerField(i+1)] = h
		}
	}
	return payload
}

// chunkFromPayload is the inverse of chunkPayload. Missing fields stay empty.
func chunkFromPayload(payload map[string]any) indexer.Chunk {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}

	c := indexer.Chunk{
		Content:    str(FieldContent),
		Source:     str(FieldSource),
		UserID:     str(FieldUserID),
		ChunkID:    str(FieldChunkID),
		HeaderPath: str(FieldHeaderPath),
	}
	for i := range c.Headers {
		c.Headers[i] = str(headerField(i + 1))
	}
	return c
}
