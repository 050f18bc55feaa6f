package rag

import "docqa/internal/indexer"

// Source identifies a chunk that was given to the LLM as context.
type Source struct {
	// Source is the document name the chunk came from.
	Source string `json:"source"`
	// HeaderPath is the heading path (e.g., "Install > Linux").
	HeaderPath string `json:"header_path"`
	// ChunkID is the "{section}_{sub}" chunk identifier.
	ChunkID string `json:"chunk_id"`
}

// AnswerResult is the outcome of Engine.Answer.
type AnswerResult struct {
	// Answer is the full generated answer.
	Answer string `json:"answer"`
	// Sources are the chunks that were used to generate the answer, in prompt order.
	Sources []Source `json:"sources"`
}

func sourcesOf(chunks []indexer.Chunk) []Source {
	sources := make([]Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, Source{Source: c.Source, HeaderPath: c.HeaderPath, ChunkID: c.ChunkID})
	}
	return sources
}
