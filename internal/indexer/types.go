package indexer

import "strings"

// MaxHeaderLevel is the deepest heading level that opens a new section.
const MaxHeaderLevel = 4

// Headers holds the enclosing heading text at levels 1..MaxHeaderLevel.
// Headers[0] is level 1. An empty string means no heading at that level.
type Headers [MaxHeaderLevel]string

// Path joins the present heading levels with " > ". Returns "" when no level is set.
func (h Headers) Path() string {
	parts := make([]string, 0, MaxHeaderLevel)
	for _, text := range h {
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " > ")
}

// Document is converted Markdown plus the name it is displayed and deleted by.
type Document struct {
	Content    string
	SourceName string
}

// Section is a contiguous slice of a document opened by a heading (or the document start).
type Section struct {
	Content string
	Headers Headers
}

// Chunk is the unit of retrieval: an enriched sub-text of one section.
type Chunk struct {
	Content    string  // "[Context: <source> > <header path>]\n\n<sub text>"
	Source     string  // Owning document's display name
	ChunkID    string  // "{section}_{sub}", unique within a document only
	UserID     string  // Visibility scope: a user id, GLOBAL, or legacy default
	HeaderPath string  // " > " joined headers, "General" when none
	Headers    Headers // Heading metadata copied from the section
}
