package handlers

import (
	"net/http"
	"sort"

	"docqa/internal/contextutil"
	"docqa/internal/service"
)

// IndexHandler ingests every supported file of the configured library directory.
type IndexHandler struct {
	documents  service.DocumentService
	libraryDir string
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(documents service.DocumentService, libraryDir string) *IndexHandler {
	return &IndexHandler{documents: documents, libraryDir: libraryDir}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Files  int           `json:"files"`
	Chunks int           `json:"chunks"`
	Failed []FailedEntry `json:"failed"`
}

// FailedEntry is a file that could not be ingested.
type FailedEntry struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ServeHTTP handles POST requests. With ?global=true the documents are visible to every user.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	global := r.URL.Query().Get("global") == "true"
	logger.InfoContext(ctx, "library ingestion triggered via API", "dir", h.libraryDir, "global", global)

	result, err := h.documents.IngestDir(ctx, contextutil.UserIDFromContext(ctx), h.libraryDir, global)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to ingest library")
		return
	}

	resp := IndexResponse{Files: result.Files, Chunks: result.Chunks, Failed: make([]FailedEntry, 0, len(result.Failed))}
	for path, ferr := range result.Failed {
		resp.Failed = append(resp.Failed, FailedEntry{Path: path, Error: ferr.Error()})
	}
	sort.Slice(resp.Failed, func(i, j int) bool { return resp.Failed[i].Path < resp.Failed[j].Path })

	writeJSON(ctx, w, http.StatusOK, resp)
}
