package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_uploader.go -package=mocks docqa/internal/handlers Uploader

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"docqa/internal/contextutil"
	"docqa/internal/docstore"
	"docqa/internal/service"
)

const maxUploadMemory = 32 << 20

// Uploader stages uploaded files on disk for the ingestion pipeline.
type Uploader interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(path string) error
}

// DocumentsHandler handles HTTP requests for document management.
type DocumentsHandler struct {
	documents service.DocumentService
	uploads   Uploader
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(documents service.DocumentService, uploads Uploader) *DocumentsHandler {
	return &DocumentsHandler{documents: documents, uploads: uploads}
}

// UploadResponse represents the response of a document upload.
type UploadResponse struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
}

// DocumentResponse represents one stored document.
type DocumentResponse struct {
	Source string `json:"source"`
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

// ListResponse represents the list of stored documents, sorted by source.
type ListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// DeleteResponse represents the outcome of a delete.
type DeleteResponse struct {
	Source  string `json:"source"`
	Deleted bool   `json:"deleted"`
}

// Upload ingests a multipart "file" field. A "global" field set to true makes
// the document visible to every user.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file field", "error", err)
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	global := false
	if v := r.FormValue("global"); v != "" {
		global, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid global field")
			return
		}
	}

	path, err := h.uploads.Save(ctx, header.Filename, file)
	if err != nil {
		logger.ErrorContext(ctx, "failed to stage upload", "filename", header.Filename, "error", err)
		writeError(w, http.StatusBadRequest, "Failed to store upload")
		return
	}
	defer func() {
		if err := h.uploads.Remove(path); err != nil {
			logger.WarnContext(ctx, "failed to remove staged upload", "path", path, "error", err)
		}
	}()

	chunks, err := h.documents.Ingest(ctx, contextutil.UserIDFromContext(ctx), service.IngestRequest{
		Path:     path,
		Filename: header.Filename,
		Global:   global,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to ingest document")
		return
	}

	writeJSON(ctx, w, http.StatusOK, UploadResponse{Source: header.Filename, Chunks: chunks})
}

// List returns every stored document.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.documents.ListDocuments(ctx, contextutil.UserIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ListResponse{Documents: documentList(docs)})
}

func documentList(docs map[string]docstore.DocumentInfo) []DocumentResponse {
	list := make([]DocumentResponse, 0, len(docs))
	for source, info := range docs {
		list = append(list, DocumentResponse{Source: source, UserID: info.UserID, Count: info.Count})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Source < list[j].Source })
	return list
}

// Delete removes the document named by the {source} URL parameter.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	source := chi.URLParam(r, "source")

	deleted, err := h.documents.DeleteDocument(ctx, contextutil.UserIDFromContext(ctx), source)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to delete document")
		return
	}
	if !deleted {
		writeError(w, http.StatusServiceUnavailable, "Failed to delete document")
		return
	}

	writeJSON(ctx, w, http.StatusOK, DeleteResponse{Source: source, Deleted: true})
}

// Stats returns the ingestion statistics.
func (h *DocumentsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.documents.Stats(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to compute stats")
		return
	}

	writeJSON(ctx, w, http.StatusOK, stats)
}
