package handlers

import (
	"net/http"
	"time"

	"docqa/internal/contextutil"
	"docqa/internal/service"
)

// MemoryHandler returns the facts remembered about the caller.
type MemoryHandler struct {
	documents service.DocumentService
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(documents service.DocumentService) *MemoryHandler {
	return &MemoryHandler{documents: documents}
}

// MemoryFact is one remembered fact.
type MemoryFact struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MemoryResponse lists the caller's facts, oldest first.
type MemoryResponse struct {
	UserID string       `json:"user_id"`
	Facts  []MemoryFact `json:"facts"`
}

// ServeHTTP handles GET requests for the caller's memory.
func (h *MemoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutil.UserIDFromContext(ctx)

	records, err := h.documents.Memory(ctx, userID)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load memory")
		return
	}

	facts := make([]MemoryFact, 0, len(records))
	for _, rec := range records {
		facts = append(facts, MemoryFact{ID: rec.ID, Text: rec.Text, CreatedAt: rec.CreatedAt})
	}
	writeJSON(ctx, w, http.StatusOK, MemoryResponse{UserID: userID, Facts: facts})
}
