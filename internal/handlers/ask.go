package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/rag"
	"docqa/internal/service"
)

// AskHandler handles HTTP requests for questions about the documents.
type AskHandler struct {
	documents service.DocumentService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(documents service.DocumentService) *AskHandler {
	return &AskHandler{documents: documents}
}

// AskRequest represents the HTTP request payload for questions.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for answers.
type AskResponse struct {
	Answer  string       `json:"answer"`
	Sources []rag.Source `json:"sources"`
}

// ServeHTTP answers a question. With ?stream=true the answer is streamed as
// Server-Sent Events and terminated by a [DONE] message.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if r.URL.Query().Get("stream") == "true" {
		h.handleStreamingAsk(ctx, w, req)
		return
	}

	result, err := h.documents.Answer(ctx, req.Question, contextutil.UserIDFromContext(ctx), nil)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to answer question")
		return
	}

	writeJSON(ctx, w, http.StatusOK, AskResponse{Answer: result.Answer, Sources: result.Sources})
}

// handleStreamingAsk streams the answer using Server-Sent Events.
func (h *AskHandler) handleStreamingAsk(ctx context.Context, w http.ResponseWriter, req AskRequest) {
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	// Headers are sent with the first fragment so that errors before it keep their status code.
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	}

	_, err := h.documents.Answer(ctx, req.Question, contextutil.UserIDFromContext(ctx), func(fragment string) error {
		start()
		if err := writeSSEData(w, fragment); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if !started {
			handleServiceError(ctx, w, err, "Failed to answer question")
			return
		}
		logger.ErrorContext(ctx, "error streaming answer", "error", err)
		payload, _ := json.Marshal(ErrorResponse{Error: "stream interrupted"})
		_ = writeSSEData(w, string(payload))
		flusher.Flush()
		return
	}

	start()
	_ = writeSSEData(w, "[DONE]")
	flusher.Flush()
}
