package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/handlers"
	"docqa/internal/rag"
	"docqa/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Documents      service.DocumentService
	Uploads        handlers.Uploader
	VectorStore    handlers.HealthChecker
	RerankerStatus rag.RerankerStatus
	LibraryDir     string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Documents)
	documentsHandler := handlers.NewDocumentsHandler(deps.Documents, deps.Uploads)
	memoryHandler := handlers.NewMemoryHandler(deps.Documents)
	indexHandler := handlers.NewIndexHandler(deps.Documents, deps.LibraryDir)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.RerankerStatus)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/ask", askHandler)
			r.Method(http.MethodPost, "/index", indexHandler)
			r.Method(http.MethodGet, "/memory", memoryHandler)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", documentsHandler.Upload)
				r.Get("/", documentsHandler.List)
				r.Get("/stats", documentsHandler.Stats)
				r.Delete("/{source}", documentsHandler.Delete)
			})
		})
	})

	return r
}
