// Package app wires the document QA components from configuration. It is shared
// by the API server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"docqa/internal/config"
	"docqa/internal/convert"
	"docqa/internal/docstore"
	"docqa/internal/indexer"
	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/service"
	"docqa/internal/storage"
	"docqa/internal/vault"
	"docqa/internal/vectorstore"
)

// App holds the wired components.
type App struct {
	Config         *config.Config
	Documents      service.DocumentService
	Uploads        *vault.Manager
	VectorStore    vectorstore.Backend
	RerankerStatus rag.RerankerStatus

	db *sql.DB
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// New opens the database and the shared vector store client and wires the
// ingestion pipeline, answer engine and document service. Close releases them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.InfoContext(ctx, "Database initialized", "path", cfg.DBPath)

	a := &App{Config: cfg, db: db}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config

	backend, err := vectorstore.Open(cfg.QdrantURL)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	a.VectorStore = backend
	slog.InfoContext(ctx, "Vector store opened", "url", cfg.QdrantURL, "collection", cfg.QdrantCollection)

	uploads, err := vault.NewManager(cfg.UploadDir())
	if err != nil {
		return fmt.Errorf("failed to initialize upload directory: %w", err)
	}
	a.Uploads = uploads

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize, cfg.EmbeddingRPS)
	store := docstore.New(backend, embedder, cfg.QdrantCollection, cfg.QdrantVectorSize)

	splitter, err := indexer.NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("failed to create text splitter: %w", err)
	}
	pipeline := indexer.NewPipeline(
		convert.New(),
		indexer.NewChunkBuilder(splitter),
		store,
		storage.NewIngestionRepo(a.db),
		convert.IsSupported,
	)

	retriever, err := rag.NewRetriever(embedder, store, rag.RetrieverOptions{
		K:         cfg.TopKRetrieval,
		FetchK:    cfg.FetchK,
		Diversity: cfg.MMRDiversity,
	})
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	// A nil scorer selects the passthrough reranker.
	var scorer rag.Scorer
	if cfg.RerankBaseURL != "" {
		scorer = llm.NewRerankClient(cfg.RerankBaseURL, cfg.LLMAPIKey, cfg.RerankModelName)
	}
	reranker, status := rag.NewReranker(ctx, scorer, cfg.RerankTopN)
	a.RerankerStatus = status

	chat := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, float32(cfg.LLMTemperature))
	memory := storage.NewMemoryRepo(a.db)
	engine := rag.NewEngine(retriever, reranker, chat, memory)

	a.Documents = service.NewDocumentService(
		pipeline,
		store,
		engine,
		memory,
		service.NewAdminAuthorizer(cfg.AdminUsers),
		cfg.EmbeddingModelName,
	)
	slog.InfoContext(ctx, "Document service initialized", "reranker", status, "llm_model", cfg.LLMModelName)
	return nil
}

// Close releases the vector store client and the database.
func (a *App) Close() error {
	var errs []error
	if a.VectorStore != nil {
		if err := vectorstore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close vector store: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
