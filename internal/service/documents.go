package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingester.go -package=mocks docqa/internal/service Ingester
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_index.go -package=mocks docqa/internal/service DocumentIndex
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_answerer.go -package=mocks docqa/internal/service Answerer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks -mock_names=DocumentService=MockDocumentService docqa/internal/service DocumentService

import (
	"context"
	"strings"
	"sync/atomic"

	"docqa/internal/contextutil"
	"docqa/internal/docstore"
	"docqa/internal/indexer"
	"docqa/internal/rag"
	"docqa/internal/storage"
)

// Ingester runs the ingestion pipeline.
type Ingester interface {
	Ingest(ctx context.Context, filePath, userID, originalFilename string) (int, error)
	IngestDir(ctx context.Context, dir, userID string) (*indexer.DirResult, error)
	Forget(ctx context.Context, source string) error
	Stats(ctx context.Context, embeddingModelName string) (*indexer.IngestionStats, error)
}

// DocumentIndex lists and deletes stored documents.
type DocumentIndex interface {
	ListDocuments(ctx context.Context) map[string]docstore.DocumentInfo
	Delete(ctx context.Context, source string) bool
}

// Answerer retrieves chunks and generates answers.
type Answerer interface {
	Query(ctx context.Context, question, userID string) ([]indexer.Chunk, error)
	Answer(ctx context.Context, question, userID string, onFragment func(string) error) (*rag.AnswerResult, error)
}

// IngestRequest describes one document to ingest.
type IngestRequest struct {
	Path     string // File on disk
	Filename string // Document name; defaults to the base name of Path
	Global   bool   // Visible to every user instead of the actor only
}

// DocumentService is the entry point for callers: HTTP handlers and the CLI.
type DocumentService interface {
	// Ingest stores one document and returns its chunk count.
	Ingest(ctx context.Context, actor string, req IngestRequest) (int, error)
	// IngestDir stores every supported file under dir.
	IngestDir(ctx context.Context, actor, dir string, global bool) (*indexer.DirResult, error)
	// Query returns the reranked chunks for question visible to userID.
	Query(ctx context.Context, question, userID string) ([]indexer.Chunk, error)
	// Answer generates an answer, streaming fragments to onFragment when non-nil.
	Answer(ctx context.Context, question, userID string, onFragment func(string) error) (*rag.AnswerResult, error)
	// ListDocuments returns every stored document.
	ListDocuments(ctx context.Context, actor string) (map[string]docstore.DocumentInfo, error)
	// DeleteDocument removes all chunks of source and reports whether it succeeded.
	DeleteDocument(ctx context.Context, actor, source string) (bool, error)
	// Stats summarizes the ingestion log.
	Stats(ctx context.Context) (*indexer.IngestionStats, error)
	// Memory returns the stored facts of userID, oldest first.
	Memory(ctx context.Context, userID string) ([]storage.MemoryRecord, error)
}

// documentService implements DocumentService.
type documentService struct {
	ingester           Ingester
	index              DocumentIndex
	answerer           Answerer
	memory             storage.MemoryStore
	authorizer         Authorizer
	embeddingModelName string
	ingesting          atomic.Bool
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	ingester Ingester,
	index DocumentIndex,
	answerer Answerer,
	memory storage.MemoryStore,
	authorizer Authorizer,
	embeddingModelName string,
) DocumentService {
	return &documentService{
		ingester:           ingester,
		index:              index,
		answerer:           answerer,
		memory:             memory,
		authorizer:         authorizer,
		embeddingModelName: embeddingModelName,
	}
}

func (s *documentService) authorize(ctx context.Context, actor string, permission Permission) error {
	if s.authorizer.Can(actor, permission) {
		return nil
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "permission denied", "user_id", actor, "permission", permission)
	return ErrForbidden
}

// scopeFor returns the visibility scope for documents the actor ingests.
func scopeFor(actor string, global bool) string {
	if global {
		return docstore.GlobalScope
	}
	return actor
}

// beginIngestion claims the process-wide ingestion slot. The returned func releases it.
func (s *documentService) beginIngestion(ctx context.Context) (func(), error) {
	if !s.ingesting.CompareAndSwap(false, true) {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "ingestion rejected, another one is running")
		return nil, ErrIngestionInProgress
	}
	return func() { s.ingesting.Store(false) }, nil
}

// Ingest stores one document.
func (s *documentService) Ingest(ctx context.Context, actor string, req IngestRequest) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Path) == "" {
		return 0, &ValidationError{Field: "path", Message: "cannot be empty"}
	}
	if err := s.authorize(ctx, actor, PermissionManageDocuments); err != nil {
		return 0, err
	}

	done, err := s.beginIngestion(ctx)
	if err != nil {
		return 0, err
	}
	defer done()

	scope := scopeFor(actor, req.Global)
	n, err := s.ingester.Ingest(ctx, req.Path, scope, req.Filename)
	if err != nil {
		logger.ErrorContext(ctx, "failed to ingest document", "path", req.Path, "error", err)
		return n, wrapDependencyError(err, "failed to ingest document")
	}

	logger.InfoContext(ctx, "document ingested", "filename", req.Filename, "scope", scope, "chunks", n)
	return n, nil
}

// IngestDir stores every supported file under dir.
func (s *documentService) IngestDir(ctx context.Context, actor, dir string, global bool) (*indexer.DirResult, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, &ValidationError{Field: "dir", Message: "cannot be empty"}
	}
	if err := s.authorize(ctx, actor, PermissionManageDocuments); err != nil {
		return nil, err
	}

	done, err := s.beginIngestion(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	result, err := s.ingester.IngestDir(ctx, dir, scopeFor(actor, global))
	if err != nil {
		return result, WrapError(err, "failed to ingest directory")
	}
	return result, nil
}

func validateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return &ValidationError{Field: "question", Message: "cannot be empty"}
	}
	return nil
}

// Query returns the reranked chunks for question.
func (s *documentService) Query(ctx context.Context, question, userID string) ([]indexer.Chunk, error) {
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	chunks, err := s.answerer.Query(ctx, question, userID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to query documents", "error", err)
		return nil, wrapDependencyError(err, "failed to query documents")
	}
	return chunks, nil
}

// Answer generates an answer for question.
func (s *documentService) Answer(ctx context.Context, question, userID string, onFragment func(string) error) (*rag.AnswerResult, error) {
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	result, err := s.answerer.Answer(ctx, question, userID, onFragment)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to answer question", "error", err)
		return nil, wrapDependencyError(err, "failed to answer question")
	}
	return result, nil
}

// ListDocuments returns every stored document.
func (s *documentService) ListDocuments(ctx context.Context, actor string) (map[string]docstore.DocumentInfo, error) {
	if err := s.authorize(ctx, actor, PermissionManageDocuments); err != nil {
		return nil, err
	}
	return s.index.ListDocuments(ctx), nil
}

// DeleteDocument removes every chunk of source. Its ingestion history goes with it.
func (s *documentService) DeleteDocument(ctx context.Context, actor, source string) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(source) == "" {
		return false, &ValidationError{Field: "source", Message: "cannot be empty"}
	}
	if err := s.authorize(ctx, actor, PermissionManageDocuments); err != nil {
		return false, err
	}

	if !s.index.Delete(ctx, source) {
		return false, nil
	}
	if err := s.ingester.Forget(ctx, source); err != nil {
		logger.WarnContext(ctx, "failed to forget ingestion history", "source", source, "error", err)
	}

	logger.InfoContext(ctx, "document deleted", "source", source, "user_id", actor)
	return true, nil
}

// Stats summarizes the ingestion log.
func (s *documentService) Stats(ctx context.Context) (*indexer.IngestionStats, error) {
	stats, err := s.ingester.Stats(ctx, s.embeddingModelName)
	if err != nil {
		return nil, WrapError(err, "failed to compute ingestion stats")
	}
	return stats, nil
}

// Memory returns the stored facts of userID.
func (s *documentService) Memory(ctx context.Context, userID string) ([]storage.MemoryRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &ValidationError{Field: "user_id", Message: "cannot be empty"}
	}

	records, err := s.memory.GetAll(ctx, userID)
	if err != nil {
		return nil, WrapError(err, "failed to load memory")
	}
	return records, nil
}
