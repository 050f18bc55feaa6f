package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"docqa/internal/convert"
	"docqa/internal/docstore"
	"docqa/internal/indexer"
	"docqa/internal/rag"
	"docqa/internal/service"
	"docqa/internal/service/mocks"
	"docqa/internal/storage"
	storagemocks "docqa/internal/storage/mocks"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type serviceMocks struct {
	ingester *mocks.MockIngester
	index    *mocks.MockDocumentIndex
	answerer *mocks.MockAnswerer
	memory   *storagemocks.MockMemoryStore
}

func newTestService(t *testing.T) (service.DocumentService, serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := serviceMocks{
		ingester: mocks.NewMockIngester(ctrl),
		index:    mocks.NewMockDocumentIndex(ctrl),
		answerer: mocks.NewMockAnswerer(ctrl),
		memory:   storagemocks.NewMockMemoryStore(ctrl),
	}
	svc := service.NewDocumentService(m.ingester, m.index, m.answerer, m.memory,
		service.NewAdminAuthorizer([]string{"admin"}), "BAAI/bge-m3")
	return svc, m
}

func TestDocumentService_Ingest(t *testing.T) {
	errConv := &convert.ConversionError{Path: "bad.pdf", Reason: "corrupt", Err: errors.New("eof")}
	errUpsert := fmt.Errorf("failed to store chunks: %w: %w", docstore.ErrStoreUnavailable, errors.New("refused"))

	tests := []struct {
		name      string
		actor     string
		req       service.IngestRequest
		mockSetup func(m serviceMocks)
		wantN     int
		wantErr   error
	}{
		{
			name:  "private document",
			actor: "admin",
			req:   service.IngestRequest{Path: "/tmp/up/guide.md", Filename: "guide.md"},
			mockSetup: func(m serviceMocks) {
				m.ingester.EXPECT().Ingest(gomock.Any(), "/tmp/up/guide.md", "admin", "guide.md").Return(4, nil)
			},
			wantN: 4,
		},
		{
			name:  "global document",
			actor: "Admin",
			req:   service.IngestRequest{Path: "/tmp/up/guide.md", Filename: "guide.md", Global: true},
			mockSetup: func(m serviceMocks) {
				m.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), docstore.GlobalScope, "guide.md").Return(2, nil)
			},
			wantN: 2,
		},
		{
			name:      "not an admin",
			actor:     "bob",
			req:       service.IngestRequest{Path: "/tmp/up/guide.md"},
			mockSetup: func(serviceMocks) {},
			wantErr:   service.ErrForbidden,
		},
		{
			name:      "missing path",
			actor:     "admin",
			req:       service.IngestRequest{},
			mockSetup: func(serviceMocks) {},
			wantErr:   service.ErrInvalidInput,
		},
		{
			name:  "conversion failure",
			actor: "admin",
			req:   service.IngestRequest{Path: "/tmp/up/bad.pdf"},
			mockSetup: func(m serviceMocks) {
				m.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(0, errConv)
			},
			wantErr: convert.ErrConversion,
		},
		{
			name:  "store failure keeps partial count",
			actor: "admin",
			req:   service.IngestRequest{Path: "/tmp/up/big.md"},
			mockSetup: func(m serviceMocks) {
				m.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(50, errUpsert)
			},
			wantN:   50,
			wantErr: service.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.mockSetup(m)

			n, err := svc.Ingest(context.Background(), tt.actor, tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Ingest() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Ingest() unexpected error = %v", err)
			}
			if n != tt.wantN {
				t.Errorf("Ingest() = %d, want %d", n, tt.wantN)
			}
		})
	}
}

func TestDocumentService_Ingest_RejectsConcurrentRuns(t *testing.T) {
	svc, m := newTestService(t)

	started := make(chan struct{})
	release := make(chan struct{})
	m.ingester.EXPECT().Ingest(gomock.Any(), "/tmp/first.md", gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, string) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
	m.ingester.EXPECT().Ingest(gomock.Any(), "/tmp/third.md", gomock.Any(), gomock.Any()).Return(1, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := svc.Ingest(context.Background(), "admin", service.IngestRequest{Path: "/tmp/first.md"}); err != nil {
			t.Errorf("first Ingest() error = %v", err)
		}
	}()

	<-started
	if _, err := svc.Ingest(context.Background(), "admin", service.IngestRequest{Path: "/tmp/second.md"}); !errors.Is(err, service.ErrIngestionInProgress) {
		t.Errorf("concurrent Ingest() error = %v, want %v", err, service.ErrIngestionInProgress)
	}
	if _, err := svc.IngestDir(context.Background(), "admin", "/tmp/docs", false); !errors.Is(err, service.ErrIngestionInProgress) {
		t.Errorf("concurrent IngestDir() error = %v, want %v", err, service.ErrIngestionInProgress)
	}

	close(release)
	wg.Wait()

	if _, err := svc.Ingest(context.Background(), "admin", service.IngestRequest{Path: "/tmp/third.md"}); err != nil {
		t.Errorf("Ingest() after release error = %v", err)
	}
}

func TestDocumentService_IngestDir(t *testing.T) {
	svc, m := newTestService(t)
	want := &indexer.DirResult{Files: 2, Chunks: 7, Failed: map[string]error{}}
	m.ingester.EXPECT().IngestDir(gomock.Any(), "/srv/docs", docstore.GlobalScope).Return(want, nil)

	got, err := svc.IngestDir(context.Background(), "admin", "/srv/docs", true)
	if err != nil {
		t.Fatalf("IngestDir() error = %v", err)
	}
	if got != want {
		t.Errorf("IngestDir() = %+v, want %+v", got, want)
	}

	if _, err := svc.IngestDir(context.Background(), "bob", "/srv/docs", false); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("IngestDir() by non-admin error = %v, want %v", err, service.ErrForbidden)
	}
}

func TestDocumentService_Answer(t *testing.T) {
	errLLM := errors.New("llm timeout")
	errStore := fmt.Errorf("failed to search: %w: %w", docstore.ErrStoreUnavailable, errors.New("refused"))

	tests := []struct {
		name      string
		question  string
		mockSetup func(m serviceMocks)
		wantErr   error
	}{
		{
			name:     "answered",
			question: "What is MMR?",
			mockSetup: func(m serviceMocks) {
				m.answerer.EXPECT().Answer(gomock.Any(), "What is MMR?", "bob", gomock.Any()).
					Return(&rag.AnswerResult{Answer: "Maximal marginal relevance."}, nil)
			},
		},
		{
			name:      "blank question",
			question:  "   ",
			mockSetup: func(serviceMocks) {},
			wantErr:   service.ErrInvalidInput,
		},
		{
			name:     "llm failure",
			question: "q",
			mockSetup: func(m serviceMocks) {
				m.answerer.EXPECT().Answer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errLLM)
			},
			wantErr: service.ErrExternalService,
		},
		{
			name:     "store failure",
			question: "q",
			mockSetup: func(m serviceMocks) {
				m.answerer.EXPECT().Answer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errStore)
			},
			wantErr: service.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.mockSetup(m)

			result, err := svc.Answer(context.Background(), tt.question, "bob", nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Answer() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Answer() unexpected error = %v", err)
			}
			if result.Answer != "Maximal marginal relevance." {
				t.Errorf("Answer() = %q", result.Answer)
			}
		})
	}
}

func TestDocumentService_Query(t *testing.T) {
	svc, m := newTestService(t)
	chunks := []indexer.Chunk{{ChunkID: "0_0", Source: "a.md"}}
	m.answerer.EXPECT().Query(gomock.Any(), "q", "bob").Return(chunks, nil)

	got, err := svc.Query(context.Background(), "q", "bob")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 1 || got[0].ChunkID != "0_0" {
		t.Errorf("Query() = %+v", got)
	}

	if _, err := svc.Query(context.Background(), "", "bob"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Query(\"\") error = %v, want %v", err, service.ErrInvalidInput)
	}
}

func TestDocumentService_ListDocuments(t *testing.T) {
	svc, m := newTestService(t)
	docs := map[string]docstore.DocumentInfo{"guide.md": {UserID: "GLOBAL", Count: 3}}
	m.index.EXPECT().ListDocuments(gomock.Any()).Return(docs)

	got, err := svc.ListDocuments(context.Background(), "admin")
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if got["guide.md"].Count != 3 {
		t.Errorf("ListDocuments() = %+v", got)
	}

	if _, err := svc.ListDocuments(context.Background(), "carol"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("ListDocuments() by non-admin error = %v, want %v", err, service.ErrForbidden)
	}
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	tests := []struct {
		name      string
		actor     string
		source    string
		mockSetup func(m serviceMocks)
		want      bool
		wantErr   error
	}{
		{
			name:   "deleted and forgotten",
			actor:  "admin",
			source: "guide.md",
			mockSetup: func(m serviceMocks) {
				gomock.InOrder(
					m.index.EXPECT().Delete(gomock.Any(), "guide.md").Return(true),
					m.ingester.EXPECT().Forget(gomock.Any(), "guide.md").Return(nil),
				)
			},
			want: true,
		},
		{
			name:   "forget failure is not fatal",
			actor:  "admin",
			source: "guide.md",
			mockSetup: func(m serviceMocks) {
				m.index.EXPECT().Delete(gomock.Any(), "guide.md").Return(true)
				m.ingester.EXPECT().Forget(gomock.Any(), "guide.md").Return(errors.New("db locked"))
			},
			want: true,
		},
		{
			name:   "store failure keeps history",
			actor:  "admin",
			source: "guide.md",
			mockSetup: func(m serviceMocks) {
				m.index.EXPECT().Delete(gomock.Any(), "guide.md").Return(false)
			},
			want: false,
		},
		{
			name:      "not an admin",
			actor:     "bob",
			source:    "guide.md",
			mockSetup: func(serviceMocks) {},
			wantErr:   service.ErrForbidden,
		},
		{
			name:      "empty source",
			actor:     "admin",
			mockSetup: func(serviceMocks) {},
			wantErr:   service.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t)
			tt.mockSetup(m)

			got, err := svc.DeleteDocument(context.Background(), tt.actor, tt.source)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DeleteDocument() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeleteDocument() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DeleteDocument() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocumentService_Stats(t *testing.T) {
	svc, m := newTestService(t)
	m.ingester.EXPECT().Stats(gomock.Any(), "BAAI/bge-m3").Return(&indexer.IngestionStats{DocsProcessed: 2}, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.DocsProcessed != 2 {
		t.Errorf("DocsProcessed = %d, want 2", stats.DocsProcessed)
	}
}

func TestDocumentService_Memory(t *testing.T) {
	svc, m := newTestService(t)
	m.memory.EXPECT().GetAll(gomock.Any(), "bob").Return([]storage.MemoryRecord{{Text: "Likes Go"}}, nil)

	records, err := svc.Memory(context.Background(), "bob")
	if err != nil {
		t.Fatalf("Memory() error = %v", err)
	}
	if len(records) != 1 || records[0].Text != "Likes Go" {
		t.Errorf("Memory() = %+v", records)
	}

	if _, err := svc.Memory(context.Background(), ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Memory(\"\") error = %v, want %v", err, service.ErrInvalidInput)
	}
}
