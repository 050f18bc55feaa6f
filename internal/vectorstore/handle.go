package vectorstore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotOpen is returned by Shared before Open has succeeded.
var ErrNotOpen = errors.New("vector store not open")

// MemoryURL selects the in-process MemoryStore instead of a Qdrant server.
const MemoryURL = "memory://"

// Backend is a VectorStore with a connection lifecycle.
type Backend interface {
	VectorStore
	HealthCheck(ctx context.Context) error
	Close() error
}

// The process holds a single backend. Embedded and local backends take an
// exclusive lock, so a second independent handle would fail to open.
var (
	sharedMu    sync.Mutex
	sharedStore Backend
	sharedURL   string
)

// Open creates the process-wide store on first call and returns it on every later call.
// Opening again with a different URL is an error; Close first.
func Open(urlStr string) (Backend, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedStore != nil {
		if urlStr != sharedURL {
			return nil, errors.New("vector store already open with a different URL")
		}
		return sharedStore, nil
	}

	store, err := newBackend(urlStr)
	if err != nil {
		return nil, err
	}
	sharedStore = store
	sharedURL = urlStr
	return store, nil
}

func newBackend(urlStr string) (Backend, error) {
	if strings.HasPrefix(urlStr, MemoryURL) {
		return NewMemoryStore(), nil
	}
	return NewQdrantStore(urlStr)
}

// Shared returns the store opened by Open.
func Shared() (Backend, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedStore == nil {
		return nil, ErrNotOpen
	}
	return sharedStore, nil
}

// Close tears down the process-wide store. It is safe to call when nothing is open.
func Close() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedStore == nil {
		return nil
	}
	err := sharedStore.Close()
	sharedStore = nil
	sharedURL = ""
	return err
}
