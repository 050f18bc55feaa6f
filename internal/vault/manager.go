package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Manager owns the upload staging directory under the data dir. Uploaded files
// live there only while they are being ingested.
type Manager struct {
	root string
}

// NewManager creates the staging directory if needed.
func NewManager(root string) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vault root %s: %w", abs, err)
	}
	return &Manager{root: abs}, nil
}

// Root returns the absolute staging directory.
func (m *Manager) Root() string {
	return m.root
}

// Save copies r into a fresh per-upload directory, keeping the base name of
// filename so the converter can dispatch on its extension. It returns the
// absolute path of the stored file.
func (m *Manager) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("invalid upload filename %q", filename)
	}

	dir := filepath.Join(m.root, uuid.New().String())
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(f, &ctxReader{ctx: ctx, r: r}); err != nil {
		_ = f.Close()
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to close upload: %w", err)
	}

	return path, nil
}

// Remove deletes a file stored by Save together with its upload directory.
// Paths outside the staging directory are rejected.
func (m *Manager) Remove(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if filepath.Dir(dir) != m.root {
		return fmt.Errorf("path %s is not a vault upload", path)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove upload %s: %w", path, err)
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
