package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"docqa/internal/contextutil"
)

// maxFileSize caps in-memory conversion.
const maxFileSize = 200 << 20

// SupportedExtensions lists the lower-case extensions Convert accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".md", ".markdown", ".txt"}

// IsSupported reports whether path has an extension Convert accepts.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Converter turns PDF, DOCX, Markdown and plain-text files into Markdown text.
type Converter struct{}

// New creates a converter.
func New() *Converter {
	return &Converter{}
}

// Convert reads the file at path and returns its content as Markdown.
// Every failure is a *ConversionError. A readable file without text converts to
// blank Markdown, which yields no chunks.
func (c *Converter) Convert(ctx context.Context, path string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := ctx.Err(); err != nil {
		return "", conversionError(path, "cancelled", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupported(path) {
		return "", conversionError(path, "unsupported extension "+ext, nil)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return "", conversionError(path, "cannot stat file", err)
	}
	if stat.Size() > maxFileSize {
		return "", conversionError(path, "file too large", nil)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", conversionError(path, "cannot read file", err)
	}

	var markdown string
	switch ext {
	case ".pdf":
		markdown, err = pdfToMarkdown(content)
	case ".docx":
		markdown, err = docxToMarkdown(content)
	default:
		markdown = string(content)
	}
	if err != nil {
		return "", conversionError(path, "corrupt "+strings.TrimPrefix(ext, ".")+" file", err)
	}

	if strings.TrimSpace(markdown) == "" {
		logger.WarnContext(ctx, "document has no text content", "path", path, "format", ext)
	}

	logger.DebugContext(ctx, "document converted", "path", path, "format", ext, "bytes", len(markdown))
	return markdown, nil
}
