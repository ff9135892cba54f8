package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/investicat/etl/pkg/loader/docx"
	"github.com/investicat/etl/pkg/loader/pdf"
)

// ErrUnsupportedFormat is returned when a document's extension is neither
// .pdf nor .docx. It is an input error: fail fast, non-retryable.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DocumentFile identifies a source document to be processed into a
// timeline graph. The raw bytes are retrieved via the associated
// FileLoader.
type DocumentFile struct {
	ID       string
	FilePath string
}

// FileLoader defines the interface for loading the raw contents of a
// DocumentFile. Implementations may read from disk or any remote source.
type FileLoader interface {
	GetFileBytes(ctx context.Context, file DocumentFile) ([]byte, error)
}

// CacheKey returns the key under which a file's content is cached by
// loaders that memoize reads.
func CacheKey(file DocumentFile) string {
	if file.ID != "" {
		return file.ID
	}
	return file.FilePath
}

// TextExtractor extracts plain text from a PDF or DOCX document. It is a
// stateless I/O adapter: its only side effect is reading the file through
// the configured FileLoader.
type TextExtractor struct {
	files FileLoader
}

// NewTextExtractor creates a TextExtractor reading file bytes through the
// given loader.
func NewTextExtractor(files FileLoader) *TextExtractor {
	return &TextExtractor{files: files}
}

// ExtractText reads the document at path and returns its plain text.
// Dispatch is by file extension. Parse failures abort the pipeline; there
// is no partial-text fallback.
func (e *TextExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	content, err := e.files.GetFileBytes(ctx, DocumentFile{FilePath: path})
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := pdf.Parse(content)
		if err != nil {
			return "", fmt.Errorf("failed to parse PDF %s: %w", path, err)
		}
		return text, nil
	case ".docx":
		text, err := docx.Parse(content)
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX %s: %w", path, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s (only .pdf and .docx are supported)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
