package loader

import (
	"context"
	"errors"
	"testing"
)

type stubFileLoader struct {
	content []byte
	err     error
}

func (s *stubFileLoader) GetFileBytes(ctx context.Context, file DocumentFile) ([]byte, error) {
	return s.content, s.err
}

func TestExtractTextRejectsUnsupportedExtension(t *testing.T) {
	extractor := NewTextExtractor(&stubFileLoader{content: []byte("irrelevant")})

	for _, path := range []string{"notes.txt", "data.csv", "report"} {
		_, err := extractor.ExtractText(context.Background(), path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ExtractText(%q) error = %v, want ErrUnsupportedFormat", path, err)
		}
	}
}

func TestExtractTextPropagatesReadErrors(t *testing.T) {
	readErr := errors.New("no such file")
	extractor := NewTextExtractor(&stubFileLoader{err: readErr})

	_, err := extractor.ExtractText(context.Background(), "missing.pdf")
	if !errors.Is(err, readErr) {
		t.Errorf("ExtractText() error = %v, want wrapped %v", err, readErr)
	}
}

func TestExtractTextRejectsCorruptPDF(t *testing.T) {
	extractor := NewTextExtractor(&stubFileLoader{content: []byte("not a pdf")})

	if _, err := extractor.ExtractText(context.Background(), "corrupt.pdf"); err == nil {
		t.Error("ExtractText() accepted corrupt PDF content")
	}
}

func TestCacheKeyPrefersID(t *testing.T) {
	if got := CacheKey(DocumentFile{ID: "42", FilePath: "/tmp/a.pdf"}); got != "42" {
		t.Errorf("CacheKey() = %q, want %q", got, "42")
	}
	if got := CacheKey(DocumentFile{FilePath: "/tmp/a.pdf"}); got != "/tmp/a.pdf" {
		t.Errorf("CacheKey() = %q, want %q", got, "/tmp/a.pdf")
	}
}
