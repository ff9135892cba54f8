package graph

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/investicat/etl/pkg/common"
	"github.com/investicat/etl/pkg/extract"
	"github.com/investicat/etl/pkg/loader"
	loaderio "github.com/investicat/etl/pkg/loader/io"
)

func writeDocx(t *testing.T, dir string, name string, text string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	documentXML := fmt.Sprintf(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:body>
</w:document>`, text)
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func newTestProcessor() *Processor {
	return NewProcessor(NewProcessorParams{
		Texts:      loader.NewTextExtractor(loaderio.NewFSFileLoader()),
		Events:     extract.NewExtractor(extract.NewExtractorParams{}),
		Normalizer: NewNormalizer(NewNormalizerParams{Now: fixedClock}),
	})
}

func TestProcessDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDocx(t, dir, "merger.docx",
		"On January 15, 2024, Acme Corp announced a merger with Beta Inc in Chicago.")

	result, err := newTestProcessor().ProcessDocument(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	if result.Outcome.Source != extract.SourceFallback {
		t.Errorf("expected fallback extraction without a model, got %q", result.Outcome.Source)
	}

	g := result.Graph
	if len(g.Nodes.Documents) != 1 {
		t.Fatalf("expected 1 document node, got %d", len(g.Nodes.Documents))
	}
	if g.Nodes.Documents[0].Filename != "merger.docx" {
		t.Errorf("unexpected filename %q", g.Nodes.Documents[0].Filename)
	}
	if len(g.Nodes.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(g.Nodes.Events))
	}
	if len(g.Nodes.Dates) != 1 || g.Nodes.Dates[0].Date != "2024-01-15T00:00:00Z" {
		t.Errorf("unexpected dates: %+v", g.Nodes.Dates)
	}
	if countRelationships(g, common.RelMentions) != 1 {
		t.Error("expected a mentions edge from the document")
	}
}

func TestProcessDocumentTextExtractionFailureAborts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := newTestProcessor().ProcessDocument(context.Background(), path)
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestProcessDocumentsIndependentScopes(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDocx(t, dir, "a.docx", "Acme Corp announced a merger with Beta Inc in Chicago today."),
		writeDocx(t, dir, "b.docx", "Gamma Holdings announced a partnership deal in Chicago yesterday."),
	}

	results, err := newTestProcessor().ProcessDocuments(context.Background(), paths, 2)
	if err != nil {
		t.Fatalf("ProcessDocuments() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Results keep input order.
	if results[0].Graph.Nodes.Documents[0].Filename != "a.docx" {
		t.Errorf("result 0 is %q", results[0].Graph.Nodes.Documents[0].Filename)
	}
	if results[1].Graph.Nodes.Documents[0].Filename != "b.docx" {
		t.Errorf("result 1 is %q", results[1].Graph.Nodes.Documents[0].Filename)
	}

	// Identity scopes never leak across documents: both runs restart
	// their sequential ids, and both documents get their own Chicago
	// location node under loc_1.
	for i, r := range results {
		if r.Graph.Nodes.Events[0].ID != "event_1" {
			t.Errorf("result %d: expected event_1, got %q", i, r.Graph.Nodes.Events[0].ID)
		}
		if len(r.Graph.Nodes.Locations) != 1 || r.Graph.Nodes.Locations[0].ID != "loc_1" {
			t.Errorf("result %d: unexpected locations %+v", i, r.Graph.Nodes.Locations)
		}
	}
	if results[0].Graph.Nodes.Documents[0].ID == results[1].Graph.Nodes.Documents[0].ID {
		t.Error("document ids must differ across runs")
	}
}
