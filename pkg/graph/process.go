package graph

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/investicat/etl/pkg/common"
	"github.com/investicat/etl/pkg/extract"
	"github.com/investicat/etl/pkg/loader"
	"github.com/investicat/etl/pkg/logger"
)

// ProcessResult is the output of one document run: the normalized
// graph plus the extraction outcome, so degraded (fallback) extraction
// stays observable to callers instead of vanishing into a log line.
type ProcessResult struct {
	Graph   common.DocumentGraph `json:"graph"`
	Outcome extract.Outcome      `json:"extraction"`
}

// Processor runs the full per-document pipeline: text extraction,
// event extraction and graph normalization.
type Processor struct {
	texts      *loader.TextExtractor
	events     *extract.Extractor
	normalizer *Normalizer
}

// NewProcessorParams contains configuration options for creating a new
// Processor.
type NewProcessorParams struct {
	Texts      *loader.TextExtractor
	Events     *extract.Extractor
	Normalizer *Normalizer
}

// NewProcessor creates a new Processor.
func NewProcessor(params NewProcessorParams) *Processor {
	return &Processor{
		texts:      params.Texts,
		events:     params.Events,
		normalizer: params.Normalizer,
	}
}

// ProcessDocument runs the pipeline for a single file. Text extraction
// failure aborts the run; extraction and normalization degrade locally
// and always yield a graph.
func (p *Processor) ProcessDocument(ctx context.Context, path string) (ProcessResult, error) {
	filename := filepath.Base(path)

	text, err := p.texts.ExtractText(ctx, path)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("text extraction failed for %s: %w", filename, err)
	}

	logger.Info("extracted text",
		"file", filename,
		"chars", len(text),
	)

	outcome := p.events.Extract(ctx, filename, text)

	logger.Info("extracted events",
		"file", filename,
		"events", len(outcome.Events),
		"source", outcome.Source,
	)

	doc := common.Document{
		ID:       NewDocumentID(),
		Filename: filename,
	}

	return ProcessResult{
		Graph:   p.normalizer.Normalize(doc, outcome.Events),
		Outcome: outcome,
	}, nil
}

// ProcessDocuments runs the pipeline for several files concurrently,
// at most maxParallel at a time. Results keep the input order. Each
// document gets its own id and dedup scope, so runs never contaminate
// each other; a failing document fails the batch.
func (p *Processor) ProcessDocuments(ctx context.Context, paths []string, maxParallel int) ([]ProcessResult, error) {
	if maxParallel <= 0 {
		maxParallel = 4
	}

	results := make([]ProcessResult, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallel)

	for i, path := range paths {
		eg.Go(func() error {
			result, err := p.ProcessDocument(ctx, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
