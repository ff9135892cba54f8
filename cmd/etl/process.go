package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/investicat/etl/internal/util"
	"github.com/investicat/etl/pkg/common"
	"github.com/investicat/etl/pkg/extract"
	"github.com/investicat/etl/pkg/graph"
	"github.com/investicat/etl/pkg/loader"
	loaderio "github.com/investicat/etl/pkg/loader/io"
	"github.com/investicat/etl/pkg/logger"
	"github.com/investicat/etl/pkg/summary"
)

var (
	processOut      string
	processLoad     bool
	processSummary  bool
	processTitle    string
	processParallel int
)

func init() {
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "write the result JSON to a file instead of stdout")
	processCmd.Flags().BoolVar(&processLoad, "load", false, "load the graphs into Neo4j after processing")
	processCmd.Flags().BoolVar(&processSummary, "summary", false, "generate a model-written investigation summary")
	processCmd.Flags().StringVar(&processTitle, "title", "Untitled Investigation", "investigation title used in summaries")
	processCmd.Flags().IntVar(&processParallel, "parallel", 4, "maximum documents processed concurrently")
	rootCmd.AddCommand(processCmd)
}

// documentResult is the per-document section of the process output.
type documentResult struct {
	File     string                 `json:"file"`
	Graph    common.DocumentGraph   `json:"graph"`
	Outcome  extract.Outcome        `json:"extraction"`
	Timeline []common.TimelineEntry `json:"timeline"`
	Insights summary.Insights       `json:"insights"`
}

// processOutput is the full process output contract.
type processOutput struct {
	Documents      []documentResult              `json:"documents"`
	EntityOverlaps []summary.EntityOverlap       `json:"entity_overlaps,omitempty"`
	Summary        *summary.InvestigationSummary `json:"summary,omitempty"`
}

var processCmd = &cobra.Command{
	Use:   "process <file>...",
	Short: "Extract timeline graphs from documents",
	Long: `Process one or more PDF/DOCX documents: extract text, detect timeline
events, normalize them into a document graph and project the timeline.

Examples:
  etl process report.pdf
  etl process --load --title "Acme Merger" report.pdf notes.docx
  etl process --summary -o result.json report.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	aiClient := newAIClient()

	processor := graph.NewProcessor(graph.NewProcessorParams{
		Texts: loader.NewTextExtractor(loaderio.NewFSFileLoader()),
		Events: extract.NewExtractor(extract.NewExtractorParams{
			AI:         aiClient,
			CharBudget: util.GetEnvInt("EXTRACT_CHAR_BUDGET", 0),
		}),
		Normalizer: graph.NewNormalizer(graph.NewNormalizerParams{}),
	})

	results, err := processor.ProcessDocuments(ctx, args, processParallel)
	if err != nil {
		return err
	}

	output := processOutput{Documents: make([]documentResult, 0, len(results))}
	graphs := make([]common.DocumentGraph, 0, len(results))

	var allEntries []common.TimelineEntry
	for i, result := range results {
		timeline := graph.ProjectTimeline(result.Graph)
		allEntries = append(allEntries, timeline...)
		graphs = append(graphs, result.Graph)

		output.Documents = append(output.Documents, documentResult{
			File:     args[i],
			Graph:    result.Graph,
			Outcome:  result.Outcome,
			Timeline: timeline,
			Insights: summary.ComputeInsights(timeline),
		})
	}

	if len(results) > 1 {
		output.EntityOverlaps = summary.FindEntityOverlaps(graphs)
	}

	if processSummary {
		generator := summary.NewGenerator(summary.NewGeneratorParams{AI: aiClient})
		s, err := generator.GenerateSummary(ctx, processTitle, allEntries)
		if err != nil {
			logger.Warn("summary generation skipped", "err", err)
		} else {
			output.Summary = &s
		}
	}

	if processLoad {
		storage, cleanup, err := connectStorage(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		for i, g := range graphs {
			if err := storage.LoadDocumentData(ctx, g); err != nil {
				return fmt.Errorf("failed to load %s: %w", args[i], err)
			}
		}
	}

	if aiClient != nil {
		metrics := aiClient.GetMetrics()
		logger.Info("model usage",
			"input_tokens", metrics.InputTokens,
			"output_tokens", metrics.OutputTokens,
			"duration_ms", metrics.DurationMs,
		)
	}

	return writeJSON(processOut, output)
}

// writeJSON writes v as indented JSON to path, or to stdout when path
// is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
