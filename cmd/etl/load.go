package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/investicat/etl/pkg/common"
	"github.com/investicat/etl/pkg/logger"
)

func init() {
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <graph.json>...",
	Short: "Load previously processed graphs into Neo4j",
	Long: `Load document graphs saved by "etl process -o" into Neo4j. Files may
contain either a single graph or a full process output with a documents
list. Loading is upsert-based and safe to repeat.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	storage, cleanup, err := connectStorage(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, path := range args {
		graphs, err := readGraphs(path)
		if err != nil {
			return err
		}

		for _, g := range graphs {
			if err := storage.LoadDocumentData(ctx, g); err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
		}

		logger.Info("loaded graph file", "file", path, "graphs", len(graphs))
	}

	return nil
}

// readGraphs accepts both output shapes: a bare DocumentGraph and the
// process command's {documents: [{graph: ...}]} envelope.
func readGraphs(path string) ([]common.DocumentGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var envelope struct {
		Documents []struct {
			Graph common.DocumentGraph `json:"graph"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Documents) > 0 {
		graphs := make([]common.DocumentGraph, 0, len(envelope.Documents))
		for _, doc := range envelope.Documents {
			graphs = append(graphs, doc.Graph)
		}
		return graphs, nil
	}

	var g common.DocumentGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%s is not a graph JSON file: %w", path, err)
	}
	if len(g.Nodes.Documents) == 0 {
		return nil, fmt.Errorf("%s contains no document nodes", path)
	}
	return []common.DocumentGraph{g}, nil
}
