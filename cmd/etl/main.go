// Command etl processes investigative documents into timeline graphs
// and loads them into Neo4j.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/investicat/etl/internal/util"
	"github.com/investicat/etl/pkg/ai"
	oai "github.com/investicat/etl/pkg/ai/ollama"
	gai "github.com/investicat/etl/pkg/ai/openai"
	"github.com/investicat/etl/pkg/logger"
	"github.com/investicat/etl/pkg/logger/console"
	"github.com/investicat/etl/pkg/store"
	neo4jstore "github.com/investicat/etl/pkg/store/neo4j"
)

var rootCmd = &cobra.Command{
	Use:   "etl",
	Short: "Document-to-timeline graph processing",
	Long: `etl extracts timeline events from investigative documents (PDF/DOCX),
normalizes them into a document graph and loads the result into Neo4j.

Event extraction uses the configured model (AI_ADAPTER, AI_CHAT_URL,
AI_CHAT_KEY, AI_EXTRACT_MODEL); without one, a deterministic pattern
matcher runs instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	})
	logger.Init(consoleLogger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}

// newAIClient builds the model client from the environment. A nil
// return means no model is configured and extraction falls back to
// pattern matching.
func newAIClient() ai.TimelineAIClient {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewTimelineOllamaClient(oai.NewTimelineOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			SummaryModel:    util.GetEnv("AI_SUMMARY_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),
		})
		if err != nil {
			logger.Fatal("could not create ollama client", "err", err)
		}
		return client
	default:
		client := gai.NewTimelineOpenAIClient(gai.NewTimelineOpenAIClientParams{
			ExtractionModel: util.GetEnvString("AI_EXTRACT_MODEL", "gpt-4o-mini"),
			SummaryModel:    util.GetEnv("AI_SUMMARY_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
		if client == nil {
			// Keep the interface nil, not a typed nil pointer.
			return nil
		}
		return client
	}
}

// newStorage builds the Neo4j storage from the environment. Connect is
// left to the caller.
func newStorage() store.GraphStorage {
	return neo4jstore.NewNeo4jGraphStorage(neo4jstore.NewNeo4jGraphStorageParams{
		URI:      util.GetEnvString("NEO4J_URI", "neo4j://localhost:7687"),
		Username: util.GetEnvString("NEO4J_USERNAME", "neo4j"),
		Password: util.GetEnv("NEO4J_PASSWORD"),
		Database: util.GetEnv("NEO4J_DATABASE"),
	})
}

// connectStorage connects and ensures constraints exist, returning a
// cleanup func.
func connectStorage(ctx context.Context) (store.GraphStorage, func(), error) {
	storage := newStorage()
	if err := storage.Connect(ctx); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := storage.Close(context.Background()); err != nil {
			logger.Warn("failed to close storage", "err", err)
		}
	}

	if err := storage.CreateConstraints(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	return storage, cleanup, nil
}
