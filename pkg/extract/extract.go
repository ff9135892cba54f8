// Package extract turns raw document text into candidate timeline events.
//
// Two strategies are available: an LLM-backed extraction that sends a
// bounded prefix of the text to a model and parses the returned JSON
// array defensively, and a deterministic pattern matcher used when no
// model is configured or the model's output cannot be salvaged. Model
// failures never fail the pipeline; they degrade to the pattern matcher.
package extract

import (
	"context"
	"fmt"

	"github.com/investicat/etl/internal/util"
	"github.com/investicat/etl/pkg/ai"
	"github.com/investicat/etl/pkg/common"
	"github.com/investicat/etl/pkg/logger"
)

const (
	// SourceLLM marks an outcome produced by the model strategy.
	SourceLLM = "llm"
	// SourceFallback marks an outcome produced by the pattern matcher.
	SourceFallback = "fallback"
)

const (
	defaultCharBudget  = 4000
	defaultMaxAttempts = 3
)

// Outcome is the result of one extraction run. Source records which
// strategy produced the events so callers and tests can observe degraded
// operation instead of guessing from log output.
type Outcome struct {
	Events []common.CandidateEvent `json:"events"`
	Source string                  `json:"source"`
	// Reason is set when Source is SourceFallback and explains why the
	// model path was not used.
	Reason string `json:"reason,omitempty"`
}

// Extractor produces candidate events from document text.
type Extractor struct {
	ai          ai.TimelineAIClient
	charBudget  int
	maxAttempts int
}

// NewExtractorParams contains configuration options for creating a new
// Extractor.
type NewExtractorParams struct {
	// AI is the model client. A nil client means every extraction uses
	// the pattern-matching strategy.
	AI ai.TimelineAIClient
	// CharBudget bounds how much document text is sent to the model.
	// Zero means the default of 4000 characters.
	CharBudget int
	// MaxAttempts is how often the model call is retried before falling
	// back. Zero means the default of 3.
	MaxAttempts int
}

// NewExtractor creates a new Extractor.
func NewExtractor(params NewExtractorParams) *Extractor {
	budget := params.CharBudget
	if budget <= 0 {
		budget = defaultCharBudget
	}
	attempts := params.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	return &Extractor{
		ai:          params.AI,
		charBudget:  budget,
		maxAttempts: attempts,
	}
}

// Extract produces candidate events from text. The model strategy is
// tried first when a client is configured; any model or parse failure
// degrades to the deterministic pattern matcher and is reported through
// the outcome's Source and Reason rather than as an error.
func (e *Extractor) Extract(ctx context.Context, filename string, text string) Outcome {
	if e.ai == nil {
		return Outcome{
			Events: ExtractFallback(text),
			Source: SourceFallback,
			Reason: "no model configured",
		}
	}

	events, err := e.extractWithModel(ctx, filename, text)
	if err != nil {
		logger.Warn("model extraction failed, using pattern fallback",
			"file", filename,
			"error", err,
		)
		return Outcome{
			Events: ExtractFallback(text),
			Source: SourceFallback,
			Reason: err.Error(),
		}
	}

	return Outcome{
		Events: events,
		Source: SourceLLM,
	}
}

func (e *Extractor) extractWithModel(
	ctx context.Context,
	filename string,
	text string,
) ([]common.CandidateEvent, error) {
	prompt := fmt.Sprintf(ai.ExtractPrompt, filename, truncateText(text, e.charBudget))

	response, err := util.RetryWithContext(ctx, e.maxAttempts, func(ctx context.Context) (string, error) {
		return e.ai.GenerateCompletion(ctx, prompt,
			ai.WithTemperature(0.1),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	// The response must be a JSON array at the top level. Objects,
	// prose, and unrepairable text all land here and trigger fallback.
	var events []common.CandidateEvent
	if err := ai.UnmarshalFlexible(response, &events); err != nil {
		return nil, fmt.Errorf("model returned non-array output: %w", err)
	}

	return events, nil
}

// truncateText bounds text to at most budget runes, cutting on a rune
// boundary so no partial UTF-8 sequence reaches the model.
func truncateText(text string, budget int) string {
	if len(text) <= budget {
		return text
	}

	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}
