package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/investicat/etl/pkg/ai"
	"github.com/investicat/etl/pkg/common"
)

// TimelineHighlight is one significant event the model singled out.
type TimelineHighlight struct {
	Date         string `json:"date" jsonschema_description:"ISO date of the event"`
	Event        string `json:"event" jsonschema_description:"Event title"`
	Significance string `json:"significance" jsonschema_description:"Why this event matters to the investigation"`
}

// InvestigationSummary is the structured output the model produces for
// a timeline.
type InvestigationSummary struct {
	ExecutiveSummary string              `json:"executive_summary" jsonschema_description:"Two to four sentence overview of the investigation"`
	KeyFindings      []string            `json:"key_findings" jsonschema_description:"The central facts established by the timeline"`
	Highlights       []TimelineHighlight `json:"highlights" jsonschema_description:"The most significant timeline events"`
}

// Generator produces model-written summaries over projected timelines.
type Generator struct {
	ai ai.TimelineAIClient
}

// NewGeneratorParams contains configuration options for creating a new
// Generator.
type NewGeneratorParams struct {
	AI ai.TimelineAIClient
}

// NewGenerator creates a new Generator.
func NewGenerator(params NewGeneratorParams) *Generator {
	return &Generator{ai: params.AI}
}

// ErrNoModel is returned when summary generation is requested without a
// configured model. Unlike event extraction there is no deterministic
// fallback for narrative text.
var ErrNoModel = errors.New("summary: no model configured")

// GenerateSummary asks the model for a structured summary of the
// timeline.
func (g *Generator) GenerateSummary(
	ctx context.Context,
	title string,
	timeline []common.TimelineEntry,
) (InvestigationSummary, error) {
	if g.ai == nil {
		return InvestigationSummary{}, ErrNoModel
	}
	if len(timeline) == 0 {
		return InvestigationSummary{}, errors.New("summary: empty timeline")
	}

	prompt := fmt.Sprintf(ai.SummaryPrompt, title, RenderTimeline(timeline))

	var out InvestigationSummary
	err := g.ai.GenerateCompletionWithFormat(ctx,
		"investigation_summary",
		"Structured summary of an investigation timeline",
		prompt,
		&out,
		ai.WithTemperature(0.3),
	)
	if err != nil {
		return InvestigationSummary{}, fmt.Errorf("summary generation failed: %w", err)
	}

	return out, nil
}

// RenderTimeline flattens a timeline into the plain-text layout used
// as model context, one event per line.
func RenderTimeline(timeline []common.TimelineEntry) string {
	var b strings.Builder
	for _, entry := range timeline {
		date := entry.Date
		if date == "" {
			date = "undated"
		}

		fmt.Fprintf(&b, "- %s: %s", date, entry.Event)
		if entry.Location != "" {
			fmt.Fprintf(&b, " (at %s)", entry.Location)
		}
		if len(entry.Entities) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(entry.Entities, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
