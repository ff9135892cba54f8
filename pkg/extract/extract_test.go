package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/investicat/etl/pkg/ai"
)

type fakeAIClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeAIClient) GenerateCompletion(
	_ context.Context,
	_ string,
	_ ...ai.GenerateOption,
) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeAIClient) GenerateCompletionWithFormat(
	context.Context,
	string,
	string,
	string,
	any,
	...ai.GenerateOption,
) error {
	return errors.New("not implemented")
}

func (f *fakeAIClient) ResetMetrics()               {}
func (f *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

const fallbackText = "On January 15, 2024, Acme Corp announced a merger with Beta Inc in Chicago."

func TestExtractNoModelConfigured(t *testing.T) {
	e := NewExtractor(NewExtractorParams{})

	outcome := e.Extract(context.Background(), "doc.pdf", fallbackText)

	if outcome.Source != SourceFallback {
		t.Errorf("expected fallback source, got %q", outcome.Source)
	}
	if outcome.Reason == "" {
		t.Error("expected a reason for the fallback")
	}
	if len(outcome.Events) != 1 {
		t.Errorf("expected 1 fallback event, got %d", len(outcome.Events))
	}
}

func TestExtractModelSuccess(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "plain array",
			response: `[{"title": "Merger announced", "summary": "Acme and Beta merged.", "date": "2024-01-15", "location": "Chicago", "participants": ["Acme Corp"]}]`,
		},
		{
			name:     "fenced array",
			response: "```json\n[{\"title\": \"Merger announced\", \"summary\": \"Acme and Beta merged.\", \"date\": null, \"location\": null, \"participants\": []}]\n```",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeAIClient{response: tc.response}
			e := NewExtractor(NewExtractorParams{AI: client})

			outcome := e.Extract(context.Background(), "doc.pdf", fallbackText)

			if outcome.Source != SourceLLM {
				t.Fatalf("expected llm source, got %q (reason: %s)", outcome.Source, outcome.Reason)
			}
			if len(outcome.Events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(outcome.Events))
			}
			if outcome.Events[0].Title != "Merger announced" {
				t.Errorf("unexpected title %q", outcome.Events[0].Title)
			}
		})
	}
}

func TestExtractDegradesToFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{
			name:     "model error",
			response: "",
			err:      errors.New("connection refused"),
		},
		{
			name:     "top-level object instead of array",
			response: `{"events": []}`,
		},
		{
			name:     "prose instead of json",
			response: "I could not find any events in this document, sorry.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeAIClient{response: tc.response, err: tc.err}
			e := NewExtractor(NewExtractorParams{AI: client, MaxAttempts: 2})

			outcome := e.Extract(context.Background(), "doc.pdf", fallbackText)

			if outcome.Source != SourceFallback {
				t.Fatalf("expected fallback source, got %q", outcome.Source)
			}
			if outcome.Reason == "" {
				t.Error("expected a reason for the fallback")
			}
			// The degraded path still yields the pattern-matched event.
			if len(outcome.Events) != 1 {
				t.Errorf("expected 1 fallback event, got %d", len(outcome.Events))
			}
		})
	}
}

func TestExtractRetriesModelErrors(t *testing.T) {
	client := &fakeAIClient{err: errors.New("transient")}
	e := NewExtractor(NewExtractorParams{AI: client, MaxAttempts: 3})

	e.Extract(context.Background(), "doc.pdf", fallbackText)

	if client.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", client.calls)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		budget int
		want   string
	}{
		{name: "under budget", text: "short", budget: 10, want: "short"},
		{name: "exact budget", text: "12345", budget: 5, want: "12345"},
		{name: "over budget", text: "1234567890", budget: 4, want: "1234"},
		{name: "multibyte boundary", text: "héllo wörld", budget: 6, want: "héllo "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateText(tc.text, tc.budget); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
