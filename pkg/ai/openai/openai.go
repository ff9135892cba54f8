package openai

import (
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/investicat/etl/pkg/ai"
)

// TimelineOpenAIClient implements ai.TimelineAIClient against an
// OpenAI-compatible chat-completion endpoint.
//
// A TimelineOpenAIClient should be created using NewTimelineOpenAIClient.
type TimelineOpenAIClient struct {
	extractionModel string
	summaryModel    string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewTimelineOpenAIClientParams defines the configuration for creating a
// new TimelineOpenAIClient. ExtractionModel is used for event extraction,
// SummaryModel for investigation summaries; both default to the
// extraction model when only one is set.
type NewTimelineOpenAIClientParams struct {
	ExtractionModel string
	SummaryModel    string

	ChatURL string
	ChatKey string
}

// NewTimelineOpenAIClient creates a client configured with the provided
// parameters. It returns nil when no API key is configured, which callers
// treat as "LLM unavailable, use fallback extraction".
func NewTimelineOpenAIClient(params NewTimelineOpenAIClientParams) *TimelineOpenAIClient {
	if params.ChatKey == "" {
		return nil
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.ChatKey),
	}
	if params.ChatURL != "" {
		options = append(options, option.WithBaseURL(params.ChatURL))
	}
	client := openai.NewClient(options...)

	summaryModel := params.SummaryModel
	if summaryModel == "" {
		summaryModel = params.ExtractionModel
	}

	return &TimelineOpenAIClient{
		extractionModel: params.ExtractionModel,
		summaryModel:    summaryModel,
		chatURL:         params.ChatURL,
		chatKey:         params.ChatKey,
		ChatClient:      &client,
	}
}

func (c *TimelineOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}

// ResetMetrics clears the accumulated usage metrics.
func (c *TimelineOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the usage metrics accumulated since the last reset.
func (c *TimelineOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
