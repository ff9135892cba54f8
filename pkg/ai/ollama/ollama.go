package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/ollama/ollama/api"

	"github.com/investicat/etl/pkg/ai"
)

// TimelineOllamaClient implements ai.TimelineAIClient against a
// locally-hosted Ollama server.
type TimelineOllamaClient struct {
	extractionModel string
	summaryModel    string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	baseURL    *url.URL
	httpClient *http.Client

	Client *api.Client
}

// NewTimelineOllamaClientParams contains configuration options for
// creating a new TimelineOllamaClient.
type NewTimelineOllamaClientParams struct {
	ExtractionModel string
	SummaryModel    string

	BaseURL string
	ApiKey  string
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewTimelineOllamaClient creates a new Ollama-based AI client connecting
// to the server at BaseURL.
func NewTimelineOllamaClient(params NewTimelineOllamaClientParams) (*TimelineOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	cli := api.NewClient(u, httpClient)

	summaryModel := params.SummaryModel
	if summaryModel == "" {
		summaryModel = params.ExtractionModel
	}

	return &TimelineOllamaClient{
		extractionModel: params.ExtractionModel,
		summaryModel:    summaryModel,
		baseURL:         u,
		httpClient:      httpClient,
		Client:          cli,
	}, nil
}

// ResetMetrics clears all accumulated token and timing metrics.
func (c *TimelineOllamaClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the metrics accumulated since the last reset.
func (c *TimelineOllamaClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *TimelineOllamaClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}
