package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, genModel string) *Client {
	return NewWithOptions(baseURL, genModel, Options{})
}

func NewWithOptions(baseURL, genModel string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

// generateJSON asks the model for a JSON object. A zero temperature keeps
// field extraction repeatable.
func (c *Client) generateJSON(ctx context.Context, operation, prompt string) (string, error) {
	return c.generate(ctx, operation, generateRequest{
		Model:   c.genModel,
		Prompt:  prompt,
		Format:  "json",
		Options: map[string]any{"temperature": 0},
	})
}

func (c *Client) generateText(ctx context.Context, operation, prompt string) (string, error) {
	return c.generate(ctx, operation, generateRequest{Model: c.genModel, Prompt: prompt})
}

func (c *Client) generate(ctx context.Context, operation string, payload generateRequest) (string, error) {
	var response generateResponse
	call := func(ctx context.Context) error {
		var err error
		response, err = c.postGenerate(ctx, operation, payload)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama."+operation, call, classifyOllamaError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", resilience.AsTemporary("ollama "+operation, err, classifyOllamaError)
	}
	return strings.TrimSpace(response.Response), nil
}

// extractJSONObject strips markdown fences and chatter around the first
// JSON object in a model reply.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
