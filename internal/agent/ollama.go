package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// OllamaAgent drives a local Ollama model. This is the default backend.
type OllamaAgent struct {
	client *api.Client
	model  string
}

// NewOllamaAgent connects to an Ollama server, e.g. "http://localhost:11434".
func NewOllamaAgent(hostURL, model string) (*OllamaAgent, error) {
	parsed, err := url.Parse(hostURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", hostURL, err)
	}
	return &OllamaAgent{
		client: api.NewClient(parsed, http.DefaultClient),
		model:  model,
	}, nil
}

func (a *OllamaAgent) Converse(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: a.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
	}

	var response api.ChatResponse
	err := a.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	if response.Message.Content == "" {
		return "", fmt.Errorf("ollama returned empty response")
	}
	return response.Message.Content, nil
}

// Ping checks server reachability by listing local models.
func (a *OllamaAgent) Ping(ctx context.Context) error {
	if _, err := a.client.List(ctx); err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	return nil
}
