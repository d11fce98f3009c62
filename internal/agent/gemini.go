package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAgent is the hosted-model alternative to the local Ollama backend,
// selected with AGENT_PROVIDER=gemini.
type GeminiAgent struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiAgent(ctx context.Context, apiKey, modelName string) (*GeminiAgent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)

	return &GeminiAgent{client: client, model: model}, nil
}

func (a *GeminiAgent) Close() {
	a.client.Close()
}

func (a *GeminiAgent) Converse(ctx context.Context, prompt string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(fmt.Sprintf("%v", part))
	}
	return b.String(), nil
}

// Ping is a no-op for the hosted backend; failures surface on first use.
func (a *GeminiAgent) Ping(ctx context.Context) error {
	return nil
}
