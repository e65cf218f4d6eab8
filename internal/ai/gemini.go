package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"resumebuilder-backend/internal/shared/telemetry"
)

// GeminiClient implements Client using the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient constructs a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("AI_MODEL is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Rewrite returns a professionally toned version of one description.
func (c *GeminiClient) Rewrite(ctx context.Context, text string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(BuildRewritePrompt(text)))
	if err != nil {
		return "", fmt.Errorf("gemini rewrite: %w", err)
	}
	out := strings.TrimSpace(responseText(resp))
	if out == "" {
		return "", fmt.Errorf("gemini rewrite: empty response")
	}
	return out, nil
}

// Polish rewrites the free-text fields of a whole document for tone.
func (c *GeminiClient) Polish(ctx context.Context, input PolishInput) (PolishResult, error) {
	prompt, err := BuildPolishPrompt(input)
	if err != nil {
		return PolishResult{}, err
	}

	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return PolishResult{}, fmt.Errorf("gemini polish: %w", err)
	}

	raw := strings.TrimSpace(responseText(resp))
	var result PolishResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		telemetry.Warn("ai.polish.invalid_json", map[string]any{"error": err.Error()})
		return PolishResult{}, fmt.Errorf("gemini polish: invalid JSON: %w", err)
	}
	return result, nil
}

// Structure extracts resume fields from free text, for imports.
func (c *GeminiClient) Structure(ctx context.Context, text string) (StructuredResume, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	resp, err := model.GenerateContent(ctx, genai.Text(BuildStructurePrompt(text)))
	if err != nil {
		return StructuredResume{}, fmt.Errorf("gemini structure: %w", err)
	}

	raw := strings.TrimSpace(responseText(resp))
	var result StructuredResume
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		telemetry.Warn("ai.structure.invalid_json", map[string]any{"error": err.Error()})
		return StructuredResume{}, fmt.Errorf("gemini structure: invalid JSON: %w", err)
	}
	return result, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

var _ Client = (*GeminiClient)(nil)
