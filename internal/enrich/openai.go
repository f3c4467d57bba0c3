package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4"

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// Token budgets per call: the about section gets room for 2-3
// paragraphs, a project description for 2-3 sentences.
const (
	aboutMaxTokens   = 300
	projectMaxTokens = 150
)

// OpenAIGenerator produces enrichment text against the OpenAI chat
// completions API: one call for the about section, one per project.
// When both providers are configured it takes precedence over Gemini.
type OpenAIGenerator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIGenerator creates a generator with the given key and model.
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{
		apiKey:     apiKey,
		baseURL:    defaultOpenAIBaseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	about, err := g.complete(ctx, aboutPrompt(req), aboutMaxTokens)
	if err != nil {
		return Result{}, fmt.Errorf("about section: %w", err)
	}

	descriptions := make([]string, 0, len(req.Projects))
	for _, p := range req.Projects {
		desc, err := g.complete(ctx, projectPrompt(p), projectMaxTokens)
		if err != nil {
			return Result{}, fmt.Errorf("project %q: %w", p.Name, err)
		}
		descriptions = append(descriptions, desc)
	}

	return Result{About: about, ProjectDescriptions: descriptions}, nil
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model:     g.model,
		Messages:  []openAIMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openai returned %d: %s", resp.StatusCode, detail)
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("openai error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
