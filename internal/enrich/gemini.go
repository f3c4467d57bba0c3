package enrich

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator produces enrichment text directly against the
// Gemini API: one call for the about section, one per project.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator with the given key and model.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	about, err := g.generateText(ctx, aboutPrompt(req))
	if err != nil {
		return Result{}, fmt.Errorf("about section: %w", err)
	}

	descriptions := make([]string, 0, len(req.Projects))
	for _, p := range req.Projects {
		desc, err := g.generateText(ctx, projectPrompt(p))
		if err != nil {
			return Result{}, fmt.Errorf("project %q: %w", p.Name, err)
		}
		descriptions = append(descriptions, desc)
	}

	return Result{About: about, ProjectDescriptions: descriptions}, nil
}

func (g *GeminiGenerator) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

func aboutPrompt(req Request) string {
	skills := "Not specified"
	if len(req.Skills) > 0 {
		skills = strings.Join(req.Skills, ", ")
	}
	return fmt.Sprintf(`Write a professional "About Me" section (2-3 paragraphs) for a portfolio website.
Name: %s
Professional Title: %s
Skills: %s

Make it engaging, professional, and highlight their expertise and passion.`, req.Name, req.Title, skills)
}

func projectPrompt(p ProjectRef) string {
	techs := "Not specified"
	if len(p.Technologies) > 0 {
		techs = strings.Join(p.Technologies, ", ")
	}
	return fmt.Sprintf(`Write a brief project description (2-3 sentences) for a portfolio website.
Project Name: %s
Technologies: %s

Make it concise, highlight the key features and technologies used.`, p.Name, techs)
}
