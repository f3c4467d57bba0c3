package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIStub(t *testing.T, handler http.HandlerFunc) *OpenAIGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &OpenAIGenerator{
		apiKey:     "sk-test",
		baseURL:    srv.URL,
		model:      DefaultOpenAIModel,
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var requests []openAIRequest
	gen := openAIStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		content := "  About Ada.  "
		if len(requests) > 1 {
			content = "Engine description."
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	})

	res, err := gen.Generate(context.Background(), Request{
		Name: "Ada", Title: "Analyst",
		Skills:   []string{"Go"},
		Projects: []ProjectRef{{Name: "Engine", Technologies: []string{"Brass"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "About Ada.", res.About)
	assert.Equal(t, []string{"Engine description."}, res.ProjectDescriptions)

	// One call for the about section, one per project, with the
	// respective token budgets.
	require.Len(t, requests, 2)
	assert.Equal(t, "gpt-4", requests[0].Model)
	assert.Equal(t, 300, requests[0].MaxTokens)
	assert.Contains(t, requests[0].Messages[0].Content, `"About Me" section`)
	assert.Contains(t, requests[0].Messages[0].Content, "Name: Ada")
	assert.Equal(t, 150, requests[1].MaxTokens)
	assert.Contains(t, requests[1].Messages[0].Content, "Project Name: Engine")
	assert.Contains(t, requests[1].Messages[0].Content, "Technologies: Brass")
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	gen := openAIStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := gen.Generate(context.Background(), Request{Name: "Ada", Title: "Analyst"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	gen := openAIStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := gen.Generate(context.Background(), Request{Name: "Ada", Title: "Analyst"})
	assert.Error(t, err)
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator("", "")
	assert.Error(t, err)

	gen, err := NewOpenAIGenerator("sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, gen.model)
}
