package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeminiProvider implements EmbeddingProvider on the Gemini
// text-embedding-004 REST API.
type GeminiProvider struct {
	apiKey string
	model  string
	client *http.Client
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		model:  "text-embedding-004",
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiEmbeddingRequest struct {
	Model   string `json:"model"`
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
	TaskType string `json:"taskType,omitempty"`
}

type geminiEmbeddingResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (p *GeminiProvider) Dimensions() int {
	return 768
}

func (p *GeminiProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	geminiReq := geminiEmbeddingRequest{
		Model:    p.model,
		TaskType: "RETRIEVAL_DOCUMENT",
	}
	geminiReq.Content.Parts = []struct {
		Text string `json:"text"`
	}{{Text: text}}

	reqBody, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		p.model,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Transient: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Transient: true, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider:  "gemini",
			Transient: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError,
			Err:       fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var geminiResp geminiEmbeddingResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}
	return normalizeVector(geminiResp.Embedding.Values), nil
}

func (p *GeminiProvider) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := p.Generate(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}
