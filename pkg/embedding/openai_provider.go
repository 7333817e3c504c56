package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const openaiEmbeddingDimensions = 1536

// OpenAIProvider implements EmbeddingProvider on the OpenAI embeddings
// API using text-embedding-3-small.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  openai.EmbeddingModel(model),
	}
}

func (p *OpenAIProvider) Dimensions() int {
	return openaiEmbeddingDimensions
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.GenerateBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (p *OpenAIProvider) GenerateBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, &ProviderError{Provider: "openai", Transient: isTransientOpenAI(err), Err: err}
	}
	if len(resp.Data) != len(texts) {
		return nil, &ProviderError{
			Provider: "openai",
			Err:      fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}

	vectors := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		vectors[item.Index] = normalizeVector(item.Embedding)
	}
	return vectors, nil
}

func isTransientOpenAI(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	// Network failures have no API error payload.
	return true
}
