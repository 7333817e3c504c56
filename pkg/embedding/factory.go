package embedding

import "fmt"

// NewProvider builds the embedding provider named in configuration.
func NewProvider(providerType, apiKey, baseURL, model string) (EmbeddingProvider, error) {
	switch providerType {
	case "openai":
		return NewOpenAIProvider(apiKey, model), nil
	case "gemini":
		return NewGeminiProvider(apiKey), nil
	case "ollama":
		return NewOllamaProvider(baseURL, model, 0), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
