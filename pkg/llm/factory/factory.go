package factory

import (
	"fmt"

	"github.com/ssmubc/Empathetic-Communication/pkg/llm"
	"github.com/ssmubc/Empathetic-Communication/pkg/llm/ollama"
	"github.com/ssmubc/Empathetic-Communication/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "openai":
		return openai.NewOpenAIProvider(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
