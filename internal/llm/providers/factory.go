package providers

import (
	"fmt"
	"net/http"

	"poultryqa/internal/config"
	"poultryqa/internal/llm"
	"poultryqa/internal/llm/anthropic"
	"poultryqa/internal/llm/google"
	openaillm "poultryqa/internal/llm/openai"
)

// Build constructs an llm.Provider based on the configured provider name.
// - openai: uses the OpenAI client
// - local: uses the OpenAI client against an OpenAI-compatible self-hosted
//   backend (BaseURL points elsewhere, same wire protocol)
// - anthropic/google: native SDK-backed providers
func Build(cfg config.Config, httpClient *http.Client) (llm.Provider, error) {
	switch cfg.LLM.Provider {
	case "", "openai", "local":
		return openaillm.New(cfg.LLM.OpenAI, httpClient), nil
	case "anthropic":
		return anthropic.New(cfg.LLM.Anthropic, httpClient), nil
	case "google":
		c, err := google.New(cfg.LLM.Google, httpClient)
		if err != nil {
			return nil, fmt.Errorf("build google provider: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}
