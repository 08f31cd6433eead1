// Package llm provides the text-generation clients for the Z-Beam pipeline.
// Two providers are supported: Google Gemini and xAI Grok. Both are plain
// HTTPS clients with retry/backoff; no SDK is needed for text generation.
package llm

import (
	"context"
	"fmt"
	"os"
)

// Client defines the minimal interface the pipeline uses to call an LLM.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderGrok   Provider = "grok"
)

// ProviderConfig holds the resolved provider and API key.
type ProviderConfig struct {
	Provider Provider
	APIKey   string
	Model    string // Optional model override
}

// DetectProvider resolves the provider from environment variables.
// Priority: GEMINI_API_KEY > XAI_API_KEY.
func DetectProvider() (*ProviderConfig, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return &ProviderConfig{Provider: ProviderGemini, APIKey: key}, nil
	}
	if key := os.Getenv("XAI_API_KEY"); key != "" {
		return &ProviderConfig{Provider: ProviderGrok, APIKey: key}, nil
	}
	return nil, fmt.Errorf("no API key found (set GEMINI_API_KEY or XAI_API_KEY)")
}

// NewClient creates a client for the given provider config.
func NewClient(cfg *ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case ProviderGemini:
		c := NewGeminiClient(cfg.APIKey)
		if cfg.Model != "" {
			c.SetModel(cfg.Model)
		}
		return c, nil
	case ProviderGrok:
		c := NewGrokClient(cfg.APIKey)
		if cfg.Model != "" {
			c.SetModel(cfg.Model)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

const defaultSystemPrompt = "You are a technical content writer for an industrial laser-cleaning equipment company. Write precise, factual marketing copy. When asked for JSON, output only valid JSON with no surrounding prose."
