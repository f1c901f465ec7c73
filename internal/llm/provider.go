package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jade/jadeos/internal/config"
	"github.com/jade/jadeos/internal/secrets"
)

var ErrNoAPIKey = errors.New("llm: api key not configured")

// generateTimeout bounds a single completion call.
const generateTimeout = 45 * time.Second

// Request is one completion. Task names the strategy asking, which the offline
// provider uses to shape its draft.
type Request struct {
	Task      string
	System    string
	Prompt    string
	MaxTokens int
}

// Provider produces text for a request.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds the provider named in cfg. gemini and openai return ErrNoAPIKey
// when apiKey is blank; callers decide whether to fall back to Offline.
func New(cfg config.LLMConfig, apiKey string) (Provider, error) {
	apiKey = strings.TrimSpace(apiKey)
	switch name := strings.ToLower(strings.TrimSpace(cfg.Provider)); name {
	case "offline":
		return NewOfflineProvider(), nil
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("%w: openai", ErrNoAPIKey)
		}
		return NewOpenAIProvider(apiKey, cfg.Model), nil
	case "gemini", "":
		if apiKey == "" {
			return nil, fmt.Errorf("%w: gemini", ErrNoAPIKey)
		}
		return NewGeminiProvider(apiKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// KeyEnv is the environment variable holding the key for cfg's provider.
func KeyEnv(cfg config.LLMConfig) string {
	if env := strings.TrimSpace(cfg.APIKeyEnv); env != "" {
		return env
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), "openai") {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// ResolveAPIKey looks in the environment, then the secret store, then the
// config file. store may be nil.
func ResolveAPIKey(cfg config.LLMConfig, store *secrets.Store) string {
	if v := strings.TrimSpace(os.Getenv(KeyEnv(cfg))); v != "" {
		return v
	}
	if store != nil {
		provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
		if provider == "" {
			provider = "gemini"
		}
		if k, err := store.Get(provider); err == nil && k != "" {
			return k
		}
	}
	return strings.TrimSpace(cfg.APIKey)
}

func maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return 1024
}
