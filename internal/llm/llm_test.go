package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jade/jadeos/internal/config"
	"github.com/jade/jadeos/internal/secrets"
)

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(config.LLMConfig{Provider: "offline"}, "")
	require.NoError(t, err)
	require.Equal(t, "offline", p.Name())

	_, err = New(config.LLMConfig{Provider: "openai"}, " ")
	require.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(config.LLMConfig{Provider: "gemini"}, "")
	require.ErrorIs(t, err, ErrNoAPIKey)

	p, err = New(config.LLMConfig{Provider: "OpenAI", Model: "gemini-2.5-flash"}, "sk")
	require.NoError(t, err)
	require.Equal(t, "openai", p.Name())
	require.Equal(t, defaultOpenAIModel, p.(*OpenAIProvider).model)

	_, err = New(config.LLMConfig{Provider: "claude"}, "k")
	require.Error(t, err)
}

func TestResolveAPIKeyOrder(t *testing.T) {
	store := secrets.NewStore(filepath.Join(t.TempDir(), "jade"))
	cfg := config.LLMConfig{Provider: "openai", APIKeyEnv: "JADE_TEST_KEY", APIKey: "from-config"}

	t.Setenv("JADE_TEST_KEY", "")
	require.Equal(t, "from-config", ResolveAPIKey(cfg, store))

	require.NoError(t, store.Put("openai", "from-store"))
	require.Equal(t, "from-store", ResolveAPIKey(cfg, store))

	t.Setenv("JADE_TEST_KEY", "from-env")
	require.Equal(t, "from-env", ResolveAPIKey(cfg, store))
}

func TestKeyEnvDefaults(t *testing.T) {
	require.Equal(t, "OPENAI_API_KEY", KeyEnv(config.LLMConfig{Provider: "openai"}))
	require.Equal(t, "GEMINI_API_KEY", KeyEnv(config.LLMConfig{Provider: "gemini"}))
	require.Equal(t, "X", KeyEnv(config.LLMConfig{Provider: "gemini", APIKeyEnv: "X"}))
}

func TestOpenAIProviderGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  olá  "}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", "", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	out, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, "olá", out)
	require.Equal(t, "gpt-4o-mini", got["model"])
	require.Len(t, got["messages"], 2)
}

func TestOpenAIProviderEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", "m", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})
	require.ErrorContains(t, err, "empty response")
}

func TestGeminiProviderGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"pronto"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGeminiProvider("key", "")
	g.baseURL = srv.URL + "/"
	out, err := g.Generate(context.Background(), Request{System: "sys", Prompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, "pronto", out)
}

func TestGeminiProviderNoKey(t *testing.T) {
	_, err := NewGeminiProvider("", "").Generate(context.Background(), Request{Prompt: "x"})
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestOfflineProviderShapesByTask(t *testing.T) {
	p := NewOfflineProvider()
	ctx := context.Background()

	hooks, err := p.Generate(ctx, Request{Task: "hook_generator", Prompt: "[CONTEXT]\nnicho: pets\n\n[REQUEST]\ncoleira led coleira"})
	require.NoError(t, err)
	require.Len(t, strings.Split(hooks, "\n"), 5)
	require.Contains(t, hooks, "coleira")
	require.NotContains(t, hooks, "nicho")

	chat, err := p.Generate(ctx, Request{Task: "otto_chat", Prompt: "garrafa térmica inox"})
	require.NoError(t, err)
	require.Contains(t, chat, "garrafa")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.Generate(cancelled, Request{Prompt: "x"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestKeywords(t *testing.T) {
	require.Equal(t, []string{"fone", "bluetooth"}, Keywords("fone bluetooth para fone", 2))
	require.Empty(t, Keywords("a de um", 3))
}
