package strategy

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/llm"
	"github.com/jade/jadeos/internal/result"
)

// Input parameter names, in lookup order.
var ParamKeys = []string{"message", "topic", "idea"}

// Executor is the strategy capability contract.
type Executor interface {
	Execute(ctx context.Context, id string, params map[string]string) (result.Result, error)
}

// Router executes catalogue strategies against an LLM provider.
type Router struct {
	provider llm.Provider
	log      *zap.Logger
}

func NewRouter(p llm.Provider, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{provider: p, log: log}
}

// Provider names the backing LLM.
func (r *Router) Provider() string { return r.provider.Name() }

// Execute runs strategy id. Unknown ids, missing input and provider failures
// come back as error-tagged results; only a cancelled context is an error.
func (r *Router) Execute(ctx context.Context, id string, params map[string]string) (result.Result, error) {
	def, err := Resolve(id)
	if err != nil {
		return result.Failure("%v", err), nil
	}
	input := firstParam(params)
	if input == "" {
		return result.Failure("%s: empty input", def.ID), nil
	}

	text, err := r.provider.Generate(ctx, llm.Request{
		Task:      def.ID,
		System:    def.System,
		Prompt:    input,
		MaxTokens: def.MaxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result.Result{}, ctxErr
		}
		r.log.Warn("strategy failed", zap.String("strategy", def.ID), zap.String("provider", r.provider.Name()), zap.Error(err))
		return result.Failure("%s: %v", def.ID, err), nil
	}

	data := map[string]any{
		"strategy": def.ID,
		"provider": r.provider.Name(),
	}
	if def.List {
		data[def.Key] = splitList(text)
	} else {
		data[def.Key] = text
	}
	r.log.Info("strategy executed", zap.String("strategy", def.ID), zap.String("provider", r.provider.Name()))
	return result.Success(data), nil
}

func firstParam(params map[string]string) string {
	for _, k := range ParamKeys {
		if v := strings.TrimSpace(params[k]); v != "" {
			return v
		}
	}
	return ""
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// splitList turns a numbered or bulleted answer into items.
func splitList(text string) []any {
	var out []any
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
