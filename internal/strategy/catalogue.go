// Package strategy routes a strategy id plus free text to an LLM prompt and
// wraps the answer in a result.Result.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Definition describes one strategy: what the operator sees and which payload
// key the answer lands in.
type Definition struct {
	ID          string
	Description string
	Key         string
	List        bool
	System      string
	MaxTokens   int
}

// Label is the selector text, "id - description".
func (d Definition) Label() string {
	return d.ID + " - " + d.Description
}

var catalogue = []Definition{
	{
		ID:          "otto_chat",
		Description: "Chat direto com OTTO",
		Key:         "response",
		System:      "Você é OTTO, estrategista de e-commerce e conteúdo curto. Responda de forma direta e prática, em português.",
		MaxTokens:   800,
	},
	{
		ID:          "arbitrage_sniper",
		Description: "Análise de arbitragem",
		Key:         "analysis",
		System:      "Analise a oportunidade de arbitragem do produto descrito: preço de origem, preço de venda no Brasil, margem estimada, riscos e veredito.",
		MaxTokens:   900,
	},
	{
		ID:          "mythos_copy",
		Description: "Geração de copy viral",
		Key:         "copy",
		System:      "Escreva uma copy de venda curta e viral para o produto ou tema descrito. Use gatilhos de desejo e uma chamada para ação.",
		MaxTokens:   600,
	},
	{
		ID:          "hook_generator",
		Description: "Geração de hooks",
		Key:         "hooks",
		List:        true,
		System:      "Gere 5 hooks de abertura para vídeos curtos sobre o tema. Um hook por linha, sem comentários.",
		MaxTokens:   400,
	},
	{
		ID:          "script_writer",
		Description: "Escrita de roteiro",
		Key:         "script",
		System:      "Escreva um roteiro de vídeo curto (até 30 segundos) com HOOK, PROBLEMA, SOLUÇÃO e CTA para a ideia descrita.",
		MaxTokens:   900,
	},
	{
		ID:          "otto_strategy",
		Description: "3 estratégias OTTO",
		Key:         "strategies",
		List:        true,
		System:      "Proponha exatamente 3 estratégias de crescimento para o negócio descrito. Uma estratégia por linha.",
		MaxTokens:   700,
	},
}

// Catalogue returns the strategies in selector order.
func Catalogue() []Definition {
	out := make([]Definition, len(catalogue))
	copy(out, catalogue)
	return out
}

// IDs returns the strategy ids in selector order.
func IDs() []string {
	ids := make([]string, len(catalogue))
	for i, d := range catalogue {
		ids[i] = d.ID
	}
	return ids
}

// Resolve finds a strategy by id or by its selector label.
func Resolve(id string) (Definition, error) {
	id = ParseLabel(id)
	for _, d := range catalogue {
		if d.ID == id {
			return d, nil
		}
	}
	if s := Suggest(id); s != "" {
		return Definition{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownStrategy, id, s)
	}
	return Definition{}, fmt.Errorf("%w %q", ErrUnknownStrategy, id)
}

// ParseLabel takes the id part of an "id - description" label.
func ParseLabel(label string) string {
	id, _, _ := strings.Cut(strings.TrimSpace(label), " - ")
	return strings.ToLower(strings.TrimSpace(id))
}

// Suggest returns the closest known id, or "" when nothing is close.
func Suggest(id string) string {
	if id == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, d := range catalogue {
		dist := levenshtein.ComputeDistance(id, d.ID)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d.ID, dist
		}
	}
	if bestDist > len(best)/2 {
		return ""
	}
	return best
}
