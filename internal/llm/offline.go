package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// OfflineProvider drafts text with keyword heuristics and no network. It backs
// the strategy router when no API key is configured.
type OfflineProvider struct{}

func NewOfflineProvider() *OfflineProvider { return &OfflineProvider{} }

func (o *OfflineProvider) Name() string { return "offline" }

func (o *OfflineProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	request := requestText(req.Prompt)
	topic := strings.Join(Keywords(request, 3), " ")
	if topic == "" {
		topic = "o produto"
	}

	var b strings.Builder
	switch req.Task {
	case "hook_generator":
		for i, h := range []string{
			"Ninguém te contou isso sobre %s...",
			"Pare de rolar: %s mudou meu jogo.",
			"3 segundos para entender %s.",
			"O erro que todo mundo comete com %s.",
			"Eu testei %s por 7 dias. Resultado:",
		} {
			fmt.Fprintf(&b, "%d. %s\n", i+1, fmt.Sprintf(h, topic))
		}
	case "script_writer":
		fmt.Fprintf(&b, "HOOK (0-3s): Você ainda não conhece %s?\n", topic)
		fmt.Fprintf(&b, "PROBLEMA (3-10s): O jeito comum de lidar com %s custa tempo e dinheiro.\n", topic)
		fmt.Fprintf(&b, "SOLUÇÃO (10-25s): Mostre %s em uso real, close no detalhe.\n", topic)
		b.WriteString("CTA (25-30s): Link na bio antes que acabe o estoque.\n")
	case "mythos_copy":
		fmt.Fprintf(&b, "%s: feito para quem não aceita o comum.\n", properCap(topic))
		b.WriteString("Cada detalhe pensado para durar. Cada uso, uma prova.\n")
		b.WriteString("Garanta o seu hoje.\n")
	case "arbitrage_sniper":
		fmt.Fprintf(&b, "Produto: %s\n", topic)
		b.WriteString("- Compare o preço de origem com o mais vendido no BR.\n")
		b.WriteString("- Margem alvo acima de 40% após frete e taxas.\n")
		b.WriteString("- Valide volume de vendas antes de comprar estoque.\n")
	case "otto_strategy":
		for i, s := range []string{
			"Teste criativo: 3 vídeos curtos sobre %s.",
			"Escala: dobre o orçamento do criativo vencedor de %s.",
			"Retenção: remarketing para quem viu %s e não comprou.",
		} {
			fmt.Fprintf(&b, "%d. %s\n", i+1, fmt.Sprintf(s, topic))
		}
	default:
		fmt.Fprintf(&b, "Modo offline. Pontos-chave sobre %s:\n", topic)
		for _, kw := range Keywords(request, 5) {
			fmt.Fprintf(&b, "- %s\n", kw)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// requestText drops a leading context block so keywords come from the request.
func requestText(prompt string) string {
	if i := strings.LastIndex(prompt, "[REQUEST]\n"); i >= 0 {
		return prompt[i+len("[REQUEST]\n"):]
	}
	return prompt
}

// Keywords returns the n most frequent non-trivial tokens of s, ties broken by
// first appearance.
func Keywords(s string, n int) []string {
	counts := map[string]int{}
	first := map[string]int{}
	for i, tok := range tokens(strings.ToLower(s)) {
		if len([]rune(tok)) < 3 || stopwords[tok] {
			continue
		}
		if _, ok := first[tok]; !ok {
			first[tok] = i
		}
		counts[tok]++
	}
	out := make([]string, 0, len(counts))
	for tok := range counts {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return first[out[i]] < first[out[j]]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\n', '\t', '-', '_', '/', '*', ',', '.', ';', ':', '!', '?', '"', '\'', '(', ')':
			return true
		}
		return false
	})
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "que": true, "para": true,
	"com": true, "uma": true, "dos": true, "das": true, "por": true, "como": true,
	"mais": true, "meu": true, "minha": true, "sobre": true, "isso": true, "esse": true,
}

func properCap(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}
