package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Extractor pulls a human readable text out of a result payload.
type Extractor func(data map[string]any) (string, bool)

// DisplayKeys is the first-match-wins order used to pick the readable field.
var DisplayKeys = []string{"response", "copy", "hooks", "script", "strategies", "analysis", "validation"}

// DefaultChain tries DisplayKeys in order.
func DefaultChain() []Extractor {
	chain := make([]Extractor, 0, len(DisplayKeys))
	for _, k := range DisplayKeys {
		chain = append(chain, Field(k))
	}
	return chain
}

// Field extracts a key when its value is non-empty.
func Field(key string) Extractor {
	return func(data map[string]any) (string, bool) {
		v, ok := data[key]
		if !ok || !truthy(v) {
			return "", false
		}
		return format(v), true
	}
}

// Dump renders the whole payload as indented JSON.
func Dump(data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Sprintf("%v", data)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Select runs the chain and falls back to Dump when nothing matches.
func Select(data map[string]any, chain ...Extractor) string {
	if len(chain) == 0 {
		chain = DefaultChain()
	}
	for _, ex := range chain {
		if s, ok := ex(data); ok {
			return s
		}
	}
	return Dump(data)
}

// Display picks the readable text of r.
func (r Result) Display() string {
	return Select(r.Data)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return bullets(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok {
				items = append(items, s)
				continue
			}
			items = append(items, compact(it))
		}
		return bullets(items)
	case map[string]any:
		return Dump(t)
	}
	return fmt.Sprintf("%v", v)
}

func bullets(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
	return b.String()
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
