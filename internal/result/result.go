// Package result models the tagged outcome returned by a capability call.
package result

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the tag of a Result. Exactly one applies to every Result.
type Kind int

const (
	KindUnknown Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of a strategy execution. Status carries the raw status
// string; Kind derives the tag from it so the three cases can never overlap.
type Result struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func Success(data map[string]any) Result {
	return Result{Status: StatusSuccess, Data: data}
}

func Failure(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Unknown keeps a status string that is neither success nor error.
func Unknown(status string, data map[string]any) Result {
	return Result{Status: status, Data: data}
}

func (r Result) Kind() Kind {
	switch r.Status {
	case StatusSuccess:
		return KindSuccess
	case StatusError:
		return KindError
	default:
		return KindUnknown
	}
}

// Label is the status shown for unknown results.
func (r Result) Label() string {
	if s := strings.TrimSpace(r.Status); s != "" {
		return s
	}
	return "unknown"
}

// ErrorMessage is the message of an error-tagged result.
func (r Result) ErrorMessage() string {
	if strings.TrimSpace(r.Message) == "" {
		return "Unknown error"
	}
	return r.Message
}

// Decode parses a loosely structured JSON body into a Result. A missing status
// decodes as unknown; a non-object data field is wrapped under "response".
func Decode(body []byte) (Result, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	return FromMap(raw), nil
}

// FromMap converts an untyped payload to a Result.
func FromMap(raw map[string]any) Result {
	var r Result
	if s, ok := raw["status"].(string); ok {
		r.Status = s
	}
	if m, ok := raw["message"].(string); ok {
		r.Message = m
	}
	switch d := raw["data"].(type) {
	case map[string]any:
		r.Data = d
	case nil:
	default:
		r.Data = map[string]any{"response": d}
	}
	return r
}
