// Package memory is the long-term business context capability. Entries are
// plain key/value strings that get prefixed to strategy requests so operators
// do not repeat themselves on every prompt.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jade/jadeos/internal/database/repository"
)

// ErrEmptyEntry is returned when a key or value is blank.
var ErrEmptyEntry = errors.New("memory: key and value are required")

// Store is the memory capability contract.
type Store interface {
	Put(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) (map[string]string, error)
}

// SQLiteStore keeps entries in the local database.
type SQLiteStore struct {
	repo *repository.ContextRepo
}

func NewSQLiteStore(repo *repository.ContextRepo) (*SQLiteStore, error) {
	if repo == nil {
		return nil, errors.New("memory: context repository not configured")
	}
	return &SQLiteStore{repo: repo}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key, value string) error {
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" || value == "" {
		return ErrEmptyEntry
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return fmt.Errorf("memory: put %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) (map[string]string, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory: list: %w", err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// ContextBlock prefixes input with the stored entries. Keys are sorted so the
// same memory always yields the same prompt. Input is returned unchanged when
// there is nothing stored.
func ContextBlock(entries map[string]string, input string) string {
	if len(entries) == 0 {
		return input
	}
	var b strings.Builder
	b.WriteString("[CONTEXT]\n")
	b.WriteString(Lines(entries))
	b.WriteString("\n\n[REQUEST]\n")
	b.WriteString(input)
	return b.String()
}

// Lines renders entries as "key: value" lines in key order.
func Lines(entries map[string]string) string {
	keys := SortedKeys(entries)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+entries[k])
	}
	return strings.Join(lines, "\n")
}

func SortedKeys(entries map[string]string) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Preview truncates a value for list display.
func Preview(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit]) + "..."
}
