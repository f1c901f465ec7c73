package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/events"
	"github.com/jade/jadeos/internal/memory"
)

// SaveContext stores one business context entry.
func (s *Service) SaveContext(ctx context.Context, key, value string) Notice {
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" || value == "" {
		return invalid("Please fill key and value")
	}
	h := s.workers.LoadMemory(ctx)
	store, ok := h.Get()
	if !ok {
		return unavailable(h.Name(), h.Cause())
	}
	defer release(h)
	if err := store.Put(ctx, key, value); err != nil {
		if errors.Is(err, memory.ErrEmptyEntry) {
			return invalid("Please fill key and value")
		}
		s.log.Warn("memory write failed", zap.String("key", key), zap.Error(err))
		return failed("Save failed: %v", err)
	}
	s.publish(ctx, events.TypeMemoryStored, "memory", map[string]any{"key": key})
	return success("Saved: %s", key)
}

// Context lists stored entries. ok is false when memory is unavailable.
func (s *Service) Context(ctx context.Context) (entries map[string]string, ok bool) {
	h := s.workers.LoadMemory(ctx)
	store, ok := h.Get()
	if !ok {
		return nil, false
	}
	defer release(h)
	entries, err := store.GetAll(ctx)
	if err != nil {
		s.log.Warn("memory read failed", zap.Error(err))
		return nil, true
	}
	return entries, true
}
