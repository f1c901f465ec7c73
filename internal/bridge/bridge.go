// Package bridge runs one blocking operation to completion per call.
//
// Each Run acquires a fresh execution context, drives the operation on its own
// goroutine, waits for it, and releases the context on every path. Failures and
// panics come back to the caller as errors.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrPanic wraps a panic raised inside an operation.
var ErrPanic = errors.New("operation panicked")

// Op is a single deferred computation.
type Op[T any] func(ctx context.Context) (T, error)

// Bridge holds the settings shared by every Run. It keeps no per-call state
// beyond a counter of live execution contexts.
type Bridge struct {
	timeout time.Duration
	log     *zap.Logger
	active  atomic.Int64
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTimeout bounds every operation. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

func New(opts ...Option) *Bridge {
	b := &Bridge{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Active reports how many execution contexts are currently held.
func (b *Bridge) Active() int64 { return b.active.Load() }

func (b *Bridge) acquire(parent context.Context) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if b.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, b.timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	b.active.Add(1)
	return ctx, func() {
		cancel()
		b.active.Add(-1)
	}
}

type outcome[T any] struct {
	val T
	err error
}

// Run executes op synchronously and returns its value or its failure.
// A nil Bridge behaves like New().
func Run[T any](parent context.Context, b *Bridge, op Op[T]) (T, error) {
	if b == nil {
		b = New()
	}
	var zero T
	if op == nil {
		return zero, errors.New("bridge: nil operation")
	}

	ctx, release := b.acquire(parent)
	defer release()

	start := time.Now()
	done := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome[T]{err: fmt.Errorf("%w: %v", ErrPanic, r)}
			}
		}()
		v, err := op(ctx)
		done <- outcome[T]{val: v, err: err}
	}()
	res := <-done

	b.log.Debug("bridge call finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("failed", res.err != nil))
	if res.err != nil {
		return zero, res.err
	}
	return res.val, nil
}
