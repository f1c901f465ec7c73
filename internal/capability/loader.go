package capability

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Constructor builds a capability. It may fail or panic; Load absorbs both.
type Constructor[T any] func(ctx context.Context) (T, error)

// Notifier receives the single diagnostic emitted for a failed load.
type Notifier interface {
	Notify(name string, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(name string, err error)

func (f NotifierFunc) Notify(name string, err error) { f(name, err) }

// Load attempts one construction of the named capability. Nothing is cached:
// two calls are two independent attempts. On failure exactly one diagnostic is
// sent to n (when n is non-nil) and an absent handle is returned.
func Load[T any](ctx context.Context, name string, ctor Constructor[T], n Notifier) (h Handle[T]) {
	defer func() {
		if r := recover(); r != nil {
			h = fail[T](name, fmt.Errorf("constructor panicked: %v", r), n)
		}
	}()
	if ctor == nil {
		return fail[T](name, errors.New("not configured"), n)
	}
	v, err := ctor(ctx)
	if err != nil {
		return fail[T](name, err, n)
	}
	if isNil(v) {
		return fail[T](name, errors.New("constructor returned nil"), n)
	}
	return Present(name, v)
}

func fail[T any](name string, cause error, n Notifier) Handle[T] {
	if n != nil {
		n.Notify(name, cause)
	}
	return Absent[T](name, cause)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Diagnostics collects load failures so a caller can show them to the user.
type Diagnostics struct {
	mu      sync.Mutex
	entries []Diagnostic
}

// Diagnostic is one failed load.
type Diagnostic struct {
	Capability string
	Err        error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Failed to load %s: %v", d.Capability, d.Err)
}

func (d *Diagnostics) Notify(name string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, Diagnostic{Capability: name, Err: err})
}

// Drain returns collected diagnostics and resets the collector.
func (d *Diagnostics) Drain() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.entries
	d.entries = nil
	return out
}

// LogNotifier reports load failures to a zap logger.
func LogNotifier(log *zap.Logger) Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return NotifierFunc(func(name string, err error) {
		log.Warn("capability load failed", zap.String("capability", name), zap.Error(err))
	})
}

// Tee fans a diagnostic out to several notifiers. It still counts as one
// diagnostic per failed load from the caller's point of view.
func Tee(ns ...Notifier) Notifier {
	return NotifierFunc(func(name string, err error) {
		for _, n := range ns {
			if n != nil {
				n.Notify(name, err)
			}
		}
	})
}
