package service

import (
	"errors"
	"fmt"

	"github.com/jade/jadeos/internal/capability"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrExecution   = errors.New("execution failed")
	ErrEmptyResult = errors.New("empty result")
)

// Kind classifies a notice shown after an action.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindLoadFailure
	KindValidationFailure
	KindExecutionFailure
	KindEmptyResult
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindLoadFailure:
		return "load failure"
	case KindValidationFailure:
		return "validation failure"
	case KindExecutionFailure:
		return "execution failure"
	case KindEmptyResult:
		return "empty result"
	default:
		return "info"
	}
}

// Notice is the single user-visible message an action ends with. None of the
// kinds is fatal.
type Notice struct {
	Kind    Kind
	Message string
}

func info(format string, args ...any) Notice {
	return Notice{Kind: KindInfo, Message: fmt.Sprintf(format, args...)}
}

func success(format string, args ...any) Notice {
	return Notice{Kind: KindSuccess, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) Notice {
	return Notice{Kind: KindValidationFailure, Message: fmt.Sprintf(format, args...)}
}

func failed(format string, args ...any) Notice {
	return Notice{Kind: KindExecutionFailure, Message: fmt.Sprintf(format, args...)}
}

func empty(format string, args ...any) Notice {
	return Notice{Kind: KindEmptyResult, Message: fmt.Sprintf(format, args...)}
}

// unavailable renders the load diagnostic for a capability.
func unavailable(name string, err error) Notice {
	return Notice{Kind: KindLoadFailure, Message: capability.Diagnostic{Capability: name, Err: err}.String()}
}

// Failed reports whether the notice is one of the failure kinds.
func (n Notice) Failed() bool {
	switch n.Kind {
	case KindLoadFailure, KindValidationFailure, KindExecutionFailure, KindEmptyResult:
		return true
	}
	return false
}

// Err converts a failure notice to an error wrapping the matching sentinel.
func (n Notice) Err() error {
	switch n.Kind {
	case KindLoadFailure:
		return fmt.Errorf("%w: %s", capability.ErrUnavailable, n.Message)
	case KindValidationFailure:
		return fmt.Errorf("%w: %s", ErrValidation, n.Message)
	case KindExecutionFailure:
		return fmt.Errorf("%w: %s", ErrExecution, n.Message)
	case KindEmptyResult:
		return fmt.Errorf("%w: %s", ErrEmptyResult, n.Message)
	}
	return nil
}

// Phase is a step of the action state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseExecuting
	PhaseRendered
	PhaseFailed
)

func (p Phase) String() string {
	return [...]string{"idle", "validating", "executing", "rendered", "failed"}[p]
}

// Action names the three interactive handlers.
type Action string

const (
	ActionScan     Action = "scan"
	ActionVideo    Action = "video"
	ActionStrategy Action = "strategy"
)
