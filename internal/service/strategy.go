package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/bridge"
	"github.com/jade/jadeos/internal/events"
	"github.com/jade/jadeos/internal/memory"
	"github.com/jade/jadeos/internal/result"
	"github.com/jade/jadeos/internal/strategy"
)

// StrategyForm is the strategy tab input. Strategy may be an id or a
// selector label.
type StrategyForm struct {
	Strategy string
	Input    string
	// SkipMemory sends Input as is, without the stored context block.
	SkipMemory bool
}

// StrategyOutcome is what the strategy tab renders.
type StrategyOutcome struct {
	Notice   Notice
	Strategy string
	Prompt   string
	Result   result.Result
	// Display is the readable field of Result, empty when nothing ran.
	Display string
	// Executed is set once the router returned a Result, whatever its tag.
	Executed bool
}

// ExecuteStrategy prefixes the stored context to the input and runs the
// strategy router.
func (s *Service) ExecuteStrategy(ctx context.Context, form StrategyForm) (out StrategyOutcome) {
	defer s.guard(ActionStrategy, &out.Notice, "Strategy failed")

	s.enter(ActionStrategy, PhaseValidating)
	input := strings.TrimSpace(form.Input)
	if input == "" {
		s.enter(ActionStrategy, PhaseIdle)
		out.Notice = invalid("Please enter your input")
		return out
	}
	def, err := strategy.Resolve(form.Strategy)
	if err != nil {
		s.enter(ActionStrategy, PhaseIdle)
		out.Notice = invalid("%v", err)
		return out
	}
	out.Strategy = def.ID

	s.enter(ActionStrategy, PhaseExecuting)
	h := s.workers.LoadStrategy(ctx)
	router, ok := h.Get()
	if !ok {
		s.enter(ActionStrategy, PhaseIdle)
		out.Notice = unavailable(h.Name(), h.Cause())
		return out
	}
	defer release(h)

	if !form.SkipMemory {
		input = memory.ContextBlock(s.loadContext(ctx), input)
	}
	out.Prompt = input
	params := map[string]string{"message": input, "topic": input, "idea": input}

	res, err := bridge.Run(ctx, s.bridge, func(ctx context.Context) (result.Result, error) {
		return router.Execute(ctx, def.ID, params)
	})
	if err != nil {
		s.enter(ActionStrategy, PhaseFailed)
		s.log.Warn("strategy failed", zap.String("strategy", def.ID), zap.Error(err))
		out.Notice = failed("Strategy failed: %v", err)
		return out
	}
	out.Result = res
	out.Executed = true
	out.Display = res.Display()

	switch res.Kind() {
	case result.KindSuccess:
		s.enter(ActionStrategy, PhaseRendered)
		out.Notice = success("Strategy executed successfully!")
	case result.KindError:
		s.enter(ActionStrategy, PhaseFailed)
		out.Notice = failed("%s", res.ErrorMessage())
	default:
		s.enter(ActionStrategy, PhaseRendered)
		out.Notice = info("Status: %s", res.Label())
	}
	s.log.Info("strategy rendered", zap.String("strategy", def.ID), zap.String("status", res.Kind().String()))
	if !out.Notice.Failed() {
		s.publish(ctx, events.TypeStrategyExecuted, string(ActionStrategy), map[string]any{
			"strategy": def.ID, "status": res.Kind().String(),
		})
	}
	return out
}

// loadContext returns the stored entries, or nil when memory is unavailable.
func (s *Service) loadContext(ctx context.Context) map[string]string {
	entries, _ := s.Context(ctx)
	return entries
}
