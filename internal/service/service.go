package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/bridge"
	"github.com/jade/jadeos/internal/database/repository"
	"github.com/jade/jadeos/internal/events"
)

// Service runs the dashboard actions: validate, load the capability, execute it
// through the bridge and turn the outcome into one Notice. No action returns an
// error or panics; every failure ends as a notice.
type Service struct {
	workers   *Workers
	bridge    *bridge.Bridge
	scans     *repository.ScanRepo
	log       *zap.Logger
	validate  *validator.Validate
	uploadDir string
	now       func() time.Time
	observe   func(Action, Phase)
}

// Options configures a Service. Only Workers is required.
type Options struct {
	Workers   *Workers
	Bridge    *bridge.Bridge
	Scans     *repository.ScanRepo
	Log       *zap.Logger
	UploadDir string
	Now       func() time.Time
	// Observe, when set, sees every phase transition of every action.
	Observe func(Action, Phase)
}

func New(opts Options) *Service {
	s := &Service{
		workers:   opts.Workers,
		bridge:    opts.Bridge,
		scans:     opts.Scans,
		log:       opts.Log,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		uploadDir: opts.UploadDir,
		now:       opts.Now,
		observe:   opts.Observe,
	}
	if s.workers == nil {
		s.workers = &Workers{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.bridge == nil {
		s.bridge = bridge.New(bridge.WithLogger(s.log))
	}
	if s.uploadDir == "" {
		s.uploadDir = "data/uploads"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Workers() *Workers { return s.workers }

func (s *Service) enter(a Action, p Phase) {
	if s.observe != nil {
		s.observe(a, p)
	}
}

// publish announces a rendered action when an event bus is configured.
// Failures are logged and otherwise ignored.
func (s *Service) publish(ctx context.Context, typ, source string, payload map[string]any) {
	h := s.workers.LoadEvents(ctx)
	pub, ok := h.Get()
	if !ok {
		return
	}
	defer release(h)
	if err := pub.Publish(ctx, events.New(typ, source, payload)); err != nil {
		s.log.Warn("event publish failed", zap.String("type", typ), zap.Error(err))
	}
}

// guard is deferred by every action: a panic past the bridge still ends as an
// execution failure notice.
func (s *Service) guard(a Action, n *Notice, prefix string) {
	if r := recover(); r != nil {
		s.enter(a, PhaseFailed)
		s.log.Error("action panicked", zap.String("action", string(a)), zap.Any("panic", r))
		*n = failed("%s: %v", prefix, r)
	}
}
