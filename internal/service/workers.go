package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/backend"
	"github.com/jade/jadeos/internal/capability"
	"github.com/jade/jadeos/internal/config"
	"github.com/jade/jadeos/internal/database/repository"
	"github.com/jade/jadeos/internal/events"
	"github.com/jade/jadeos/internal/llm"
	"github.com/jade/jadeos/internal/memory"
	"github.com/jade/jadeos/internal/scanner"
	"github.com/jade/jadeos/internal/secrets"
	"github.com/jade/jadeos/internal/strategy"
	"github.com/jade/jadeos/internal/video"
)

// Capability names as shown in load diagnostics.
const (
	NameScanner  = "SocialSignalWorker"
	NameVideo    = "GhostProcessor"
	NameStrategy = "StrategyRouter"
	NameMemory   = "VectorMemory"
	NameEvents   = "EventBus"
)

// Workers holds one constructor per capability. Every Load call runs the
// constructor again; nothing is cached between actions. A nil constructor
// loads as absent.
type Workers struct {
	Scanner  capability.Constructor[scanner.Scanner]
	Video    capability.Constructor[video.Processor]
	Strategy capability.Constructor[strategy.Executor]
	Memory   capability.Constructor[memory.Store]
	Events   capability.Constructor[events.Publisher]

	// Notifier receives load failures of the scanner, video and strategy
	// capabilities. Memory and events failures only reach the log.
	Notifier capability.Notifier
	Log      *zap.Logger
}

// Deps are the shared resources local constructors need.
type Deps struct {
	DB       *sql.DB
	Secrets  *secrets.Store
	Log      *zap.Logger
	Notifier capability.Notifier
}

// NewWorkers wires constructors from cfg. With backend.url set the scanner,
// video and strategy capabilities are clients of that backend; otherwise they
// run in process.
func NewWorkers(cfg config.Config, deps Deps) *Workers {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	w := &Workers{Log: log, Notifier: deps.Notifier}
	if w.Notifier == nil {
		w.Notifier = capability.LogNotifier(log)
	}

	if url := strings.TrimSpace(cfg.Backend.URL); url != "" {
		dial := func(ctx context.Context) (*backend.Client, error) {
			return backend.Dial(ctx, url, cfg.Backend.Timeout)
		}
		w.Scanner = func(ctx context.Context) (scanner.Scanner, error) {
			c, err := dial(ctx)
			if err != nil {
				return nil, err
			}
			return c.Scanner(), nil
		}
		w.Video = func(ctx context.Context) (video.Processor, error) {
			c, err := dial(ctx)
			if err != nil {
				return nil, err
			}
			return c.Processor(cfg.Video.ProcessedDir), nil
		}
		w.Strategy = func(ctx context.Context) (strategy.Executor, error) {
			c, err := dial(ctx)
			if err != nil {
				return nil, err
			}
			return c.Router(), nil
		}
	} else {
		w.Scanner = func(ctx context.Context) (scanner.Scanner, error) {
			return scanner.NewShopeeScanner(ctx, scanner.Options{
				Headless:    cfg.Scanner.Headless,
				BrowserBin:  cfg.Scanner.BrowserBin,
				Proxy:       os.Getenv("PROXY_HOST"),
				PageTimeout: cfg.Scanner.PageTimeout,
				Logger:      log.Named("scanner"),
			})
		}
		w.Video = func(ctx context.Context) (video.Processor, error) {
			return video.NewGhostProcessor(video.Options{
				FFmpeg:    cfg.Video.FFmpeg,
				OutputDir: cfg.Video.ProcessedDir,
				Logger:    log.Named("video"),
			})
		}
		w.Strategy = func(ctx context.Context) (strategy.Executor, error) {
			p, err := llm.New(cfg.LLM, llm.ResolveAPIKey(cfg.LLM, deps.Secrets))
			if errors.Is(err, llm.ErrNoAPIKey) {
				log.Info("no llm api key, strategies run in fallback mode", zap.String("provider", cfg.LLM.Provider))
				p, err = llm.NewOfflineProvider(), nil
			}
			if err != nil {
				return nil, err
			}
			return strategy.NewRouter(p, log.Named("strategy")), nil
		}
	}

	w.Memory = func(ctx context.Context) (memory.Store, error) {
		switch b := strings.ToLower(strings.TrimSpace(cfg.Memory.Backend)); b {
		case "redis":
			return memory.NewRedisStore(ctx, cfg.Memory.RedisURL)
		case "sqlite", "":
			if deps.DB == nil {
				return nil, errors.New("database not open")
			}
			return memory.NewSQLiteStore(repository.NewContextRepo(deps.DB))
		default:
			return nil, fmt.Errorf("unknown memory backend %q", b)
		}
	}

	if strings.TrimSpace(cfg.Events.NATSURL) != "" {
		w.Events = func(ctx context.Context) (events.Publisher, error) {
			return events.Connect(cfg.Events.NATSURL, cfg.Events.Subject)
		}
	}
	return w
}

func (w *Workers) LoadScanner(ctx context.Context) capability.Handle[scanner.Scanner] {
	return capability.Load(ctx, NameScanner, w.Scanner, w.Notifier)
}

func (w *Workers) LoadVideo(ctx context.Context) capability.Handle[video.Processor] {
	return capability.Load(ctx, NameVideo, w.Video, w.Notifier)
}

func (w *Workers) LoadStrategy(ctx context.Context) capability.Handle[strategy.Executor] {
	return capability.Load(ctx, NameStrategy, w.Strategy, w.Notifier)
}

func (w *Workers) LoadMemory(ctx context.Context) capability.Handle[memory.Store] {
	return capability.Load(ctx, NameMemory, w.Memory, capability.LogNotifier(w.log()))
}

// LoadEvents is absent without a diagnostic when no NATS url is configured.
func (w *Workers) LoadEvents(ctx context.Context) capability.Handle[events.Publisher] {
	if w.Events == nil {
		return capability.Absent[events.Publisher](NameEvents, errors.New("not configured"))
	}
	return capability.Load(ctx, NameEvents, w.Events, capability.LogNotifier(w.log()))
}

// Available loads every capability once and reports which are present.
func (w *Workers) Available(ctx context.Context) map[string]bool {
	out := map[string]bool{}
	sc := w.LoadScanner(ctx)
	out[NameScanner] = sc.IsPresent()
	release(sc)
	v := w.LoadVideo(ctx)
	out[NameVideo] = v.IsPresent()
	release(v)
	st := w.LoadStrategy(ctx)
	out[NameStrategy] = st.IsPresent()
	release(st)
	m := w.LoadMemory(ctx)
	out[NameMemory] = m.IsPresent()
	release(m)
	return out
}

func (w *Workers) log() *zap.Logger {
	if w.Log == nil {
		return zap.NewNop()
	}
	return w.Log
}

// release closes a loaded capability that holds resources (browser, redis or
// NATS connection).
func release[T any](h capability.Handle[T]) {
	v, ok := h.Get()
	if !ok {
		return
	}
	if c, ok := any(v).(io.Closer); ok {
		_ = c.Close()
	}
}
