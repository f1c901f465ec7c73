package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/jade/jadeos/internal/capability"
	"github.com/jade/jadeos/internal/config"
	"github.com/jade/jadeos/internal/database"
	"github.com/jade/jadeos/internal/database/repository"
	"github.com/jade/jadeos/internal/memory"
	"github.com/jade/jadeos/internal/result"
	"github.com/jade/jadeos/internal/scanner"
	"github.com/jade/jadeos/internal/strategy"
	"github.com/jade/jadeos/internal/testdata"
	"github.com/jade/jadeos/internal/video"
)

type scanFunc func(ctx context.Context, req scanner.Request) (scanner.Result, error)

func (f scanFunc) Scan(ctx context.Context, req scanner.Request) (scanner.Result, error) {
	return f(ctx, req)
}

type processFunc func(ctx context.Context, in string) (string, error)

func (f processFunc) Process(ctx context.Context, in string) (string, error) { return f(ctx, in) }

type recordingRouter struct {
	res    result.Result
	id     string
	params map[string]string
}

func (r *recordingRouter) Execute(ctx context.Context, id string, params map[string]string) (result.Result, error) {
	r.id, r.params = id, params
	return r.res, nil
}

type phaseLog struct {
	mu     sync.Mutex
	phases []Phase
}

func (p *phaseLog) observe(_ Action, ph Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phases = append(p.phases, ph)
}

func (p *phaseLog) get() []Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Phase(nil), p.phases...)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(path))
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestService(t *testing.T, w *Workers, db *sql.DB) (*Service, *phaseLog) {
	t.Helper()
	phases := &phaseLog{}
	opts := Options{
		Workers:   w,
		UploadDir: filepath.Join(t.TempDir(), "uploads"),
		Now:       func() time.Time { return time.Date(2025, 12, 3, 9, 15, 0, 0, time.UTC) },
		Observe:   phases.observe,
	}
	if db != nil {
		opts.Scans = repository.NewScanRepo(db)
	}
	return New(opts), phases
}

func sqliteMemory(db *sql.DB) capability.Constructor[memory.Store] {
	return func(context.Context) (memory.Store, error) {
		return memory.NewSQLiteStore(repository.NewContextRepo(db))
	}
}

func TestScanValidationNeverExecutes(t *testing.T) {
	t.Parallel()

	called := false
	w := &Workers{Scanner: func(context.Context) (scanner.Scanner, error) {
		called = true
		return nil, errors.New("unreachable")
	}}
	svc, phases := newTestService(t, w, nil)

	cases := map[string]struct {
		form ScanForm
		msg  string
	}{
		"empty keyword": {ScanForm{Keyword: "   ", Regions: []string{"BR"}, Limit: 20}, "Please enter a keyword"},
		"no regions":    {ScanForm{Keyword: "smartwatch", Limit: 20}, "Please select at least one country"},
		"bad region":    {ScanForm{Keyword: "smartwatch", Regions: []string{"US"}, Limit: 20}, "Unknown country US"},
		"limit":         {ScanForm{Keyword: "smartwatch", Regions: []string{"BR"}, Limit: 80}, "between 5 and 50"},
		"min sold":      {ScanForm{Keyword: "smartwatch", Regions: []string{"BR"}, Limit: 20, MinSold: -1}, "between 0 and 10000"},
	}
	for name, tc := range cases {
		out := svc.Scan(context.Background(), tc.form)
		require.Equal(t, KindValidationFailure, out.Notice.Kind, name)
		require.Contains(t, out.Notice.Message, tc.msg, name)
		require.ErrorIs(t, out.Notice.Err(), ErrValidation)
	}
	require.False(t, called)
	require.NotContains(t, phases.get(), PhaseExecuting)
}

func TestScanFiltersRecordsAndExports(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	var got scanner.Request
	w := &Workers{Scanner: func(context.Context) (scanner.Scanner, error) {
		return scanFunc(func(_ context.Context, req scanner.Request) (scanner.Result, error) {
			got = req
			return scanner.Result{Products: testdata.Products("BR", 15, 5)}, nil
		}), nil
	}}
	svc, phases := newTestService(t, w, db)

	out := svc.Scan(context.Background(), ScanForm{Keyword: " smartwatch ", Regions: []string{"BR"}, Limit: 20, MinSold: 100})
	require.Equal(t, KindSuccess, out.Notice.Kind, out.Notice.Message)
	require.Equal(t, "Found 10 products (filtered from 15)", out.Notice.Message)
	require.Equal(t, scanner.Request{Keyword: "smartwatch", Regions: []string{"BR"}, Limit: 20}, got)
	require.Len(t, out.Products, 10)
	require.Equal(t, 10, out.Summary.Total)
	require.Equal(t, 15, out.Summary.FoundTotal)
	require.Equal(t, []Phase{PhaseValidating, PhaseExecuting, PhaseRendered}, phases.get())

	runs, err := repository.NewScanRepo(db).Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, out.RunID, runs[0].ID)
	require.Equal(t, 10, runs[0].Kept)

	dir := t.TempDir()
	path, n := svc.Export(dir, out)
	require.Equal(t, KindSuccess, n.Kind)
	require.Equal(t, filepath.Join(dir, "shopee_scan_smartwatch_20251203_091500.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 11)
}

func TestScanAbsentScannerGivesOneDiagnostic(t *testing.T) {
	t.Parallel()

	var diags capability.Diagnostics
	w := &Workers{
		Scanner: func(context.Context) (scanner.Scanner, error) {
			return nil, errors.New("no chromium browser found")
		},
		Notifier: &diags,
	}
	svc, phases := newTestService(t, w, nil)

	out := svc.Scan(context.Background(), ScanForm{Keyword: "fone", Regions: []string{"BR"}, Limit: 20})
	require.Equal(t, KindLoadFailure, out.Notice.Kind)
	require.Equal(t, "Failed to load SocialSignalWorker: no chromium browser found", out.Notice.Message)
	require.ErrorIs(t, out.Notice.Err(), capability.ErrUnavailable)
	require.Len(t, diags.Drain(), 1)
	require.Equal(t, []Phase{PhaseValidating, PhaseExecuting, PhaseIdle}, phases.get())
}

func TestScanFailuresAreNotices(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		scan scanFunc
		kind Kind
		msg  string
	}{
		"error": {
			scan: func(context.Context, scanner.Request) (scanner.Result, error) { return scanner.Result{}, errors.New("captcha") },
			kind: KindExecutionFailure, msg: "Scan failed: captcha",
		},
		"panic": {
			scan: func(context.Context, scanner.Request) (scanner.Result, error) { panic("page crashed") },
			kind: KindExecutionFailure, msg: "page crashed",
		},
		"empty": {
			scan: func(context.Context, scanner.Request) (scanner.Result, error) { return scanner.Result{}, nil },
			kind: KindEmptyResult, msg: "No products found",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := &Workers{Scanner: func(context.Context) (scanner.Scanner, error) { return tc.scan, nil }}
			svc, _ := newTestService(t, w, nil)
			out := svc.Scan(context.Background(), ScanForm{Keyword: "fone", Regions: []string{"BR"}, Limit: 20})
			require.Equal(t, tc.kind, out.Notice.Kind)
			require.Contains(t, out.Notice.Message, tc.msg)
			require.True(t, out.Notice.Failed())
			require.Empty(t, out.Products)
		})
	}
}

func TestExportWithoutProducts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, &Workers{}, nil)
	path, n := svc.Export(t.TempDir(), ScanOutcome{})
	require.Empty(t, path)
	require.Equal(t, KindEmptyResult, n.Kind)
}

func writeClip(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestVideoAbsentOutputIsExecutionFailure(t *testing.T) {
	t.Parallel()

	w := &Workers{Video: func(context.Context) (video.Processor, error) {
		return processFunc(func(context.Context, string) (string, error) { return "", nil }), nil
	}}
	svc, phases := newTestService(t, w, nil)

	out := svc.ProcessVideoFile(context.Background(), writeClip(t, "clip.mp4", 1024))
	require.Equal(t, KindExecutionFailure, out.Notice.Kind)
	require.Contains(t, out.Notice.Message, "Processing failed - check logs")
	require.Empty(t, out.OutputPath)
	require.Equal(t, PhaseFailed, phases.get()[len(phases.get())-1])
}

func TestVideoProcessedReportsSizes(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	w := &Workers{Video: func(context.Context) (video.Processor, error) {
		return processFunc(func(_ context.Context, in string) (string, error) {
			out := filepath.Join(outDir, "ghost.mp4")
			return out, os.WriteFile(out, make([]byte, megabyte/2), 0o644)
		}), nil
	}}
	svc, _ := newTestService(t, w, nil)

	out := svc.ProcessVideoFile(context.Background(), writeClip(t, "clip.MOV", megabyte))
	require.Equal(t, KindSuccess, out.Notice.Kind, out.Notice.Message)
	require.Equal(t, "upload_20251203_091500_clip.MOV", filepath.Base(out.InputPath))
	require.InDelta(t, 1.0, out.InputMB, 1e-9)
	require.InDelta(t, 0.5, out.OutputMB, 1e-9)
	require.InDelta(t, 50.0, out.Compression, 1e-9)
}

func TestVideoValidationAndLoadFailure(t *testing.T) {
	t.Parallel()

	w := &Workers{Video: func(context.Context) (video.Processor, error) {
		return nil, errors.New("ffmpeg not found")
	}}
	svc, phases := newTestService(t, w, nil)
	ctx := context.Background()

	out := svc.ProcessVideoFile(ctx, writeClip(t, "notes.txt", 10))
	require.Equal(t, KindValidationFailure, out.Notice.Kind)
	out = svc.ProcessVideoFile(ctx, "")
	require.Equal(t, KindValidationFailure, out.Notice.Kind)
	out = svc.ProcessVideoFile(ctx, filepath.Join(t.TempDir(), "missing.mp4"))
	require.Equal(t, KindValidationFailure, out.Notice.Kind)
	require.NotContains(t, phases.get(), PhaseExecuting)

	out = svc.ProcessVideoFile(ctx, writeClip(t, "clip.mkv", 10))
	require.Equal(t, KindLoadFailure, out.Notice.Kind)
	require.Equal(t, "Failed to load GhostProcessor: ffmpeg not found", out.Notice.Message)
}

func TestCompression(t *testing.T) {
	require.InDelta(t, 25.0, Compression(4, 3), 1e-9)
	require.InDelta(t, -50.0, Compression(2, 3), 1e-9)
	require.Zero(t, Compression(0, 3))
}

func TestMemoryContextPrefixesStrategyInput(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	router := &recordingRouter{res: result.Success(map[string]any{
		"response": "Foque em corredores.", "analysis": "ignored",
	})}
	w := &Workers{
		Memory:   sqliteMemory(db),
		Strategy: func(context.Context) (strategy.Executor, error) { return router, nil },
	}
	svc, _ := newTestService(t, w, nil)
	ctx := context.Background()

	n := svc.SaveContext(ctx, "business_type", "fitness wearables")
	require.Equal(t, KindSuccess, n.Kind)
	require.Equal(t, "Saved: business_type", n.Message)

	entries, ok := svc.Context(ctx)
	require.True(t, ok)
	require.Equal(t, "fitness wearables", entries["business_type"])

	out := svc.ExecuteStrategy(ctx, StrategyForm{Strategy: "otto_chat - Chat direto com OTTO", Input: "como vender mais?"})
	require.Equal(t, KindSuccess, out.Notice.Kind, out.Notice.Message)
	require.Equal(t, "otto_chat", router.id)
	want := "[CONTEXT]\nbusiness_type: fitness wearables\n\n[REQUEST]\ncomo vender mais?"
	require.Equal(t, want, router.params["message"])
	require.Equal(t, want, router.params["topic"])
	require.Equal(t, want, router.params["idea"])
	require.Equal(t, "Foque em corredores.", out.Display)
}

func TestStrategyResultKinds(t *testing.T) {
	t.Parallel()

	router := &recordingRouter{}
	w := &Workers{Strategy: func(context.Context) (strategy.Executor, error) { return router, nil }}
	svc, _ := newTestService(t, w, nil)
	ctx := context.Background()
	form := StrategyForm{Strategy: "mythos_copy", Input: "relógio"}

	router.res = result.Failure("quota exceeded")
	out := svc.ExecuteStrategy(ctx, form)
	require.Equal(t, KindExecutionFailure, out.Notice.Kind)
	require.Equal(t, "quota exceeded", out.Notice.Message)
	require.Equal(t, "relógio", router.params["message"])

	router.res = result.Unknown("pending", map[string]any{"other": 1})
	out = svc.ExecuteStrategy(ctx, form)
	require.Equal(t, KindInfo, out.Notice.Kind)
	require.Equal(t, "Status: pending", out.Notice.Message)
	require.Contains(t, out.Display, `"other": 1`)
	require.True(t, out.Executed)

	router.res = result.Result{Data: map[string]any{"copy": "compre já"}}
	out = svc.ExecuteStrategy(ctx, form)
	require.True(t, out.Executed)
	require.Equal(t, result.KindUnknown, out.Result.Kind())
	require.Equal(t, "Status: unknown", out.Notice.Message)
	require.Equal(t, "compre já", out.Display)

	out = svc.ExecuteStrategy(ctx, StrategyForm{Strategy: "mythos_copy"})
	require.False(t, out.Executed)
}

func TestStrategyValidationNeverExecutes(t *testing.T) {
	t.Parallel()

	router := &recordingRouter{}
	w := &Workers{Strategy: func(context.Context) (strategy.Executor, error) { return router, nil }}
	svc, phases := newTestService(t, w, nil)

	out := svc.ExecuteStrategy(context.Background(), StrategyForm{Strategy: "otto_chat", Input: "  "})
	require.Equal(t, "Please enter your input", out.Notice.Message)
	out = svc.ExecuteStrategy(context.Background(), StrategyForm{Strategy: "oto_chat", Input: "x"})
	require.Equal(t, KindValidationFailure, out.Notice.Kind)
	require.Contains(t, out.Notice.Message, "otto_chat")
	require.NotContains(t, phases.get(), PhaseExecuting)
	require.Empty(t, router.id)
}

func TestSaveContextWithoutMemory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &Workers{}, nil)
	n := svc.SaveContext(context.Background(), "k", "v")
	require.Equal(t, KindLoadFailure, n.Kind)
	n = svc.SaveContext(context.Background(), "", "v")
	require.Equal(t, "Please fill key and value", n.Message)
	_, ok := svc.Context(context.Background())
	require.False(t, ok)
}

func TestNewWorkersLocal(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := config.Config{
		Memory: config.MemoryConfig{Backend: "redis", RedisURL: "redis://" + mr.Addr() + "/0"},
		LLM:    config.LLMConfig{Provider: "offline"},
		Video:  config.VideoConfig{FFmpeg: filepath.Join(t.TempDir(), "no-ffmpeg")},
	}
	w := NewWorkers(cfg, Deps{})
	ctx := context.Background()

	m := w.LoadMemory(ctx)
	require.True(t, m.IsPresent())
	release(m)

	st := w.LoadStrategy(ctx)
	require.True(t, st.IsPresent())

	require.False(t, w.LoadVideo(ctx).IsPresent())
	require.False(t, w.LoadEvents(ctx).IsPresent())
}

func TestNewWorkersRemoteUnreachable(t *testing.T) {
	t.Parallel()

	var diags capability.Diagnostics
	cfg := config.Config{Backend: config.BackendConfig{URL: "http://127.0.0.1:1", Timeout: time.Second}}
	w := NewWorkers(cfg, Deps{Notifier: &diags})
	ctx := context.Background()

	require.False(t, w.LoadScanner(ctx).IsPresent())
	require.False(t, w.LoadVideo(ctx).IsPresent())
	require.False(t, w.LoadStrategy(ctx).IsPresent())
	require.Len(t, diags.Drain(), 3)
	require.False(t, w.LoadMemory(ctx).IsPresent())
	require.Empty(t, diags.Drain())
}
