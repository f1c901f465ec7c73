package capability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type worker struct{ name string }

func TestLoadPresent(t *testing.T) {
	t.Parallel()

	var diags Diagnostics
	h := Load(context.Background(), "scanner", func(context.Context) (*worker, error) {
		return &worker{name: "ok"}, nil
	}, &diags)

	w, ok := h.Get()
	require.True(t, ok)
	require.Equal(t, "ok", w.name)
	require.NoError(t, h.Err())
	require.Empty(t, diags.Drain())
}

func TestLoadFailuresYieldAbsentWithOneDiagnostic(t *testing.T) {
	t.Parallel()

	boom := errors.New("missing dependency")
	cases := map[string]Constructor[*worker]{
		"error": func(context.Context) (*worker, error) { return nil, boom },
		"panic": func(context.Context) (*worker, error) { panic("import failed") },
		"nil":   func(context.Context) (*worker, error) { return nil, nil },
		"unset": nil,
	}
	for name, ctor := range cases {
		t.Run(name, func(t *testing.T) {
			var diags Diagnostics
			h := Load(context.Background(), "video", ctor, &diags)

			require.False(t, h.IsPresent())
			require.ErrorIs(t, h.Err(), ErrUnavailable)
			got := diags.Drain()
			require.Len(t, got, 1)
			require.Equal(t, "video", got[0].Capability)
			require.Contains(t, got[0].String(), "Failed to load video")
		})
	}
}

func TestLoadIsNotCached(t *testing.T) {
	t.Parallel()

	calls := 0
	ctor := func(context.Context) (*worker, error) {
		calls++
		return &worker{}, nil
	}
	a := Load(context.Background(), "memory", ctor, nil)
	b := Load(context.Background(), "memory", ctor, nil)

	require.Equal(t, 2, calls)
	wa, _ := a.Get()
	wb, _ := b.Get()
	require.NotSame(t, wa, wb)
}

func TestLoadNilNotifierStaysQuiet(t *testing.T) {
	t.Parallel()

	h := Load(context.Background(), "memory", func(context.Context) (*worker, error) {
		return nil, errors.New("no redis")
	}, nil)
	require.False(t, h.IsPresent())
	require.ErrorContains(t, h.Err(), "no redis")
}

func TestZeroHandleIsAbsent(t *testing.T) {
	t.Parallel()

	var h Handle[*worker]
	_, ok := h.Get()
	require.False(t, ok)
	require.ErrorIs(t, h.Err(), ErrUnavailable)
}

func TestTeeNotifiesAll(t *testing.T) {
	t.Parallel()

	var a, b Diagnostics
	Load(context.Background(), "strategy", func(context.Context) (*worker, error) {
		return nil, errors.New("no key")
	}, Tee(&a, &b, nil))
	require.Len(t, a.Drain(), 1)
	require.Len(t, b.Drain(), 1)
}

func TestDiagnosticCarriesCause(t *testing.T) {
	t.Parallel()

	var diags Diagnostics
	h := Load(context.Background(), "GhostProcessor", func(context.Context) (*worker, error) {
		return nil, errors.New("ffmpeg not found")
	}, &diags)

	got := diags.Drain()
	require.Len(t, got, 1)
	require.Equal(t, "Failed to load GhostProcessor: ffmpeg not found", got[0].String())
	require.EqualError(t, h.Cause(), "ffmpeg not found")
	require.EqualError(t, h.Err(), "capability unavailable: GhostProcessor: ffmpeg not found")
}
