package video

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRandomProfileStaysNearCity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		p := RandomProfile(r, now)
		require.Contains(t, Cities, p.City)
		require.Contains(t, Devices, p.Device)
		require.InDelta(t, p.City.Lat, p.Lat, maxJitter)
		require.InDelta(t, p.City.Lon, p.Lon, maxJitter)
		require.False(t, p.Created.After(now))
		require.True(t, p.Created.After(now.Add(-73*time.Hour)))
	}
}

func TestCitiesAreBrazilian(t *testing.T) {
	require.Len(t, Cities, 10)
	for _, c := range Cities {
		require.Less(t, c.Lat, 6.0, c.Name)
		require.Greater(t, c.Lat, -34.0, c.Name)
		require.Less(t, c.Lon, -34.0, c.Name)
	}
}

func TestArgsCarryProfile(t *testing.T) {
	p := Profile{
		Device:     Device{Make: "Apple", Model: "iPhone 15", Software: "18.1"},
		City:       Cities[0],
		Lat:        -23.5505,
		Lon:        -46.6333,
		Gamma:      1.01,
		Saturation: 1.02,
		Sharpen:    0.5,
		Created:    time.Date(2025, 11, 30, 8, 0, 0, 0, time.UTC),
	}
	args := p.Args("in.mov", "out.mp4")
	joined := strings.Join(args, " ")

	require.Equal(t, "in.mov", args[indexOf(args, "-i")+1])
	require.Equal(t, "out.mp4", args[len(args)-1])
	require.Contains(t, joined, "-c:a aac")
	require.Contains(t, joined, "model=iPhone 15")
	require.Contains(t, joined, "location=-23.5505-046.6333/")
	require.Contains(t, joined, "creation_time=2025-11-30T08:00:00Z")
	require.Contains(t, p.Filters(), "eq=gamma=1.010:saturation=1.020")
	require.Contains(t, p.Filters(), "unsharp=5:5:0.50")
}

func TestAllowedExtension(t *testing.T) {
	require.True(t, AllowedExtension("clip.MP4"))
	require.True(t, AllowedExtension("a/b/c.mkv"))
	require.False(t, AllowedExtension("notes.txt"))
	require.False(t, AllowedExtension("mp4"))
}

func TestNewGhostProcessorMissingBinary(t *testing.T) {
	_, err := NewGhostProcessor(Options{FFmpeg: filepath.Join(t.TempDir(), "no-ffmpeg")})
	require.Error(t, err)
}

// fakeFFmpeg copies the -i input to the last argument.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

const copyScript = `in=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  prev="$a"
  out="$a"
done
cp "$in" "$out"
`

func TestGhostProcessorProcess(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(in, []byte("frames"), 0o644))

	g, err := NewGhostProcessor(Options{
		FFmpeg:    fakeFFmpeg(t, copyScript),
		OutputDir: filepath.Join(dir, "processed"),
		Rand:      rand.New(rand.NewSource(1)),
		Now:       func() time.Time { return time.Date(2025, 12, 2, 10, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	out, err := g.Process(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "processed", "ghost_clip_20251202_103000.mp4"), out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "frames", string(data))
}

func TestGhostProcessorNoOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(in, []byte("frames"), 0o644))

	g, err := NewGhostProcessor(Options{FFmpeg: fakeFFmpeg(t, "exit 0\n"), OutputDir: dir})
	require.NoError(t, err)

	out, err := g.Process(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGhostProcessorFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(in, []byte("frames"), 0o644))

	g, err := NewGhostProcessor(Options{FFmpeg: fakeFFmpeg(t, "echo 'Invalid data found' >&2\nexit 1\n"), OutputDir: dir})
	require.NoError(t, err)

	_, err = g.Process(context.Background(), in)
	require.ErrorContains(t, err, "Invalid data found")
}

func TestGhostProcessorMissingInput(t *testing.T) {
	g, err := NewGhostProcessor(Options{FFmpeg: fakeFFmpeg(t, "exit 0\n"), OutputDir: t.TempDir()})
	require.NoError(t, err)
	_, err = g.Process(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	require.Error(t, err)
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}
