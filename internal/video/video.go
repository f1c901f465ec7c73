// Package video is the ghost processing capability: it re-encodes an uploaded
// clip with a fresh device identity, GPS position and hash.
package video

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoOutput is returned by callers when a processor yields no file.
var ErrNoOutput = errors.New("video: processing produced no output")

// Extensions accepted for upload.
var Extensions = []string{".mp4", ".mov", ".avi", ".mkv"}

// Processor is the video capability contract. An empty output path with a nil
// error means the processor ran but produced nothing.
type Processor interface {
	Process(ctx context.Context, inputPath string) (string, error)
}

// Options configures the ffmpeg processor.
type Options struct {
	FFmpeg    string
	OutputDir string
	Logger    *zap.Logger
	Rand      *rand.Rand
	Now       func() time.Time
}

// GhostProcessor shells out to ffmpeg.
type GhostProcessor struct {
	ffmpeg string
	outDir string
	log    *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	rand *rand.Rand
}

// NewGhostProcessor resolves the ffmpeg binary; a missing binary is a load failure.
func NewGhostProcessor(opts Options) (*GhostProcessor, error) {
	bin := strings.TrimSpace(opts.FFmpeg)
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("video: ffmpeg not found: %w", err)
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Join("data", "processed")
	}
	g := &GhostProcessor{ffmpeg: path, outDir: outDir, log: opts.Logger, now: opts.Now, rand: opts.Rand}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.rand == nil {
		g.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g, nil
}

// Process re-encodes inputPath into the output directory and returns the new
// file's path.
func (g *GhostProcessor) Process(ctx context.Context, inputPath string) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("video: input: %w", err)
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return "", fmt.Errorf("video: mkdir output: %w", err)
	}

	now := g.now()
	g.mu.Lock()
	profile := RandomProfile(g.rand, now)
	g.mu.Unlock()

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(g.outDir, fmt.Sprintf("ghost_%s_%s.mp4", base, now.Format("20060102_150405")))

	cmd := exec.CommandContext(ctx, g.ffmpeg, profile.Args(inputPath, out)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("video: ffmpeg: %w: %s", err, tail(string(output), 400))
	}
	if _, err := os.Stat(out); err != nil {
		g.log.Warn("ffmpeg finished without output", zap.String("output", out))
		return "", nil
	}
	g.log.Info("video processed",
		zap.String("input", inputPath),
		zap.String("output", out),
		zap.String("device", profile.Device.Model),
		zap.String("city", profile.City.Name))
	return out, nil
}

// AllowedExtension reports whether name has an accepted video extension.
func AllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
