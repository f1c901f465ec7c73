package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/bridge"
	"github.com/jade/jadeos/internal/events"
	"github.com/jade/jadeos/internal/video"
)

const megabyte = 1024 * 1024

// VideoOutcome is what the ghost tab renders.
type VideoOutcome struct {
	Notice      Notice
	InputPath   string
	OutputPath  string
	InputMB     float64
	OutputMB    float64
	Compression float64
}

// ProcessVideoFile reads the clip at path and processes it.
func (s *Service) ProcessVideoFile(ctx context.Context, path string) VideoOutcome {
	s.enter(ActionVideo, PhaseValidating)
	path = strings.TrimSpace(path)
	if path == "" {
		s.enter(ActionVideo, PhaseIdle)
		return VideoOutcome{Notice: invalid("Please choose a video file")}
	}
	f, err := os.Open(path)
	if err != nil {
		s.enter(ActionVideo, PhaseIdle)
		return VideoOutcome{Notice: invalid("Cannot read %s: %v", path, err)}
	}
	defer f.Close()
	return s.processVideo(ctx, filepath.Base(path), f)
}

// ProcessVideo stores the upload under the upload directory and runs the
// ghost processor on it.
func (s *Service) ProcessVideo(ctx context.Context, name string, r io.Reader) VideoOutcome {
	s.enter(ActionVideo, PhaseValidating)
	return s.processVideo(ctx, name, r)
}

func (s *Service) processVideo(ctx context.Context, name string, r io.Reader) (out VideoOutcome) {
	defer s.guard(ActionVideo, &out.Notice, "Ghost Protocol failed")

	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || r == nil {
		s.enter(ActionVideo, PhaseIdle)
		out.Notice = invalid("Please choose a video file")
		return out
	}
	if !video.AllowedExtension(name) {
		s.enter(ActionVideo, PhaseIdle)
		out.Notice = invalid("Unsupported file type %q (allowed: %s)", filepath.Ext(name), strings.Join(video.Extensions, " "))
		return out
	}

	s.enter(ActionVideo, PhaseExecuting)
	h := s.workers.LoadVideo(ctx)
	proc, ok := h.Get()
	if !ok {
		s.enter(ActionVideo, PhaseIdle)
		out.Notice = unavailable(h.Name(), h.Cause())
		return out
	}
	defer release(h)

	input, err := s.saveUpload(name, r)
	if err != nil {
		s.enter(ActionVideo, PhaseFailed)
		out.Notice = failed("Ghost Protocol failed: %v", err)
		return out
	}
	out.InputPath = input

	output, err := bridge.Run(ctx, s.bridge, func(ctx context.Context) (string, error) {
		return proc.Process(ctx, input)
	})
	if err != nil {
		s.enter(ActionVideo, PhaseFailed)
		s.log.Warn("video processing failed", zap.String("input", input), zap.Error(err))
		out.Notice = failed("Ghost Protocol failed: %v", err)
		return out
	}
	outInfo, statErr := os.Stat(output)
	if output == "" || statErr != nil {
		s.enter(ActionVideo, PhaseFailed)
		s.log.Warn("video processing produced no output", zap.String("input", input), zap.String("output", output))
		out.Notice = failed("Processing failed - check logs (%v)", video.ErrNoOutput)
		return out
	}
	out.OutputPath = output
	if inInfo, err := os.Stat(input); err == nil {
		out.InputMB = float64(inInfo.Size()) / megabyte
	}
	out.OutputMB = float64(outInfo.Size()) / megabyte
	out.Compression = Compression(out.InputMB, out.OutputMB)

	s.enter(ActionVideo, PhaseRendered)
	out.Notice = success("Video processed successfully!")
	s.log.Info("video rendered", zap.String("input", input), zap.String("output", output))
	s.publish(ctx, events.TypeVideoProcessed, string(ActionVideo), map[string]any{
		"input": input, "output": output, "input_mb": out.InputMB, "output_mb": out.OutputMB,
	})
	return out
}

func (s *Service) saveUpload(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.uploadDir, fmt.Sprintf("upload_%s_%s", s.now().Format("20060102_150405"), name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("save upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// Compression is the size reduction in percent; 0 for an empty input.
func Compression(inputMB, outputMB float64) float64 {
	if inputMB <= 0 {
		return 0
	}
	return (inputMB - outputMB) / inputMB * 100
}
