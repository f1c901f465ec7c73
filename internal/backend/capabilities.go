package backend

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jade/jadeos/internal/result"
	"github.com/jade/jadeos/internal/scanner"
)

// TrackRequest is the body of POST /intel/supply/track.
type TrackRequest struct {
	Keyword string   `json:"keyword" validate:"required"`
	Regions []string `json:"regions" validate:"required,min=1,dive,oneof=BR SG MY TH VN PH ID"`
	Limit   int      `json:"limit" validate:"omitempty,min=5,max=50"`
	MinSold int      `json:"min_sold" validate:"min=0,max=10000"`
}

// TrackResponse is the body it answers with.
type TrackResponse struct {
	Products []scanner.Product `json:"products"`
	Found    int               `json:"found"`
	Summary  scanner.Summary   `json:"summary"`
}

// StrategyRequest is the body of POST /agent/strategy. UseMemory nil means
// true: the server prefixes its own stored context.
type StrategyRequest struct {
	Strategy  string `json:"strategy" validate:"required"`
	Input     string `json:"input" validate:"required"`
	UseMemory *bool  `json:"use_memory,omitempty"`
}

// Scanner forwards scans to the backend.
type Scanner struct{ c *Client }

func (c *Client) Scanner() *Scanner { return &Scanner{c: c} }

// Scan asks for every product; min-sold filtering stays with the caller.
func (s *Scanner) Scan(ctx context.Context, req scanner.Request) (scanner.Result, error) {
	var out TrackResponse
	err := s.c.postJSON(ctx, "/intel/supply/track", TrackRequest{
		Keyword: req.Keyword,
		Regions: req.Regions,
		Limit:   req.Limit,
	}, &out)
	if err != nil {
		return scanner.Result{}, err
	}
	return scanner.Result{Products: out.Products}, nil
}

// Router forwards strategy executions to the backend.
type Router struct{ c *Client }

func (c *Client) Router() *Router { return &Router{c: c} }

func (r *Router) Execute(ctx context.Context, id string, params map[string]string) (result.Result, error) {
	input := params["message"]
	if input == "" {
		input = params["topic"]
	}
	if input == "" {
		input = params["idea"]
	}
	noMemory := false
	var raw map[string]any
	err := r.c.postJSON(ctx, "/agent/strategy", StrategyRequest{Strategy: id, Input: input, UseMemory: &noMemory}, &raw)
	if err != nil {
		return result.Result{}, err
	}
	return result.FromMap(raw), nil
}

// Processor uploads videos to the backend and stores the washed file in dir.
type Processor struct {
	c   *Client
	dir string
}

func (c *Client) Processor(dir string) *Processor { return &Processor{c: c, dir: dir} }

func (p *Processor) Process(ctx context.Context, inputPath string) (string, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("backend: open upload: %w", err)
	}
	defer in.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(inputPath))
		if err == nil {
			_, err = io.Copy(part, in)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	resp, err := p.c.send(ctx, http.MethodPost, "/video/wash", pr, mw.FormDataContentType())
	if err != nil {
		_ = pr.CloseWithError(err)
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return "", nil
	}

	name := "ghost_" + filepath.Base(inputPath)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = filepath.Base(params["filename"])
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(p.dir, name)
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil {
		return "", fmt.Errorf("backend: download: %w", copyErr)
	}
	if closeErr != nil {
		return "", closeErr
	}
	if n == 0 {
		_ = os.Remove(out)
		return "", nil
	}
	return out, nil
}
