package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jade/jadeos/internal/backend"
	"github.com/jade/jadeos/internal/scanner"
	"github.com/jade/jadeos/internal/service"
)

// maxUpload bounds a /video/wash body.
const maxUpload = 1 << 30

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var docs = []endpoint{
	{http.MethodGet, "/health", "Service status and capability availability"},
	{http.MethodGet, "/docs", "This listing"},
	{http.MethodPost, "/intel/supply/track", "Scan regions for a keyword: {keyword, regions, limit, min_sold}"},
	{http.MethodPost, "/agent/strategy", "Execute a strategy: {strategy, input, use_memory}"},
	{http.MethodPost, "/video/wash", "Ghost-process the multipart field \"file\"; returns the processed video"},
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, backend.Health{
		Status:       "ok",
		Capabilities: s.svc.Workers().Available(r.Context()),
	})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": docs})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req backend.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	if req.Limit == 0 {
		req.Limit = scanner.DefaultLimit
	}
	out := s.svc.Scan(r.Context(), service.ScanForm{
		Keyword: req.Keyword,
		Regions: req.Regions,
		Limit:   req.Limit,
		MinSold: req.MinSold,
	})
	if code := statusFor(out.Notice); code != http.StatusOK {
		writeError(w, code, out.Notice.Message)
		return
	}
	products := out.Products
	if products == nil {
		products = []scanner.Product{}
	}
	writeJSON(w, http.StatusOK, backend.TrackResponse{Products: products, Found: out.Found, Summary: out.Summary})
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	var req backend.StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
		return
	}
	out := s.svc.ExecuteStrategy(r.Context(), service.StrategyForm{
		Strategy:   req.Strategy,
		Input:      req.Input,
		SkipMemory: req.UseMemory != nil && !*req.UseMemory,
	})
	// An executed strategy answers with its result, whatever its status.
	if out.Executed {
		writeJSON(w, http.StatusOK, out.Result)
		return
	}
	writeError(w, statusFor(out.Notice), out.Notice.Message)
}

func (s *Server) handleWash(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing file: %v", err))
		return
	}
	defer f.Close()

	out := s.svc.ProcessVideo(r.Context(), hdr.Filename, f)
	if code := statusFor(out.Notice); code != http.StatusOK {
		writeError(w, code, out.Notice.Message)
		return
	}
	processed, err := os.Open(out.OutputPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer processed.Close()
	info, err := processed.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := filepath.Base(out.OutputPath)
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), processed)
}
