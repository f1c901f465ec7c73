package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/bridge"
	"github.com/jade/jadeos/internal/database/repository"
	"github.com/jade/jadeos/internal/events"
	"github.com/jade/jadeos/internal/scanner"
)

// ScanForm is the radar tab input.
type ScanForm struct {
	Keyword string   `validate:"required"`
	Regions []string `validate:"required,min=1,dive,oneof=BR SG MY TH VN PH ID"`
	Limit   int      `validate:"min=5,max=50"`
	MinSold int      `validate:"min=0,max=10000"`
}

// DefaultScanForm has the form's initial values.
func DefaultScanForm() ScanForm {
	return ScanForm{
		Regions: append([]string(nil), scanner.DefaultRegions...),
		Limit:   scanner.DefaultLimit,
		MinSold: scanner.DefaultMinSold,
	}
}

// ScanOutcome is what the radar tab renders.
type ScanOutcome struct {
	Notice   Notice
	RunID    string
	Keyword  string
	Products []scanner.Product
	Found    int
	Summary  scanner.Summary
}

// Scan validates form, runs the scanner and keeps products with at least
// MinSold sales.
func (s *Service) Scan(ctx context.Context, form ScanForm) (out ScanOutcome) {
	defer s.guard(ActionScan, &out.Notice, "Scan failed")

	form.Keyword = strings.TrimSpace(form.Keyword)
	out.Keyword = form.Keyword
	s.enter(ActionScan, PhaseValidating)
	if err := s.validate.Struct(form); err != nil {
		s.enter(ActionScan, PhaseIdle)
		out.Notice = invalid("%s", scanValidationMessage(err))
		return out
	}

	s.enter(ActionScan, PhaseExecuting)
	h := s.workers.LoadScanner(ctx)
	sc, ok := h.Get()
	if !ok {
		s.enter(ActionScan, PhaseIdle)
		out.Notice = unavailable(h.Name(), h.Cause())
		return out
	}
	defer release(h)

	res, err := bridge.Run(ctx, s.bridge, func(ctx context.Context) (scanner.Result, error) {
		return sc.Scan(ctx, scanner.Request{Keyword: form.Keyword, Regions: form.Regions, Limit: form.Limit})
	})
	if err != nil {
		s.enter(ActionScan, PhaseFailed)
		s.log.Warn("scan failed", zap.String("keyword", form.Keyword), zap.Error(err))
		out.Notice = failed("Scan failed: %v", err)
		return out
	}
	if len(res.Products) == 0 {
		s.enter(ActionScan, PhaseRendered)
		out.Notice = empty("No products found")
		return out
	}

	out.Found = len(res.Products)
	out.Products = scanner.Filter(res.Products, form.MinSold)
	out.Summary = scanner.Summarize(out.Products, out.Found)
	out.RunID = uuid.NewString()
	s.record(ctx, out, form)
	s.enter(ActionScan, PhaseRendered)
	out.Notice = success("Found %d products (filtered from %d)", len(out.Products), out.Found)
	s.log.Info("scan rendered",
		zap.String("keyword", form.Keyword),
		zap.Strings("regions", form.Regions),
		zap.Int("found", out.Found),
		zap.Int("kept", len(out.Products)))
	s.publish(ctx, events.TypeScanCompleted, string(ActionScan), map[string]any{
		"run_id": out.RunID, "keyword": form.Keyword, "found": out.Found, "kept": len(out.Products),
	})
	return out
}

// record stores the run in scan history; a failure only reaches the log.
func (s *Service) record(ctx context.Context, out ScanOutcome, form ScanForm) {
	if s.scans == nil {
		return
	}
	run := repository.ScanRun{
		ID:           out.RunID,
		Keyword:      form.Keyword,
		Regions:      form.Regions,
		MaxPerRegion: form.Limit,
		MinSold:      form.MinSold,
		Found:        out.Found,
		Kept:         len(out.Products),
	}
	for _, p := range out.Products {
		run.Products = append(run.Products, repository.ScanProduct{
			Name: p.Name, Price: p.Price, Sold: p.Sold, Stock: p.Stock, Rating: p.Rating,
			Region: p.Region, Currency: p.Currency, URL: p.URL,
		})
	}
	if err := s.scans.Insert(ctx, run); err != nil {
		s.log.Warn("scan history insert failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// Export writes the kept products of out as CSV into dir.
func (s *Service) Export(dir string, out ScanOutcome) (string, Notice) {
	if len(out.Products) == 0 {
		return "", empty("Nothing to export")
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, scanner.ExportName(out.Keyword, s.now()))
	f, err := os.Create(path)
	if err != nil {
		return "", failed("Export failed: %v", err)
	}
	werr := scanner.WriteCSV(f, out.Products)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", failed("Export failed: %v", werr)
	}
	return path, success("Exported %d rows to %s", len(out.Products), path)
}

func scanValidationMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err.Error()
	}
	fe := ves[0]
	switch {
	case fe.Field() == "Keyword":
		return "Please enter a keyword"
	case fe.Field() == "Regions":
		return "Please select at least one country"
	case strings.HasPrefix(fe.Field(), "Regions["):
		return fmt.Sprintf("Unknown country %v", fe.Value())
	case fe.Field() == "Limit":
		return fmt.Sprintf("Max products per country must be between %d and %d", scanner.MinLimit, scanner.MaxLimit)
	case fe.Field() == "MinSold":
		return fmt.Sprintf("Min sales filter must be between 0 and %d", scanner.MaxMinSold)
	}
	return fe.Error()
}
