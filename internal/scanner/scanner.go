// Package scanner is the product radar capability: multi-region product search
// plus the filtering, metrics and CSV export applied to its results.
package scanner

import (
	"context"
)

// Form bounds for a scan request.
const (
	MinLimit       = 5
	MaxLimit       = 50
	DefaultLimit   = 20
	MaxMinSold     = 10000
	DefaultMinSold = 100
)

// Product is one search hit.
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Sold     int     `json:"sold"`
	Stock    int     `json:"stock"`
	Rating   float64 `json:"rating"`
	Region   string  `json:"region"`
	Currency string  `json:"currency"`
	URL      string  `json:"url,omitempty"`
}

// Request is a scan over one keyword and several regions.
type Request struct {
	Keyword string   `json:"keyword" validate:"required"`
	Regions []string `json:"regions" validate:"required,min=1,dive,oneof=BR SG MY TH VN PH ID"`
	Limit   int      `json:"limit" validate:"min=5,max=50"`
}

// Result is what a scanner returns.
type Result struct {
	Products []Product `json:"products"`
}

// Scanner is the scanning capability contract.
type Scanner interface {
	Scan(ctx context.Context, req Request) (Result, error)
}

// Summary holds the metrics row shown under the product table.
type Summary struct {
	Total      int     `json:"total"`
	AvgPrice   float64 `json:"avg_price"`
	TotalSold  int     `json:"total_sold"`
	FoundTotal int     `json:"found_total"`
}

// Filter keeps products with at least minSold sales. Order is preserved.
func Filter(products []Product, minSold int) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Sold >= minSold {
			out = append(out, p)
		}
	}
	return out
}

// Summarize computes metrics over the kept products; found is the unfiltered count.
func Summarize(kept []Product, found int) Summary {
	s := Summary{Total: len(kept), FoundTotal: found}
	if len(kept) == 0 {
		return s
	}
	var sum float64
	for _, p := range kept {
		sum += p.Price
		s.TotalSold += p.Sold
	}
	s.AvgPrice = sum / float64(len(kept))
	return s
}
