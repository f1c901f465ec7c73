package repository

import "time"

// ContextEntry is one long-term business context fact.
type ContextEntry struct {
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScanRun records one radar scan and the rows kept after filtering.
type ScanRun struct {
	ID           string
	Keyword      string
	Regions      []string
	MaxPerRegion int
	MinSold      int
	Found        int
	Kept         int
	CreatedAt    time.Time
	Products     []ScanProduct
}

// ScanProduct is a product row kept by a scan run.
type ScanProduct struct {
	Name     string
	Price    float64
	Sold     int
	Stock    int
	Rating   float64
	Region   string
	Currency string
	URL      string
}
