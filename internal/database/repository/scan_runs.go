package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jade/jadeos/internal/database"
)

// ScanRepo handles scan history.
type ScanRepo struct {
	db *sql.DB
}

func NewScanRepo(db *sql.DB) *ScanRepo { return &ScanRepo{db: db} }

// Insert stores a run and its products in one transaction.
func (r *ScanRepo) Insert(ctx context.Context, run ScanRun) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO scan_runs(id, keyword, regions, max_per_region, min_sold, found, kept, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
		`, run.ID, run.Keyword, strings.Join(run.Regions, ","), run.MaxPerRegion, run.MinSold, run.Found, run.Kept); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scan_products(run_id, name, price, sold, stock, rating, region, currency, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, p := range run.Products {
			if _, err := stmt.ExecContext(ctx, run.ID, p.Name, p.Price, p.Sold, p.Stock, p.Rating, p.Region, p.Currency, p.URL); err != nil {
				return err
			}
		}
		return nil
	})
}

// Recent lists the latest runs without their products.
func (r *ScanRepo) Recent(ctx context.Context, limit int) ([]ScanRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, keyword, regions, max_per_region, min_sold, found, kept, created_at
	FROM scan_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScanRun
	for rows.Next() {
		var (
			run     ScanRun
			regions string
		)
		if err := rows.Scan(&run.ID, &run.Keyword, &regions, &run.MaxPerRegion, &run.MinSold, &run.Found, &run.Kept, &run.CreatedAt); err != nil {
			return nil, err
		}
		if regions != "" {
			run.Regions = strings.Split(regions, ",")
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Products returns the rows stored for a run.
func (r *ScanRepo) Products(ctx context.Context, runID string) ([]ScanProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT name, price, sold, stock, rating, region, currency, url
	FROM scan_products WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScanProduct
	for rows.Next() {
		var p ScanProduct
		if err := rows.Scan(&p.Name, &p.Price, &p.Sold, &p.Stock, &p.Rating, &p.Region, &p.Currency, &p.URL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
