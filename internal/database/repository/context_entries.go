package repository

import (
	"context"
	"database/sql"
)

// ContextRepo handles stored business context.
type ContextRepo struct {
	db *sql.DB
}

func NewContextRepo(db *sql.DB) *ContextRepo { return &ContextRepo{db: db} }

// Upsert stores value under key, replacing any previous value.
func (r *ContextRepo) Upsert(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO context_entries(key, value, created_at, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET
	 value=excluded.value,
	 updated_at=CURRENT_TIMESTAMP;
	`, key, value)
	return err
}

func (r *ContextRepo) Get(ctx context.Context, key string) (*ContextEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, created_at, updated_at FROM context_entries WHERE key = ?`, key)
	var e ContextEntry
	if err := row.Scan(&e.Key, &e.Value, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// List returns entries in insertion order.
func (r *ContextRepo) List(ctx context.Context) ([]ContextEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, created_at, updated_at FROM context_entries ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ContextEntry
	for rows.Next() {
		var e ContextEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ContextRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM context_entries WHERE key = ?`, key)
	return err
}
