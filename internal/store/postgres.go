package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/model"
)

// Postgres implements Store over a postgres connection.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id          BIGSERIAL PRIMARY KEY,
			username    TEXT NOT NULL UNIQUE,
			api_token   TEXT NOT NULL UNIQUE,
			roles       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS load_reports (
			id              BIGSERIAL PRIMARY KEY,
			dataset         TEXT NOT NULL,
			path            TEXT NOT NULL,
			rows_kept       INTEGER NOT NULL,
			skipped_short   INTEGER NOT NULL,
			skipped_empty   INTEGER NOT NULL,
			loaded_at       TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_load_reports_loaded_at ON load_reports (loaded_at DESC);
	`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (p *Postgres) UserByToken(ctx context.Context, token string) (*model.User, error) {
	var (
		user  model.User
		roles string
	)
	err := p.db.QueryRowContext(ctx,
		"SELECT id, username, roles FROM users WHERE api_token = $1",
		token,
	).Scan(&user.ID, &user.Username, &roles)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	user.Roles = model.ParseRoles(roles)
	return &user, nil
}

func (p *Postgres) SaveLoadReport(ctx context.Context, rep dataset.Report) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO load_reports (dataset, path, rows_kept, skipped_short, skipped_empty, loaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(rep.Dataset), rep.Path, rep.RowsKept, rep.SkippedShort, rep.SkippedEmpty, rep.LoadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save load report: %w", err)
	}
	return nil
}

func (p *Postgres) RecentLoadReports(ctx context.Context, limit int) ([]dataset.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT dataset, path, rows_kept, skipped_short, skipped_empty, loaded_at
		 FROM load_reports ORDER BY loaded_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query load reports: %w", err)
	}
	defer rows.Close()

	var reports []dataset.Report
	for rows.Next() {
		var rep dataset.Report
		var ds string
		if err := rows.Scan(&ds, &rep.Path, &rep.RowsKept, &rep.SkippedShort, &rep.SkippedEmpty, &rep.LoadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan load report: %w", err)
		}
		rep.Dataset = dataset.Dataset(ds)
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
