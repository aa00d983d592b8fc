// Package store provides postgres-backed persistence for users and
// ingestion audit records.
package store

import (
	"context"
	"errors"

	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/model"
)

// ErrNotFound signals an absent entity; handlers translate it to a 404
// or 401 depending on context.
var ErrNotFound = errors.New("not found")

// Store is the repository interface for persistent lookups.
type Store interface {
	// Migrate runs database migrations.
	Migrate(ctx context.Context) error
	// UserByToken resolves an API token to a user and their role set.
	// Returns ErrNotFound for unknown tokens.
	UserByToken(ctx context.Context, token string) (*model.User, error)
	// SaveLoadReport records the outcome of one dataset load pass.
	SaveLoadReport(ctx context.Context, rep dataset.Report) error
	// RecentLoadReports returns the newest load reports, most recent first.
	RecentLoadReports(ctx context.Context, limit int) ([]dataset.Report, error)
}
