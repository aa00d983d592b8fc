package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/store"
)

// RefreshJob re-reads both datasets ahead of TTL expiry so requests
// rarely pay the file-read cost, and persists each load report as an
// ingestion audit record.
type RefreshJob struct {
	cache *dataset.Cache
	store store.Store
	log   zerolog.Logger
}

func NewRefreshJob(cache *dataset.Cache, st store.Store, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		cache: cache,
		store: st,
		log:   log.With().Str("job", "dataset_refresh").Logger(),
	}
}

func (j *RefreshJob) Name() string { return "dataset_refresh" }

// Run clears the cache and reloads both datasets concurrently.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	j.cache.Clear()

	g, ctx := errgroup.WithContext(ctx)
	for _, ds := range []dataset.Dataset{dataset.Cleaned, dataset.Full} {
		ds := ds
		g.Go(func() error {
			_, rep, err := j.cache.Load(ds)
			if err != nil {
				return err
			}
			if rep.Path == "" {
				// Nothing to record for a missing file.
				return nil
			}
			// Audit persistence is best effort: a store outage must
			// not fail the refresh.
			if err := j.store.SaveLoadReport(ctx, rep); err != nil {
				j.log.Warn().Err(err).Str("dataset", string(ds)).Msg("Failed to persist load report")
			}
			return nil
		})
	}
	return g.Wait()
}
