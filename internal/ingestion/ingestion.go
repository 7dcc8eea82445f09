package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/guttosm/dealtracker/internal/logger"
	"github.com/guttosm/dealtracker/internal/storage"
)

const (
	filePattern      = "*_prices.csv"
	defaultBatchSize = 5000
	maxParallelFiles = 8
	// logQueryTimeout bounds the ingestion_log bookkeeping queries.
	logQueryTimeout = 30 * time.Second
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.PricesRepository {
	return storage.NewPricesRepository(db, logQueryTimeout)
}

// ProcessDirectory loads every price observation file found in dir.
//
//   - dir: directory containing "*_prices.csv" files.
//   - db:  open *sql.DB (PostgreSQL).
//
// Behavior:
//   - Files are processed concurrently, at most `parallel` at a time
//     (default min(NumCPU, 8), clamped to 1..8).
//   - A file already present in ingestion_log is skipped unless force is set.
//     Any rows carrying the file name as source are deleted before a load,
//     so a file interrupted mid-way is loaded again without duplicates.
//   - Rows are bulk-inserted in batches of 5000.
//   - The first failing file cancels the others and its error is returned.
//   - A cancelled ctx is reported as an error, never as a completed run.
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, parallel int, force bool) error {
	repo := repoCtor(db)

	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %s", filePattern, dir)
	}
	sort.Strings(files)

	maxParallel := resolveParallelism(parallel, runtime.NumCPU())
	logger.L().Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("ingestion start")

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(maxParallel))

	for i, file := range files {
		if err := sem.Acquire(gctx, 1); err != nil {
			// A failed file cancels gctx; prefer its error over the acquire error.
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return fmt.Errorf("ingestion interrupted before %s: %w", filepath.Base(file), err)
		}
		idx, f := i, file

		g.Go(func() error {
			defer sem.Release(1)
			return processFile(gctx, repo, f, idx, len(files), force)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// resolveParallelism returns the requested parallelism clamped to 1..8,
// or min(cpus, 8) when none was requested.
func resolveParallelism(requested, cpus int) int {
	n := requested
	if n <= 0 {
		n = cpus
	}
	if n < 1 {
		n = 1
	}
	if n > maxParallelFiles {
		n = maxParallelFiles
	}
	return n
}

func processFile(ctx context.Context, repo storage.PricesRepository, path string, idx, total int, force bool) error {
	start := time.Now()
	base := filepath.Base(path)
	log := logger.L().With().Str("file", base).Int("idx", idx+1).Int("total", total).Logger()
	log.Info().Msg("file start")

	exists, err := repo.HasIngestionForFile(ctx, base)
	if err != nil {
		log.Error().Err(err).Msg("check ingestion log failed")
		return fmt.Errorf("file %s: check ingestion log: %w", path, err)
	}
	if exists && !force {
		log.Info().Bool("skipped", true).Msg("already ingested")
		return nil
	}
	// Batches commit one by one, so an earlier failed run may have left rows
	// behind without a log entry. Clear them before every load.
	if err := repo.DeleteObservationsBySource(ctx, base); err != nil {
		log.Error().Err(err).Msg("delete existing failed")
		return fmt.Errorf("file %s: delete existing: %w", path, err)
	}

	rows, err := parseAndPersistFile(ctx, path, repo, defaultBatchSize)
	if err != nil {
		log.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
		return fmt.Errorf("file %s: %w", path, err)
	}
	if err := repo.UpsertIngestionLog(ctx, base, rows); err != nil {
		log.Error().Err(err).Msg("update ingestion log failed")
		return fmt.Errorf("file %s: upsert ingestion log: %w", path, err)
	}

	log.Info().Int("rows", rows).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("file done")
	return nil
}
