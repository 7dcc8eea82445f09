package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/dealtracker/internal/domain/models"
	pq "github.com/lib/pq"
)

// PricesRepository is the query surface over the append-only prices table.
//
// The read methods never guarantee an order beyond what their SQL states;
// callers that need a total order sort again.
type PricesRepository interface {
	LatestPerPlatform(ctx context.Context, productID int64) ([]models.PriceSnapshot, error)
	DailyMinimums(ctx context.Context, productID int64, days int, excludedPlatforms []string) ([]models.DailyPrice, error)
	InsertObservationsBatch(ctx context.Context, observations []models.PriceObservation) error
	HasIngestionForFile(ctx context.Context, filename string) (bool, error)
	UpsertIngestionLog(ctx context.Context, filename string, rowCount int) error
	DeleteObservationsBySource(ctx context.Context, filename string) error
}

type pricesRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPricesRepository returns a repository whose calls are each bounded by timeout.
func NewPricesRepository(db *sql.DB, timeout time.Duration) PricesRepository {
	return &pricesRepository{db: db, timeout: timeout}
}

const latestPerPlatformQuery = `
	SELECT id, product_id, platform, platform_item_id, price, free_shipping, in_stock, observed_at, link
	FROM (
		SELECT DISTINCT ON (platform)
			id, product_id, platform, platform_item_id, price, free_shipping, in_stock, observed_at, link
		FROM prices
		WHERE product_id = $1
		ORDER BY platform, observed_at DESC, id DESC
	) latest
	ORDER BY price ASC, platform ASC, id ASC
`

// LatestPerPlatform returns the most recent observation of every platform
// that reported the product. Equal observed_at values resolve to the highest id.
func (r *pricesRepository) LatestPerPlatform(ctx context.Context, productID int64) ([]models.PriceSnapshot, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, latestPerPlatformQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("query latest prices for product %d: %w", productID, err)
	}
	defer rows.Close()

	var out []models.PriceSnapshot
	for rows.Next() {
		var (
			s    models.PriceSnapshot
			link sql.NullString
		)
		if err := rows.Scan(
			&s.ID,
			&s.ProductID,
			&s.Platform,
			&s.PlatformItemID,
			&s.Price,
			&s.FreeShipping,
			&s.InStock,
			&s.ObservedAt,
			&link,
		); err != nil {
			return nil, fmt.Errorf("scan latest price: %w", err)
		}
		if link.Valid {
			l := link.String
			s.Link = &l
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest prices: %w", err)
	}
	return out, nil
}

const dailyMinimumsQuery = `
	SELECT day, min_price
	FROM (
		SELECT observed_at::date AS day, MIN(price) AS min_price
		FROM prices
		WHERE product_id = $1 AND platform <> ALL($2)
		GROUP BY day
		ORDER BY day DESC
		LIMIT $3
	) recent
	ORDER BY day ASC
`

// DailyMinimums returns the lowest price of each of the `days` most recent
// calendar days that have observations, oldest first. Days without data are
// skipped, not zero-filled.
func (r *pricesRepository) DailyMinimums(ctx context.Context, productID int64, days int, excludedPlatforms []string) ([]models.DailyPrice, error) {
	if days < 1 {
		return nil, nil
	}
	// A NULL array would make "<> ALL" unknown for every row.
	if excludedPlatforms == nil {
		excludedPlatforms = []string{}
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, dailyMinimumsQuery, productID, pq.Array(excludedPlatforms), days)
	if err != nil {
		return nil, fmt.Errorf("query daily minimums for product %d: %w", productID, err)
	}
	defer rows.Close()

	var out []models.DailyPrice
	for rows.Next() {
		var d models.DailyPrice
		if err := rows.Scan(&d.Day, &d.MinPrice); err != nil {
			return nil, fmt.Errorf("scan daily minimum: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily minimums: %w", err)
	}
	return out, nil
}

// InsertObservationsBatch bulk-loads observations with COPY in a single transaction.
func (r *pricesRepository) InsertObservationsBatch(ctx context.Context, observations []models.PriceObservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"prices",
		"product_id",
		"platform",
		"platform_item_id",
		"price",
		"free_shipping",
		"in_stock",
		"observed_at",
		"link",
		"source_file",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, o := range observations {
		var link interface{}
		if o.Link != nil {
			link = *o.Link
		}
		if _, err := stmt.ExecContext(ctx,
			o.ProductID,
			o.Platform,
			o.PlatformItemID,
			o.Price,
			o.FreeShipping,
			o.InStock,
			o.ObservedAt,
			link,
			o.SourceFile,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// HasIngestionForFile reports whether the file was already loaded.
func (r *pricesRepository) HasIngestionForFile(ctx context.Context, filename string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE filename = $1)`, filename).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or refreshes) the ingestion entry of a file.
func (r *pricesRepository) UpsertIngestionLog(ctx context.Context, filename string, rowCount int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (filename, row_count)
		VALUES ($1, $2)
		ON CONFLICT (filename)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, filename, rowCount)
	return err
}

// DeleteObservationsBySource removes every row loaded from the given file.
func (r *pricesRepository) DeleteObservationsBySource(ctx context.Context, filename string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM prices WHERE source_file = $1`, filename)
	return err
}
