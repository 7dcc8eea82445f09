package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/storage"
	"github.com/shopspring/decimal"
)

// expectedHeaders enforces strict column ordering. If the header doesn't
// match EXACTLY (order + count), the file is rejected.
var expectedHeaders = []string{
	"product_id",
	"platform",
	"platform_item_id",
	"price",
	"observed_at",
	"link",
	"free_shipping",
	"in_stock",
}

const observedAtLayout = "2006-01-02 15:04:05"

// parseAndPersistFile opens, validates, parses, and persists one file in batches.
// It fails on:
//   - header not matching expected order/length
//   - a row with the wrong column count or an unparsable value
//   - unrecoverable I/O errors
func parseAndPersistFile(ctx context.Context, path string, repo storage.PricesRepository, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // checked explicitly below

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return 0, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return 0, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	source := filepath.Base(path)
	buf := make([]models.PriceObservation, 0, batch)
	lineNumber := 1 // header already read

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertObservationsBatch(ctx, buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != len(expectedHeaders) {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		obs, err := recordToObservation(rec)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		obs.SourceFile = source

		buf = append(buf, obs)
		total++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}
	return total, nil
}

// recordToObservation converts one validated record. product_id, platform,
// platform_item_id, price and observed_at are required; link may be empty;
// free_shipping defaults to false and in_stock to true.
func recordToObservation(rec []string) (models.PriceObservation, error) {
	var o models.PriceObservation

	id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil || id < 0 {
		return o, fmt.Errorf("invalid product_id %q", rec[0])
	}
	o.ProductID = id

	o.Platform = strings.TrimSpace(rec[1])
	if o.Platform == "" {
		return o, errors.New("platform is required")
	}
	o.PlatformItemID = strings.TrimSpace(rec[2])
	if o.PlatformItemID == "" {
		return o, errors.New("platform_item_id is required")
	}

	if o.Price, err = ParsePrice(rec[3]); err != nil {
		return o, err
	}
	if o.ObservedAt, err = ParseObservedAt(rec[4]); err != nil {
		return o, err
	}

	if link := strings.TrimSpace(rec[5]); link != "" {
		o.Link = &link
	}
	if o.FreeShipping, err = parseFlag(rec[6], false); err != nil {
		return o, fmt.Errorf("invalid free_shipping: %w", err)
	}
	if o.InStock, err = parseFlag(rec[7], true); err != nil {
		return o, fmt.Errorf("invalid in_stock: %w", err)
	}
	return o, nil
}

// ParsePrice reads a money amount such as "19.99", "$1,299.99" or "US$ 5".
// The result is rounded to cents; negative amounts are rejected.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "US")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("price is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %q", raw)
	}
	return d.Round(2), nil
}

// ParseObservedAt accepts "2006-01-02 15:04:05" or RFC3339. Zones are
// dropped: the wall clock is kept as written, matching the naive column.
func ParseObservedAt(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(observedAtLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid observed_at %q", raw)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
}

// parseFlag reads 1/0, true/false or yes/no; empty yields def.
func parseFlag(raw string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return def, nil
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognised flag %q", raw)
	}
}
