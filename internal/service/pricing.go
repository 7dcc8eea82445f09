package service

import (
	"context"
	"sort"
	"time"

	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/logger"
	"github.com/guttosm/dealtracker/internal/storage"
)

// PriceReader answers "what does this product cost right now, per platform".
type PriceReader interface {
	CurrentPrices(ctx context.Context, productID int64) []models.PriceSnapshot
}

// HistoryAggregator answers "what was the lowest price on each recent day".
type HistoryAggregator interface {
	History(ctx context.Context, productID int64, days int) []models.DailyPrice
}

// PricingService bundles both read paths; handlers depend on it.
type PricingService interface {
	PriceReader
	HistoryAggregator
}

// HistoryOptions tunes the daily history window.
type HistoryOptions struct {
	DefaultDays       int
	MaxDays           int
	ExcludedPlatforms []string
}

type pricingService struct {
	repo    storage.PricesRepository
	history HistoryOptions
}

func NewPricingService(repo storage.PricesRepository, opts HistoryOptions) PricingService {
	if opts.DefaultDays < 1 {
		opts.DefaultDays = 7
	}
	if opts.MaxDays < opts.DefaultDays {
		opts.MaxDays = opts.DefaultDays
	}
	return &pricingService{repo: repo, history: opts}
}

// DegradeToEmpty is the failure policy of the read paths: the store error is
// logged with the request context and the caller receives an empty result.
func DegradeToEmpty[T any](ctx context.Context, op string, productID int64, err error) []T {
	logger.Ctx(ctx).Error().
		Err(err).
		Str("op", op).
		Int64("product_id", productID).
		Msg("price store query failed; serving empty result")
	return []T{}
}

// CurrentPrices returns one snapshot per platform (its latest observation),
// cheapest first. Ties are ordered by platform, then id.
func (s *pricingService) CurrentPrices(ctx context.Context, productID int64) []models.PriceSnapshot {
	rows, err := s.repo.LatestPerPlatform(ctx, productID)
	if err != nil {
		return DegradeToEmpty[models.PriceSnapshot](ctx, "current_prices", productID, err)
	}

	out := latestPerPlatform(rows)
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Price.Cmp(out[j].Price); c != 0 {
			return c < 0
		}
		if out[i].Platform != out[j].Platform {
			return out[i].Platform < out[j].Platform
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// latestPerPlatform keeps, for each platform, the row with the greatest
// observed_at (then id).
func latestPerPlatform(rows []models.PriceSnapshot) []models.PriceSnapshot {
	idx := make(map[string]int, len(rows))
	out := make([]models.PriceSnapshot, 0, len(rows))
	for _, r := range rows {
		i, seen := idx[r.Platform]
		if !seen {
			idx[r.Platform] = len(out)
			out = append(out, r)
			continue
		}
		cur := out[i]
		if r.ObservedAt.After(cur.ObservedAt) || (r.ObservedAt.Equal(cur.ObservedAt) && r.ID > cur.ID) {
			out[i] = r
		}
	}
	return out
}

// History returns at most `days` daily minimums, oldest first. A non-positive
// window falls back to the default; windows beyond the maximum are clamped.
func (s *pricingService) History(ctx context.Context, productID int64, days int) []models.DailyPrice {
	days = s.window(days)

	rows, err := s.repo.DailyMinimums(ctx, productID, days, s.history.ExcludedPlatforms)
	if err != nil {
		return DegradeToEmpty[models.DailyPrice](ctx, "history", productID, err)
	}

	out := dailyMinimums(rows)
	if len(out) > days {
		out = out[:days]
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// dailyMinimums folds rows sharing a calendar day into their minimum and
// returns the days newest first.
func dailyMinimums(rows []models.DailyPrice) []models.DailyPrice {
	sorted := make([]models.DailyPrice, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day.After(sorted[j].Day) })

	out := make([]models.DailyPrice, 0, len(sorted))
	for _, r := range sorted {
		r.Day = calendarDay(r.Day)
		if n := len(out); n > 0 && out[n-1].Day.Equal(r.Day) {
			if r.MinPrice.LessThan(out[n-1].MinPrice) {
				out[n-1].MinPrice = r.MinPrice
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// calendarDay drops the clock while keeping the location, so no zone shift happens.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *pricingService) window(days int) int {
	if days < 1 {
		return s.history.DefaultDays
	}
	if days > s.history.MaxDays {
		return s.history.MaxDays
	}
	return days
}
