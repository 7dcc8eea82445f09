//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/guttosm/dealtracker/db/migrations"
	"github.com/guttosm/dealtracker/internal/domain/models"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "dealtracker",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=dealtracker sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "dealtracker")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	if err := goose.Up(db, "."); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

// seedProduct42 loads the observations used by the read-path cases:
// Amazon reported twice (latest 19.99), Walmart once (18.50) and
// eBay once (25.00) on a later day with a lower intraday Amazon price.
func seedProduct42(t *testing.T, db *sql.DB) {
	t.Helper()
	exec := func(platform, price string, at time.Time) {
		_, err := db.Exec(`
			INSERT INTO prices (product_id, platform, platform_item_id, price, free_shipping, in_stock, observed_at, link)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, 42, platform, platform+"-42", price, true, true, at, nil)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	day := func(d, h int) time.Time { return time.Date(2025, 9, d, h, 0, 0, 0, time.UTC) }

	exec("Amazon", "21.00", day(1, 9))
	exec("Amazon", "9.50", day(1, 15))
	exec("Walmart", "18.50", day(2, 10))
	exec("eBay", "25.00", day(3, 8))
	exec("Amazon", "19.99", day(3, 20))
	// Product 7 must never leak into product 42 results.
	_, err := db.Exec(`INSERT INTO prices (product_id, platform, platform_item_id, price, observed_at) VALUES (7, 'Amazon', 'A-7', 1.00, $1)`, day(3, 21))
	if err != nil {
		t.Fatalf("seed other product: %v", err)
	}
}

func TestPricesRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)
	seedProduct42(t, db)

	repo := NewPricesRepository(db, 5*time.Second)
	ctx := context.Background()

	t.Run("latest per platform sorted by price", func(t *testing.T) {
		out, err := repo.LatestPerPlatform(ctx, 42)
		if err != nil {
			t.Fatalf("LatestPerPlatform: %v", err)
		}
		want := []struct {
			platform string
			price    string
		}{{"Walmart", "18.5"}, {"Amazon", "19.99"}, {"eBay", "25"}}
		if len(out) != len(want) {
			t.Fatalf("got %d rows, want %d: %+v", len(out), len(want), out)
		}
		for i, w := range want {
			if out[i].Platform != w.platform || out[i].Price.String() != w.price {
				t.Fatalf("row %d = %s %s, want %s %s", i, out[i].Platform, out[i].Price, w.platform, w.price)
			}
		}
	})

	t.Run("unknown product is empty", func(t *testing.T) {
		out, err := repo.LatestPerPlatform(ctx, 999)
		if err != nil || len(out) != 0 {
			t.Fatalf("out=%v err=%v", out, err)
		}
	})

	cases := []struct {
		name     string
		days     int
		excluded []string
		want     []string
	}{
		{name: "window larger than data", days: 7, want: []string{"09/01=9.5", "09/02=18.5", "09/03=19.99"}},
		{name: "two most recent days", days: 2, want: []string{"09/02=18.5", "09/03=19.99"}},
		{name: "single day", days: 1, want: []string{"09/03=19.99"}},
		{name: "excluded platform", days: 1, excluded: []string{"Amazon"}, want: []string{"09/03=25"}},
	}
	for _, c := range cases {
		t.Run("history "+c.name, func(t *testing.T) {
			out, err := repo.DailyMinimums(ctx, 42, c.days, c.excluded)
			if err != nil {
				t.Fatalf("DailyMinimums: %v", err)
			}
			var got []string
			for _, d := range out {
				got = append(got, d.Day.Format("01/02")+"="+d.MinPrice.String())
			}
			if fmt.Sprint(got) != fmt.Sprint(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}

	t.Run("copy-in round trip and ingestion log", func(t *testing.T) {
		obs := models.PriceObservation{
			ProductID:      43,
			Platform:       "Target",
			PlatformItemID: "T-43",
			Price:          decimal.RequireFromString("19.99"),
			ObservedAt:     time.Date(2025, 9, 4, 10, 0, 0, 0, time.UTC),
			SourceFile:     "2025-09-04_prices.csv",
		}
		if err := repo.InsertObservationsBatch(ctx, []models.PriceObservation{obs}); err != nil {
			t.Fatalf("InsertObservationsBatch: %v", err)
		}
		if err := repo.UpsertIngestionLog(ctx, obs.SourceFile, 1); err != nil {
			t.Fatalf("UpsertIngestionLog: %v", err)
		}
		ok, err := repo.HasIngestionForFile(ctx, obs.SourceFile)
		if err != nil || !ok {
			t.Fatalf("HasIngestionForFile ok=%v err=%v", ok, err)
		}

		out, err := repo.LatestPerPlatform(ctx, 43)
		if err != nil || len(out) != 1 || out[0].Price.String() != "19.99" {
			t.Fatalf("out=%+v err=%v", out, err)
		}

		if err := repo.DeleteObservationsBySource(ctx, obs.SourceFile); err != nil {
			t.Fatalf("DeleteObservationsBySource: %v", err)
		}
		out, err = repo.LatestPerPlatform(ctx, 43)
		if err != nil || len(out) != 0 {
			t.Fatalf("rows left after delete: %+v err=%v", out, err)
		}
	})
}

func TestUsersAndWishlist_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	users := NewUsersRepository(db, 5*time.Second)
	wishlist := NewWishlistRepository(db, 5*time.Second)
	views := NewViewHistoryRepository(db, 5*time.Second)
	ctx := context.Background()

	id, err := users.Create(ctx, &models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := users.Create(ctx, &models.User{Name: "Ada 2", Email: "ada@example.com", PasswordHash: "h"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email: want ErrConflict, got %v", err)
	}

	name := "Ada Lovelace"
	u, err := users.Update(ctx, id, models.UserUpdate{Name: &name})
	if err != nil || u.Name != name {
		t.Fatalf("Update: user=%+v err=%v", u, err)
	}

	target := decimal.NullDecimal{Decimal: decimal.RequireFromString("18.50"), Valid: true}
	if err := wishlist.Upsert(ctx, id, 42, target); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := wishlist.Upsert(ctx, id+100, 42, target); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}
	items, err := wishlist.List(ctx, id)
	if err != nil || len(items) != 1 || items[0].TargetPrice.Decimal.String() != "18.5" {
		t.Fatalf("List: items=%+v err=%v", items, err)
	}
	overflow := decimal.NullDecimal{Decimal: decimal.RequireFromString("1e12"), Valid: true}
	if err := wishlist.Upsert(ctx, id, 43, overflow); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("overflowing target: want ErrInvalidValue, got %v", err)
	}

	first, err := views.Add(ctx, id, 42)
	if err != nil {
		t.Fatalf("Add view: %v", err)
	}
	second, err := views.Add(ctx, id, 0)
	if err != nil || second.ID <= first.ID {
		t.Fatalf("Add view: first=%+v second=%+v err=%v", first, second, err)
	}
	if _, err := views.Add(ctx, id+100, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("view of unknown user: want ErrNotFound, got %v", err)
	}
	recs, err := views.List(ctx, id, 1)
	if err != nil || len(recs) != 1 || recs[0].ID != second.ID {
		t.Fatalf("List views: recs=%+v err=%v", recs, err)
	}
	if err := views.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete view: %v", err)
	}
	if err := views.Delete(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete view twice: %v", err)
	}

	if err := users.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, err = wishlist.List(ctx, id)
	if err != nil || len(items) != 0 {
		t.Fatalf("wishlist should cascade: items=%+v err=%v", items, err)
	}
	if n, err := views.Clear(ctx, id); err != nil || n != 0 {
		t.Fatalf("view history should cascade: n=%d err=%v", n, err)
	}
	if _, err := users.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID after delete: %v", err)
	}
}
