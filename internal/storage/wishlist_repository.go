package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/shopspring/decimal"
)

// WishlistRepository persists the products each user tracks.
type WishlistRepository interface {
	List(ctx context.Context, userID int64) ([]models.WishlistItem, error)
	Upsert(ctx context.Context, userID, productID int64, target decimal.NullDecimal) error
	Remove(ctx context.Context, userID, productID int64) error
}

type wishlistRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewWishlistRepository(db *sql.DB, timeout time.Duration) WishlistRepository {
	return &wishlistRepository{db: db, timeout: timeout}
}

// List returns the user's items in the order they were added.
func (r *wishlistRepository) List(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.
		Select("user_id", "product_id", "target_price", "created_at", "updated_at").
		From("wishlist").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "product_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query wishlist of user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []models.WishlistItem
	for rows.Next() {
		var it models.WishlistItem
		if err := rows.Scan(&it.UserID, &it.ProductID, &it.TargetPrice, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist: %w", err)
	}
	return out, nil
}

// Upsert adds the product or replaces its target price. An unknown user yields ErrNotFound.
func (r *wishlistRepository) Upsert(ctx context.Context, userID, productID int64, target decimal.NullDecimal) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Insert("wishlist").
		Columns("user_id", "product_id", "target_price").
		Values(userID, productID, target).
		Suffix("ON CONFLICT (user_id, product_id) DO UPDATE SET target_price = EXCLUDED.target_price, updated_at = NOW()").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert wishlist item: %w", translate(err))
	}
	return nil
}

// Remove deletes one item; ErrNotFound when the user was not tracking the product.
func (r *wishlistRepository) Remove(ctx context.Context, userID, productID int64) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Delete("wishlist").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
