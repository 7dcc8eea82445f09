package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/guttosm/dealtracker/internal/domain/models"
)

// ViewHistoryRepository persists the products each user has looked at.
type ViewHistoryRepository interface {
	List(ctx context.Context, userID int64, limit uint64) ([]models.ViewRecord, error)
	Add(ctx context.Context, userID, productID int64) (*models.ViewRecord, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context, userID int64) (int64, error)
}

type viewHistoryRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewViewHistoryRepository(db *sql.DB, timeout time.Duration) ViewHistoryRepository {
	return &viewHistoryRepository{db: db, timeout: timeout}
}

// List returns at most limit records of the user, newest first.
func (r *viewHistoryRepository) List(ctx context.Context, userID int64, limit uint64) ([]models.ViewRecord, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.
		Select("hid", "user_id", "product_id", "viewed_at").
		From("view_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("viewed_at DESC", "hid DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query view history of user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []models.ViewRecord
	for rows.Next() {
		var v models.ViewRecord
		if err := rows.Scan(&v.ID, &v.UserID, &v.ProductID, &v.ViewedAt); err != nil {
			return nil, fmt.Errorf("scan view record: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view history: %w", err)
	}
	return out, nil
}

// Add records a view stamped by the database clock. An unknown user yields ErrNotFound.
func (r *viewHistoryRepository) Add(ctx context.Context, userID, productID int64) (*models.ViewRecord, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Insert("view_history").
		Columns("user_id", "product_id").
		Values(userID, productID).
		Suffix("RETURNING hid, viewed_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	v := &models.ViewRecord{UserID: userID, ProductID: productID}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&v.ID, &v.ViewedAt); err != nil {
		return nil, fmt.Errorf("insert view record: %w", translate(err))
	}
	return v, nil
}

// Delete removes one record; ErrNotFound when no record has that id.
func (r *viewHistoryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Delete("view_history").Where(squirrel.Eq{"hid": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete view record %d: %w", id, err)
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

// Clear removes every record of the user and returns how many were deleted.
func (r *viewHistoryRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Delete("view_history").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear view history of user %d: %w", userID, err)
	}
	return res.RowsAffected()
}
