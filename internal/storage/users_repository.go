package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/guttosm/dealtracker/internal/domain/models"
)

// UsersRepository persists user accounts.
type UsersRepository interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type usersRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewUsersRepository(db *sql.DB, timeout time.Duration) UsersRepository {
	return &usersRepository{db: db, timeout: timeout}
}

var userColumns = []string{"id", "name", "email", "password_hash", "gender", "created_at", "updated_at"}

// Create inserts the user and returns the generated id. A duplicate email yields ErrConflict.
func (r *usersRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Insert("users").
		Columns("name", "email", "password_hash", "gender").
		Values(u.Name, u.Email, u.PasswordHash, u.Gender).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, err
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return 0, fmt.Errorf("insert user: %w", translate(err))
	}
	return u.ID, nil
}

func (r *usersRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *usersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *usersRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

// Update applies the non-nil fields of upd and returns the stored row.
func (r *usersRepository) Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	b := psql.Update("users")
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Email != nil {
		b = b.Set("email", *upd.Email)
	}
	if upd.Gender != nil {
		b = b.Set("gender", *upd.Gender)
	}
	if upd.PasswordHash != nil {
		b = b.Set("password_hash", *upd.PasswordHash)
	}
	query, args, err := b.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, email, password_hash, gender, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

// Delete removes the user; wishlist rows go with it through the foreign key.
func (r *usersRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := psql.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
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

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u      models.User
		gender sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &gender, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	if gender.Valid {
		g := gender.String
		u.Gender = &g
	}
	return &u, nil
}
