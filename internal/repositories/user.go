package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/models"
)

// ErrDuplicateEmail is returned by Save when the email unique constraint is
// violated. Uniqueness is enforced by the store, not by a pre-insert probe,
// so concurrent signups with the same email cannot race past the check.
var ErrDuplicateEmail = errors.New("email already exists")

const pgUniqueViolation = "23505"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil if none exists.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT id, first_name, last_name, email, password, phone_number,
		       date_of_birth, gender, profile_picture, status, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or nil if none exists.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	const query = `
		SELECT id, first_name, last_name, email, password, phone_number,
		       date_of_birth, gender, profile_picture, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// List returns a page of users. A non-empty status filters by substring
// match on the status column.
func (r *UserReadRepository) List(ctx context.Context, limit, offset int, status string) ([]models.UserDB, error) {
	query := `
		SELECT id, first_name, last_name, email, password, phone_number,
		       date_of_birth, gender, profile_picture, status, created_at, updated_at
		FROM users
		WHERE 1=1
	`
	args := []any{}

	if status != "" {
		query += ` AND status LIKE $1 ORDER BY id LIMIT $2 OFFSET $3`
		args = append(args, "%"+status+"%", limit, offset)
	} else {
		query += ` ORDER BY id LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	users := []models.UserDB{}
	err := r.db.SelectContext(ctx, &users, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"rows", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return users, nil
}

// Count returns the number of users matching the same filter List applies.
func (r *UserReadRepository) Count(ctx context.Context, status string) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE 1=1`
	args := []any{}

	if status != "" {
		query += ` AND status LIKE $1`
		args = append(args, "%"+status+"%")
	}

	var count int64
	err := r.db.GetContext(ctx, &count, query, args...)

	logger.Log.Infow(
		"query", query,
		"args", args,
		"result", count,
		"error", err,
	)

	return count, err
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the generated id.
func (r *UserWriteRepository) Save(ctx context.Context, firstName, lastName, email, hashedPassword string) (int64, error) {
	const query = `
		INSERT INTO users (first_name, last_name, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`
	args := []any{firstName, lastName, email, hashedPassword}

	var id int64
	err := r.db.GetContext(ctx, &id, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{firstName, lastName, email},
		"result", id,
		"error", err,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return 0, ErrDuplicateEmail
	}

	return id, err
}

// UpdateProfile overwrites the profile columns of the given user and
// returns the number of affected rows. Callers are expected to pass the
// coalesced values, so an omitted field keeps its previous value.
func (r *UserWriteRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, phoneNumber, dateOfBirth, gender string) (int64, error) {
	const query = `
		UPDATE users
		SET first_name=$1, last_name=$2, phone_number=$3, date_of_birth=$4, gender=$5, updated_at=NOW()
		WHERE id = $6
	`
	args := []any{firstName, lastName, phoneNumber, dateOfBirth, gender, id}

	return r.exec(ctx, query, args...)
}

// UpdatePicture sets the profile picture URL.
func (r *UserWriteRepository) UpdatePicture(ctx context.Context, id int64, pictureURL string) (int64, error) {
	const query = `UPDATE users SET profile_picture=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, pictureURL, id)
}

// UpdateStatus sets the status column.
func (r *UserWriteRepository) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	const query = `UPDATE users SET status=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, status, id)
}

// UpdatePassword sets the password hash.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) (int64, error) {
	const query = `UPDATE users SET password=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, hashedPassword, id)
}

// Delete removes the user row. Hard delete, no tombstone.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) (int64, error) {
	const query = `DELETE FROM users WHERE id=$1`
	return r.exec(ctx, query, id)
}

func (r *UserWriteRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return 0, err
	}

	return rowsAffected, nil
}
