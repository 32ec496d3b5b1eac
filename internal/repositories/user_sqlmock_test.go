package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

// Failure paths that a live database will not produce on demand are driven
// through sqlmock.

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUserWriteRepository_SaveUniqueViolation(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserWriteRepository(sqlxDB)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("John", "Doe", "john@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.Save(context.Background(), "John", "Doe", "john@example.com", "hash")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_SaveOtherError(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserWriteRepository(sqlxDB)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Save(context.Background(), "John", "Doe", "john@example.com", "hash")
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_ExecError(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserWriteRepository(sqlxDB)

	mock.ExpectExec("UPDATE users SET status").
		WillReturnError(errors.New("connection reset"))

	rows, err := repo.UpdateStatus(context.Background(), 7, "Active")
	assert.EqualError(t, err, "connection reset")
	assert.Zero(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetError(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewUserReadRepository(sqlxDB)

	mock.ExpectQuery("SELECT").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByEmail(context.Background(), "john@example.com")
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
