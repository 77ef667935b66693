package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"weplan/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("ana@example.com", "hash", "salt", "Ana", "Silva", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))

		repo := NewUserRepository(db)
		u := &domain.User{
			Email:        "ana@example.com",
			PasswordHash: "hash",
			Salt:         "salt",
			Name:         "Ana",
			LastName:     "Silva",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, "user-1", u.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to ErrDuplicateEmail", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewUserRepository(db)
		err = repo.Create(ctx, &domain.User{Email: "ana@example.com"})
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "salt", "name", "last_name", "created_at", "updated_at"}).
			AddRow("user-1", "ana@example.com", "hash", "salt", "Ana", "Silva", now, now)
		mock.ExpectQuery(`SELECT id, email, password_hash`).
			WithArgs("ana@example.com").
			WillReturnRows(rows)

		repo := NewUserRepository(db)
		u, err := repo.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
		assert.Equal(t, "hash", u.PasswordHash)
	})

	t.Run("missing maps to ErrUserNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash`).
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "ghost@example.com")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "salt", "name", "last_name", "created_at", "updated_at"}).
		AddRow("user-1", "ana@example.com", "hash", "salt", "Ana", "Silva", now, now)
	mock.ExpectQuery(`SELECT id, email, password_hash`).
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewUserRepository(db)
	u, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
