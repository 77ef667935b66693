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

func TestCollaboratorRepository_Add(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	invitedBy := "owner-1"

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO collaborators`).
					WithArgs("w-1", "user-2", "madrinha", invitedBy, now).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate pair maps to ErrAlreadyCollaborator",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO collaborators`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrAlreadyCollaborator,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO collaborators`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewCollaboratorRepository(db)
			err = repo.Add(ctx, &domain.Collaborator{
				WeddingID: "w-1",
				UserID:    "user-2",
				Role:      "madrinha",
				InvitedBy: &invitedBy,
				CreatedAt: now,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCollaboratorRepository_GetByWeddingAndUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"wedding_id", "user_id", "role", "invited_by", "created_at", "name", "last_name", "email"}).
			AddRow("w-1", "user-2", "fotografo", "owner-1", now, "Ana", "Silva", "ana@example.com")
		mock.ExpectQuery(`SELECT c.wedding_id, c.user_id, c.role`).
			WithArgs("w-1", "user-2").
			WillReturnRows(rows)

		repo := NewCollaboratorRepository(db)
		c, err := repo.GetByWeddingAndUser(ctx, "w-1", "user-2")
		require.NoError(t, err)
		assert.Equal(t, "fotografo", c.Role)
		require.NotNil(t, c.InvitedBy)
		assert.Equal(t, "owner-1", *c.InvitedBy)
		assert.Equal(t, "Ana", c.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null invited_by", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"wedding_id", "user_id", "role", "invited_by", "created_at", "name", "last_name", "email"}).
			AddRow("w-1", "user-2", "colaborador", nil, now, "Ana", "Silva", "ana@example.com")
		mock.ExpectQuery(`SELECT c.wedding_id, c.user_id, c.role`).
			WillReturnRows(rows)

		repo := NewCollaboratorRepository(db)
		c, err := repo.GetByWeddingAndUser(ctx, "w-1", "user-2")
		require.NoError(t, err)
		assert.Nil(t, c.InvitedBy)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT c.wedding_id, c.user_id, c.role`).
			WillReturnError(sql.ErrNoRows)

		repo := NewCollaboratorRepository(db)
		_, err = repo.GetByWeddingAndUser(ctx, "w-1", "user-9")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCollaboratorRepository_ListByWeddingID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"wedding_id", "user_id", "role", "invited_by", "created_at", "name", "last_name", "email"}).
		AddRow("w-1", "user-2", "colaborador", nil, now, "Ana", "Silva", "ana@example.com").
		AddRow("w-1", "user-3", "padrinho", "owner-1", now, "Bruno", "Costa", "bruno@example.com")
	mock.ExpectQuery(`SELECT c.wedding_id, c.user_id, c.role`).
		WithArgs("w-1").
		WillReturnRows(rows)

	repo := NewCollaboratorRepository(db)
	got, err := repo.ListByWeddingID(ctx, "w-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "user-2", got[0].UserID)
	assert.Equal(t, "padrinho", got[1].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollaboratorRepository_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM collaborators`).
			WithArgs("w-1", "user-2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewCollaboratorRepository(db)
		require.NoError(t, repo.Remove(ctx, "w-1", "user-2"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM collaborators`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewCollaboratorRepository(db)
		require.ErrorIs(t, repo.Remove(ctx, "w-1", "user-9"), domain.ErrNotFound)
	})
}
