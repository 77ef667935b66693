package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"weplan/internal/domain"
)

type collaboratorRepository struct {
	DB *sql.DB
}

func NewCollaboratorRepository(db *sql.DB) domain.CollaboratorRepository {
	return &collaboratorRepository{
		DB: db,
	}
}

func (r *collaboratorRepository) Add(ctx context.Context, c *domain.Collaborator) error {
	query := `
		INSERT INTO collaborators (wedding_id, user_id, role, invited_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, c.WeddingID, c.UserID, c.Role, c.InvitedBy, c.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyCollaborator
		}
		return err
	}
	return nil
}

func (r *collaboratorRepository) GetByWeddingAndUser(ctx context.Context, weddingID, userID string) (*domain.Collaborator, error) {
	query := `
		SELECT c.wedding_id, c.user_id, c.role, c.invited_by, c.created_at, u.name, u.last_name, u.email
		FROM collaborators c
		JOIN users u ON u.id = c.user_id
		WHERE c.wedding_id = $1 AND c.user_id = $2
	`
	c := &domain.Collaborator{}
	var invitedBy sql.NullString
	var name, lastName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, weddingID, userID).Scan(
		&c.WeddingID, &c.UserID, &c.Role, &invitedBy, &c.CreatedAt, &name, &lastName, &c.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if invitedBy.Valid {
		c.InvitedBy = &invitedBy.String
	}
	c.Name = name.String
	c.LastName = lastName.String
	return c, nil
}

func (r *collaboratorRepository) ListByWeddingID(ctx context.Context, weddingID string) ([]*domain.Collaborator, error) {
	query := `
		SELECT c.wedding_id, c.user_id, c.role, c.invited_by, c.created_at, u.name, u.last_name, u.email
		FROM collaborators c
		JOIN users u ON u.id = c.user_id
		WHERE c.wedding_id = $1
		ORDER BY c.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, weddingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	collaborators := make([]*domain.Collaborator, 0)
	for rows.Next() {
		c := &domain.Collaborator{}
		var invitedBy sql.NullString
		var name, lastName sql.NullString
		if err := rows.Scan(&c.WeddingID, &c.UserID, &c.Role, &invitedBy, &c.CreatedAt, &name, &lastName, &c.Email); err != nil {
			return nil, err
		}
		if invitedBy.Valid {
			c.InvitedBy = &invitedBy.String
		}
		c.Name = name.String
		c.LastName = lastName.String
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}

func (r *collaboratorRepository) Remove(ctx context.Context, weddingID, userID string) error {
	query := `DELETE FROM collaborators WHERE wedding_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, weddingID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
