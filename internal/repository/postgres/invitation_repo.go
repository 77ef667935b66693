package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"weplan/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (token, wedding_id, email, role, invited_by, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.Token, inv.WeddingID, inv.Email, inv.Role, inv.InvitedBy, inv.ExpiresAt, inv.CreatedAt,
	).Scan(&inv.ID)
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `
		SELECT id, token, wedding_id, email, role, invited_by, expires_at, accepted_at, created_at
		FROM invitations
		WHERE token = $1
	`
	inv := &domain.Invitation{}
	var acceptedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&inv.ID, &inv.Token, &inv.WeddingID, &inv.Email, &inv.Role, &inv.InvitedBy,
		&inv.ExpiresAt, &acceptedAt, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if acceptedAt.Valid {
		inv.AcceptedAt = &acceptedAt.Time
	}
	return inv, nil
}

func (r *invitationRepository) ListByWeddingID(ctx context.Context, weddingID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM invitations
		WHERE wedding_id = $1 AND ($2 = '' OR email ILIKE '%' || $2 || '%')
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, weddingID, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, token, wedding_id, email, role, invited_by, expires_at, accepted_at, created_at
		FROM invitations
		WHERE wedding_id = $1 AND ($2 = '' OR email ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, weddingID, search, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv := &domain.Invitation{}
		var acceptedAt sql.NullTime
		if err := rows.Scan(
			&inv.ID, &inv.Token, &inv.WeddingID, &inv.Email, &inv.Role, &inv.InvitedBy,
			&inv.ExpiresAt, &acceptedAt, &inv.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if acceptedAt.Valid {
			inv.AcceptedAt = &acceptedAt.Time
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

// Consume marks the invitation accepted and inserts the collaborator row in a
// single transaction. The UPDATE is conditional on accepted_at IS NULL and the
// expiry, so under concurrent accept attempts only one transaction proceeds;
// the rest observe zero affected rows and the row's terminal state is reported.
func (r *invitationRepository) Consume(ctx context.Context, token, userID string, now time.Time) (*domain.Collaborator, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	acceptQuery := `
		UPDATE invitations
		SET accepted_at = $2
		WHERE token = $1 AND accepted_at IS NULL AND expires_at > $2
		RETURNING wedding_id, role, invited_by
	`
	var weddingID, role, invitedBy string
	err = tx.QueryRowContext(ctx, acceptQuery, token, now).Scan(&weddingID, &role, &invitedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyUnconsumable(ctx, tx, token, now)
		}
		return nil, err
	}

	insertQuery := `
		INSERT INTO collaborators (wedding_id, user_id, role, invited_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insertQuery, weddingID, userID, role, invitedBy, now); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// Rolling back keeps the invitation pending; the user already has access.
			return nil, domain.ErrAlreadyCollaborator
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.Collaborator{
		WeddingID: weddingID,
		UserID:    userID,
		Role:      role,
		InvitedBy: &invitedBy,
		CreatedAt: now,
	}, nil
}

// classifyUnconsumable distinguishes missing, already-used, and expired tokens
// after a conditional accept matched no row.
func (r *invitationRepository) classifyUnconsumable(ctx context.Context, tx *sql.Tx, token string, now time.Time) error {
	var acceptedAt sql.NullTime
	var expiresAt time.Time
	query := `SELECT accepted_at, expires_at FROM invitations WHERE token = $1`
	err := tx.QueryRowContext(ctx, query, token).Scan(&acceptedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if acceptedAt.Valid {
		return domain.ErrInvitationUsed
	}
	if now.After(expiresAt) {
		return domain.ErrInvitationExpired
	}
	return domain.ErrNotFound
}
