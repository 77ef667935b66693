package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weplan/internal/domain"
)

type weddingRepository struct {
	DB *sql.DB
}

func NewWeddingRepository(db *sql.DB) domain.WeddingRepository {
	return &weddingRepository{
		DB: db,
	}
}

const weddingColumns = `id, owner_id, couple_name, partner_name, wedding_date, event_code, active, created_at, updated_at`

func scanWedding(row interface{ Scan(...any) error }) (*domain.WeddingEvent, error) {
	w := &domain.WeddingEvent{}
	var dateNull sql.NullTime
	err := row.Scan(
		&w.ID, &w.OwnerID, &w.CoupleName, &w.PartnerName, &dateNull,
		&w.EventCode, &w.Active, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dateNull.Valid {
		w.WeddingDate = &dateNull.Time
	}
	return w, nil
}

func (r *weddingRepository) Create(ctx context.Context, w *domain.WeddingEvent) error {
	query := `
		INSERT INTO weddings (owner_id, couple_name, partner_name, wedding_date, event_code, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		w.OwnerID, w.CoupleName, w.PartnerName, w.WeddingDate, w.EventCode, w.Active, w.CreatedAt, w.UpdatedAt,
	).Scan(&w.ID)
}

func (r *weddingRepository) GetByID(ctx context.Context, id string) (*domain.WeddingEvent, error) {
	query := `SELECT ` + weddingColumns + ` FROM weddings WHERE id = $1`
	w, err := scanWedding(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *weddingRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.WeddingEvent, error) {
	code := domain.NormalizeEventCode(eventCode)
	query := `SELECT ` + weddingColumns + ` FROM weddings WHERE event_code = $1`
	w, err := scanWedding(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *weddingRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.WeddingEvent, error) {
	query := `SELECT ` + weddingColumns + ` FROM weddings WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

func (r *weddingRepository) ListByCollaboratorID(ctx context.Context, userID string) ([]*domain.WeddingEvent, error) {
	query := `
		SELECT w.id, w.owner_id, w.couple_name, w.partner_name, w.wedding_date, w.event_code, w.active, w.created_at, w.updated_at
		FROM weddings w
		JOIN collaborators c ON c.wedding_id = w.id
		WHERE c.user_id = $1
		ORDER BY w.created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *weddingRepository) list(ctx context.Context, query string, arg any) ([]*domain.WeddingEvent, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	weddings := make([]*domain.WeddingEvent, 0)
	for rows.Next() {
		w, err := scanWedding(rows)
		if err != nil {
			return nil, err
		}
		weddings = append(weddings, w)
	}
	return weddings, rows.Err()
}

func (r *weddingRepository) Update(ctx context.Context, id string, coupleName, partnerName *string, weddingDate *time.Time) (*domain.WeddingEvent, error) {
	query := `
		UPDATE weddings
		SET couple_name = COALESCE($2, couple_name),
		    partner_name = COALESCE($3, partner_name),
		    wedding_date = COALESCE($4, wedding_date),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + weddingColumns
	w, err := scanWedding(r.DB.QueryRowContext(ctx, query, id, coupleName, partnerName, weddingDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *weddingRepository) SetActive(ctx context.Context, id string, active bool) (*domain.WeddingEvent, error) {
	query := `
		UPDATE weddings
		SET active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + weddingColumns
	w, err := scanWedding(r.DB.QueryRowContext(ctx, query, id, active))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}
