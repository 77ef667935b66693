package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"weplan/internal/domain"
)

type weddingService struct {
	weddingRepo      domain.WeddingRepository
	collaboratorRepo domain.CollaboratorRepository
	contextTimeout   time.Duration
}

// NewWeddingService creates a WeddingService with the given repositories.
func NewWeddingService(weddingRepo domain.WeddingRepository, collaboratorRepo domain.CollaboratorRepository, timeout time.Duration) domain.WeddingService {
	return &weddingService{
		weddingRepo:      weddingRepo,
		collaboratorRepo: collaboratorRepo,
		contextTimeout:   timeout,
	}
}

const eventCodeLength = 12

var eventCodeAlphabet = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateEventCode() (string, error) {
	b := make([]rune, eventCodeLength)
	max := big.NewInt(int64(len(eventCodeAlphabet)))
	for i := 0; i < eventCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = eventCodeAlphabet[n.Int64()]
	}
	return domain.EventCodePrefix + string(b), nil
}

func (s *weddingService) CreateWedding(ctx context.Context, w *domain.WeddingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if w.OwnerID == "" {
		return fmt.Errorf("wedding owner is required")
	}
	if w.CoupleName == "" {
		return domain.ErrInvalidInput
	}

	w.Active = true
	w.CreatedAt = time.Now()
	w.UpdatedAt = time.Now()

	if w.EventCode == "" {
		code, err := generateEventCode()
		if err != nil {
			return fmt.Errorf("generate event code: %w", err)
		}
		w.EventCode = code
	} else if !domain.ValidateEventCode(w.EventCode) {
		return domain.ErrInvalidInput
	} else {
		w.EventCode = domain.NormalizeEventCode(w.EventCode)
	}

	return s.weddingRepo.Create(ctx, w)
}

func (s *weddingService) GetWedding(ctx context.Context, weddingID, callerID string) (*domain.WeddingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	wedding, err := s.weddingRepo.GetByID(ctx, weddingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get wedding: %w", err)
	}
	if wedding.OwnerID != callerID {
		if _, err := s.collaboratorRepo.GetByWeddingAndUser(ctx, weddingID, callerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrForbidden
			}
			return nil, fmt.Errorf("get collaborator: %w", err)
		}
	}
	return wedding, nil
}

func (s *weddingService) ListMyWeddings(ctx context.Context, userID string) ([]*domain.WeddingEvent, []*domain.WeddingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	owned, err := s.weddingRepo.ListByOwnerID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list owned weddings: %w", err)
	}
	if owned == nil {
		owned = []*domain.WeddingEvent{}
	}
	collaborating, err := s.weddingRepo.ListByCollaboratorID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list collaborating weddings: %w", err)
	}
	if collaborating == nil {
		collaborating = []*domain.WeddingEvent{}
	}
	return owned, collaborating, nil
}

func (s *weddingService) UpdateWedding(ctx context.Context, weddingID, ownerID string, coupleName, partnerName *string, weddingDate *time.Time) (*domain.WeddingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	wedding, err := s.weddingRepo.GetByID(ctx, weddingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get wedding: %w", err)
	}
	if wedding.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	updated, err := s.weddingRepo.Update(ctx, weddingID, coupleName, partnerName, weddingDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update wedding: %w", err)
	}
	return updated, nil
}

func (s *weddingService) SetWeddingActive(ctx context.Context, weddingID, ownerID string, active bool) (*domain.WeddingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	wedding, err := s.weddingRepo.GetByID(ctx, weddingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get wedding: %w", err)
	}
	if wedding.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	updated, err := s.weddingRepo.SetActive(ctx, weddingID, active)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set wedding active: %w", err)
	}
	return updated, nil
}

func (s *weddingService) GetPublicWedding(ctx context.Context, eventCode string) (*domain.WeddingEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidateEventCode(eventCode) {
		return nil, domain.ErrInvalidInput
	}
	wedding, err := s.weddingRepo.GetByEventCode(ctx, eventCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get wedding by code: %w", err)
	}
	// Deactivated weddings are not visible publicly.
	if !wedding.Active {
		return nil, domain.ErrNotFound
	}
	return wedding, nil
}
