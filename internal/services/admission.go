package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weplan/internal/domain"
)

type admissionService struct {
	weddingRepo      domain.WeddingRepository
	collaboratorRepo domain.CollaboratorRepository
	invitationRepo   domain.InvitationRepository
}

// NewAdmissionService creates an AdmissionService with the given repositories.
func NewAdmissionService(
	weddingRepo domain.WeddingRepository,
	collaboratorRepo domain.CollaboratorRepository,
	invitationRepo domain.InvitationRepository,
) domain.AdmissionService {
	return &admissionService{
		weddingRepo:      weddingRepo,
		collaboratorRepo: collaboratorRepo,
		invitationRepo:   invitationRepo,
	}
}

// Admit resolves exactly one admission path per attempt. An invitation token
// takes priority over an event code when both are supplied.
func (s *admissionService) Admit(ctx context.Context, invitationToken, eventCode, userID string) (*domain.Collaborator, bool, error) {
	if invitationToken != "" {
		return s.AcceptInvitation(ctx, invitationToken, userID)
	}
	if eventCode != "" {
		return s.JoinByCode(ctx, eventCode, userID)
	}
	return nil, false, domain.ErrInvalidInput
}

func (s *admissionService) JoinByCode(ctx context.Context, eventCode, userID string) (*domain.Collaborator, bool, error) {
	if !domain.ValidateEventCode(eventCode) {
		return nil, false, domain.ErrInvalidInput
	}
	wedding, err := s.weddingRepo.GetByEventCode(ctx, eventCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get wedding by code: %w", err)
	}
	if !wedding.Active {
		return nil, false, domain.ErrWeddingInactive
	}
	if wedding.OwnerID == userID {
		return nil, false, domain.ErrInvalidInput
	}

	// Joining twice is idempotent: an existing row is reported as success with
	// created=false and no second row is written.
	if existing, err := s.collaboratorRepo.GetByWeddingAndUser(ctx, wedding.ID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get collaborator: %w", err)
	}

	c := &domain.Collaborator{
		WeddingID: wedding.ID,
		UserID:    userID,
		Role:      domain.DefaultJoinRole,
		CreatedAt: time.Now(),
	}
	if err := s.collaboratorRepo.Add(ctx, c); err != nil {
		if errors.Is(err, domain.ErrAlreadyCollaborator) {
			// Lost a race against a concurrent join by the same user.
			existing, err := s.collaboratorRepo.GetByWeddingAndUser(ctx, wedding.ID, userID)
			if err != nil {
				return nil, false, fmt.Errorf("get collaborator: %w", err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("add collaborator: %w", err)
	}
	return c, true, nil
}

func (s *admissionService) AcceptInvitation(ctx context.Context, token, userID string) (*domain.Collaborator, bool, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get invitation: %w", err)
	}

	now := time.Now()
	switch inv.Status(now) {
	case domain.InvitationAccepted:
		// A repeat visit by the admitted user reports membership instead of a
		// token error; anybody else gets the already-used rejection.
		if existing, err := s.collaboratorRepo.GetByWeddingAndUser(ctx, inv.WeddingID, userID); err == nil {
			return existing, false, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, false, fmt.Errorf("get collaborator: %w", err)
		}
		return nil, false, domain.ErrInvitationUsed
	case domain.InvitationExpired:
		return nil, false, domain.ErrInvitationExpired
	}

	wedding, err := s.weddingRepo.GetByID(ctx, inv.WeddingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get wedding: %w", err)
	}
	if !wedding.Active {
		return nil, false, domain.ErrWeddingInactive
	}
	if wedding.OwnerID == userID {
		return nil, false, domain.ErrInvalidInput
	}

	c, err := s.invitationRepo.Consume(ctx, token, userID, now)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyCollaborator):
			// Already attached through another path; the invitation stays pending.
			existing, err := s.collaboratorRepo.GetByWeddingAndUser(ctx, inv.WeddingID, userID)
			if err != nil {
				return nil, false, fmt.Errorf("get collaborator: %w", err)
			}
			return existing, false, nil
		case errors.Is(err, domain.ErrInvitationUsed), errors.Is(err, domain.ErrInvitationExpired), errors.Is(err, domain.ErrNotFound):
			return nil, false, err
		}
		return nil, false, fmt.Errorf("consume invitation: %w", err)
	}
	return c, true, nil
}
