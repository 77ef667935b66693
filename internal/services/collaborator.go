package services

import (
	"context"
	"errors"
	"fmt"

	"weplan/internal/domain"
)

type collaboratorService struct {
	weddingRepo      domain.WeddingRepository
	collaboratorRepo domain.CollaboratorRepository
}

// NewCollaboratorService creates a CollaboratorService with the given repositories.
func NewCollaboratorService(weddingRepo domain.WeddingRepository, collaboratorRepo domain.CollaboratorRepository) domain.CollaboratorService {
	return &collaboratorService{
		weddingRepo:      weddingRepo,
		collaboratorRepo: collaboratorRepo,
	}
}

func (s *collaboratorService) ListCollaborators(ctx context.Context, weddingID, callerID string) ([]*domain.Collaborator, error) {
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
	collaborators, err := s.collaboratorRepo.ListByWeddingID(ctx, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	if collaborators == nil {
		collaborators = []*domain.Collaborator{}
	}
	return collaborators, nil
}

func (s *collaboratorService) RemoveCollaborator(ctx context.Context, weddingID, targetUserID, actorID string) error {
	wedding, err := s.weddingRepo.GetByID(ctx, weddingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get wedding: %w", err)
	}
	if wedding.OwnerID != actorID {
		return domain.ErrForbidden
	}
	// The owner cannot remove themselves, and the owner's implicit membership
	// cannot be removed.
	if targetUserID == actorID || targetUserID == wedding.OwnerID {
		return domain.ErrInvalidInput
	}
	if err := s.collaboratorRepo.Remove(ctx, weddingID, targetUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove collaborator: %w", err)
	}
	return nil
}
