package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"weplan/internal/domain"
)

type invitationService struct {
	weddingRepo      domain.WeddingRepository
	collaboratorRepo domain.CollaboratorRepository
	invitationRepo   domain.InvitationRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	invitationTTL    time.Duration
	appBaseURL       string
	logger           *slog.Logger
}

// NewInvitationService creates an InvitationService. invitationTTL is the fixed
// validity window applied to every issued invitation.
func NewInvitationService(
	weddingRepo domain.WeddingRepository,
	collaboratorRepo domain.CollaboratorRepository,
	invitationRepo domain.InvitationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	invitationTTL time.Duration,
	appBaseURL string,
	logger *slog.Logger,
) domain.InvitationService {
	return &invitationService{
		weddingRepo:      weddingRepo,
		collaboratorRepo: collaboratorRepo,
		invitationRepo:   invitationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		invitationTTL:    invitationTTL,
		appBaseURL:       appBaseURL,
		logger:           logger,
	}
}

func (s *invitationService) IssueInvitation(ctx context.Context, weddingID, callerID, email, role string) (*domain.Invitation, bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, false, domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) || domain.OwnerEquivalentRole(role) {
		return nil, false, domain.ErrInvalidRole
	}

	wedding, err := s.weddingRepo.GetByID(ctx, weddingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get wedding: %w", err)
	}
	if !wedding.Active {
		return nil, false, domain.ErrWeddingInactive
	}

	// Any collaborator of the wedding (or the owner) may invite. Checked before
	// any row is written.
	if err := s.authorizeCaller(ctx, wedding, callerID); err != nil {
		return nil, false, err
	}

	now := time.Now()
	inv := &domain.Invitation{
		Token:     uuid.NewString(),
		WeddingID: weddingID,
		Email:     email,
		Role:      role,
		InvitedBy: callerID,
		ExpiresAt: now.Add(s.invitationTTL),
		CreatedAt: now,
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, false, fmt.Errorf("create invitation: %w", err)
	}

	inviterName := s.inviterName(ctx, callerID)
	data := &domain.WeddingInvitationEmailData{
		Email:         email,
		Role:          role,
		InviterName:   inviterName,
		WeddingNames:  weddingNames(wedding),
		InviteURL:     s.inviteURL(inv.Token),
		ExpiresInDays: int(s.invitationTTL.Hours() / 24),
	}
	if err := s.emailService.SendWeddingInvitation(ctx, data); err != nil {
		// The row is already durable and the token stays honorable; report the
		// dispatch failure so the caller can re-send.
		s.logger.WarnContext(ctx, "invitation email failed", "invitation_id", inv.ID, "email", email, "err", err)
		return inv, false, nil
	}
	return inv, true, nil
}

func (s *invitationService) ListInvitations(ctx context.Context, weddingID, callerID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	wedding, err := s.weddingRepo.GetByID(ctx, weddingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get wedding: %w", err)
	}
	if err := s.authorizeCaller(ctx, wedding, callerID); err != nil {
		return nil, 0, err
	}
	invs, total, err := s.invitationRepo.ListByWeddingID(ctx, weddingID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	if invs == nil {
		invs = []*domain.Invitation{}
	}
	return invs, total, nil
}

func (s *invitationService) authorizeCaller(ctx context.Context, wedding *domain.WeddingEvent, callerID string) error {
	if wedding.OwnerID == callerID {
		return nil
	}
	if _, err := s.collaboratorRepo.GetByWeddingAndUser(ctx, wedding.ID, callerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get collaborator: %w", err)
	}
	return nil
}

func (s *invitationService) inviterName(ctx context.Context, callerID string) string {
	inviter, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil || inviter == nil {
		return "Um colaborador"
	}
	name := strings.TrimSpace(inviter.Name + " " + inviter.LastName)
	if name == "" {
		name = inviter.Email
	}
	return name
}

func (s *invitationService) inviteURL(token string) string {
	return strings.TrimSuffix(s.appBaseURL, "/") + "/?invitation=" + url.QueryEscape(token)
}

func weddingNames(w *domain.WeddingEvent) string {
	if w.PartnerName == "" {
		return w.CoupleName
	}
	return w.CoupleName + " & " + w.PartnerName
}
