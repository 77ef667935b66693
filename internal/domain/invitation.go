package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for invitation admission.
var (
	ErrInvitationUsed    = errors.New("invitation already used")
	ErrInvitationExpired = errors.New("invitation expired")
)

// Invitation statuses as reported by Status.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

// Invitation is a time-boxed, single-use offer of collaborator access to a
// wedding, addressed to an email. The token is the addressable identifier used
// in deep links; rows persist after acceptance or expiry as an audit trail.
// swagger:model Invitation
type Invitation struct {
	ID         string     `json:"id"`
	Token      string     `json:"token"`
	WeddingID  string     `json:"wedding_id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	InvitedBy  string     `json:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Status returns pending, accepted, or expired as of now. Accepted and expired
// are terminal; there is no transition back to pending.
func (i *Invitation) Status(now time.Time) string {
	if i.AcceptedAt != nil {
		return InvitationAccepted
	}
	if now.After(i.ExpiresAt) {
		return InvitationExpired
	}
	return InvitationPending
}

// InvitationRepository defines storage operations for invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListByWeddingID(ctx context.Context, weddingID, search string, params PaginationParams) ([]*Invitation, int, error)
	// Consume atomically marks the invitation accepted and inserts the
	// collaborator row in a single transaction. The accepted_at update is
	// conditional on accepted_at IS NULL, so concurrent accept attempts
	// serialize in the database: the loser observes ErrInvitationUsed.
	Consume(ctx context.Context, token, userID string, now time.Time) (*Collaborator, error)
}

// InvitationService defines issuing and listing of wedding invitations.
type InvitationService interface {
	// IssueInvitation creates the invitation and dispatches the email.
	// emailSent is false when the row was persisted but the mail dispatch
	// failed; the token stays honorable either way.
	IssueInvitation(ctx context.Context, weddingID, callerID, email, role string) (inv *Invitation, emailSent bool, err error)
	ListInvitations(ctx context.Context, weddingID, callerID, search string, params PaginationParams) ([]*Invitation, int, error)
}

// AdmissionService resolves which wedding a user should be attached to and
// with what role, and makes the attachment durable. Exactly one admission path
// is taken per attempt; an invitation token takes priority over an event code.
type AdmissionService interface {
	// Admit dispatches on the provided credentials: token first, then code.
	// created is false when the user was already a collaborator.
	Admit(ctx context.Context, invitationToken, eventCode, userID string) (c *Collaborator, created bool, err error)
	JoinByCode(ctx context.Context, eventCode, userID string) (c *Collaborator, created bool, err error)
	AcceptInvitation(ctx context.Context, token, userID string) (c *Collaborator, created bool, err error)
}
