package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyCollaborator is returned when attaching a user who already has a
// collaborator row for the wedding.
var ErrAlreadyCollaborator = errors.New("already a collaborator")

// ErrInvalidInput is returned when the request is invalid (e.g. removing the wedding owner).
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidRole is returned when a role is not in the fixed collaborator role enumeration.
var ErrInvalidRole = errors.New("invalid collaborator role")

// Collaborator roles. The enumeration is fixed; values are stored and compared verbatim.
const (
	RoleNoivo       = "noivo"
	RoleNoiva       = "noiva"
	RoleColaborador = "colaborador"
	RoleCelebrante  = "celebrante"
	RolePadrinho    = "padrinho"
	RoleMadrinha    = "madrinha"
	RoleConvidado   = "convidado"
	RoleFotografo   = "fotografo"
	RoleOrganizador = "organizador"
)

// DefaultJoinRole is assigned when a user joins a wedding by event code.
const DefaultJoinRole = RoleColaborador

var collaboratorRoles = map[string]struct{}{
	RoleNoivo:       {},
	RoleNoiva:       {},
	RoleColaborador: {},
	RoleCelebrante:  {},
	RolePadrinho:    {},
	RoleMadrinha:    {},
	RoleConvidado:   {},
	RoleFotografo:   {},
	RoleOrganizador: {},
}

// ValidRole reports whether role is one of the fixed collaborator roles.
func ValidRole(role string) bool {
	_, ok := collaboratorRoles[role]
	return ok
}

// OwnerEquivalentRole reports whether role designates one of the couple themselves.
// These roles are not grantable by invitation; ownership lives on the wedding row.
func OwnerEquivalentRole(role string) bool {
	return role == RoleNoivo || role == RoleNoiva
}

// Collaborator associates a user with a wedding under a role. At most one row
// exists per (wedding, user) pair.
// swagger:model Collaborator
type Collaborator struct {
	WeddingID string    `json:"wedding_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	InvitedBy *string   `json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
	// Display fields joined from the users table on reads.
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

// CollaboratorRepository defines the interface for collaborator storage.
type CollaboratorRepository interface {
	Add(ctx context.Context, c *Collaborator) error
	GetByWeddingAndUser(ctx context.Context, weddingID, userID string) (*Collaborator, error)
	ListByWeddingID(ctx context.Context, weddingID string) ([]*Collaborator, error)
	Remove(ctx context.Context, weddingID, userID string) error
}

// CollaboratorService defines collaborator listing and removal.
type CollaboratorService interface {
	ListCollaborators(ctx context.Context, weddingID, callerID string) ([]*Collaborator, error)
	// RemoveCollaborator is owner-only; the owner cannot remove themselves and
	// the owner's implicit membership cannot be removed.
	RemoveCollaborator(ctx context.Context, weddingID, targetUserID, actorID string) error
}
