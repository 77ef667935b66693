package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// Sentinel errors shared across wedding operations.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrWeddingInactive = errors.New("wedding is not active")
)

// EventCodePrefix is the fixed prefix of every shareable wedding join code.
const EventCodePrefix = "WEPLAN-"

// eventCodeRegexp accepts both the legacy 6-character codes and longer hardened codes.
var eventCodeRegexp = regexp.MustCompile(`^WEPLAN-[A-Z0-9]{6,32}$`)

// NormalizeEventCode trims surrounding whitespace and uppercases the candidate code.
func NormalizeEventCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateEventCode reports whether the candidate, after normalization, is a
// well-formed event code (WEPLAN- followed by 6 to 32 alphanumeric characters).
func ValidateEventCode(code string) bool {
	return eventCodeRegexp.MatchString(NormalizeEventCode(code))
}

// WeddingEvent represents one couple's wedding. The creating user is the owner;
// ownership is tracked on the event itself, not as a collaborator row.
// swagger:model WeddingEvent
type WeddingEvent struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	CoupleName  string     `json:"couple_name"`
	PartnerName string     `json:"partner_name"`
	WeddingDate *time.Time `json:"wedding_date"`
	// EventCode is globally unique and immutable once issued.
	EventCode string    `json:"event_code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWeddingEvent returns a new WeddingEvent with the given fields. ID and
// EventCode are typically set by the service/repository on create.
func NewWeddingEvent(ownerID, coupleName, partnerName string, weddingDate *time.Time, createdAt, updatedAt time.Time) *WeddingEvent {
	return &WeddingEvent{
		OwnerID:     ownerID,
		CoupleName:  coupleName,
		PartnerName: partnerName,
		WeddingDate: weddingDate,
		Active:      true,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// WeddingRepository defines the interface for wedding storage
type WeddingRepository interface {
	Create(ctx context.Context, w *WeddingEvent) error
	GetByID(ctx context.Context, id string) (*WeddingEvent, error)
	GetByEventCode(ctx context.Context, eventCode string) (*WeddingEvent, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*WeddingEvent, error)
	ListByCollaboratorID(ctx context.Context, userID string) ([]*WeddingEvent, error)
	Update(ctx context.Context, id string, coupleName, partnerName *string, weddingDate *time.Time) (*WeddingEvent, error)
	SetActive(ctx context.Context, id string, active bool) (*WeddingEvent, error)
}

// WeddingService defines the business logic for wedding lifecycle operations.
type WeddingService interface {
	CreateWedding(ctx context.Context, w *WeddingEvent) error
	GetWedding(ctx context.Context, weddingID, callerID string) (*WeddingEvent, error)
	// ListMyWeddings returns the weddings the user owns and the ones they collaborate on.
	ListMyWeddings(ctx context.Context, userID string) (owned, collaborating []*WeddingEvent, err error)
	UpdateWedding(ctx context.Context, weddingID, ownerID string, coupleName, partnerName *string, weddingDate *time.Time) (*WeddingEvent, error)
	SetWeddingActive(ctx context.Context, weddingID, ownerID string, active bool) (*WeddingEvent, error)
	// GetPublicWedding returns display data for the public landing page by event code.
	GetPublicWedding(ctx context.Context, eventCode string) (*WeddingEvent, error)
}
