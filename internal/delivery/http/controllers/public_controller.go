package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "weplan/internal/delivery/http/helpers"
	"weplan/internal/domain"
)

// CeremonyInvitee is a role/guest pair parsed from the public landing page
// query parameters. Display-only; it grants nothing.
type CeremonyInvitee struct {
	Role  string `json:"role"`
	Guest string `json:"guest"`
}

// PublicWeddingResponse is the response body for GET /public/weddings/{eventCode}.
type PublicWeddingResponse struct {
	CoupleName  string            `json:"couple_name"`
	PartnerName string            `json:"partner_name"`
	WeddingDate *time.Time        `json:"wedding_date"`
	EventCode   string            `json:"event_code"`
	Invitees    []CeremonyInvitee `json:"invitees,omitempty"`
}

type PublicController struct {
	Logger  *slog.Logger
	Service domain.WeddingService
}

func NewPublicController(logger *slog.Logger, svc domain.WeddingService) *PublicController {
	return &PublicController{
		Logger:  logger,
		Service: svc,
	}
}

// parseCeremonyInvitees pairs the comma-separated role and guest slugs from
// the query string by index. Slugs use hyphens for spaces; values beyond the
// shorter list keep an empty counterpart.
func parseCeremonyInvitees(roleParam, guestParam string) []CeremonyInvitee {
	if roleParam == "" && guestParam == "" {
		return nil
	}
	roles := splitSlugs(roleParam)
	guests := splitSlugs(guestParam)
	n := len(roles)
	if len(guests) > n {
		n = len(guests)
	}
	invitees := make([]CeremonyInvitee, 0, n)
	for i := 0; i < n; i++ {
		inv := CeremonyInvitee{}
		if i < len(roles) {
			inv.Role = roles[i]
		}
		if i < len(guests) {
			inv.Guest = guests[i]
		}
		if inv.Role != "" || inv.Guest != "" {
			invitees = append(invitees, inv)
		}
	}
	return invitees
}

func splitSlugs(param string) []string {
	if param == "" {
		return nil
	}
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(strings.ReplaceAll(p, "-", " ")))
	}
	return out
}

// GetPublicWedding godoc
// @Summary Public wedding landing data
// @Description Returns display data for the public event landing page by event code. No authentication. The optional role and guest query parameters carry comma-separated, URL-encoded slugs for paired ceremony invitees; they are cosmetic display routing, never authorization.
// @Tags public
// @Produce json
// @Param eventCode path string true "Event code (WEPLAN-XXXXXX)"
// @Param role query string false "Comma-separated role slugs"
// @Param guest query string false "Comma-separated guest name slugs"
// @Success 200 {object} helpers.APIResponse "data contains the public wedding view"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed event code)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /public/weddings/{eventCode} [get]
func (c *PublicController) GetPublicWedding(w http.ResponseWriter, r *http.Request) {
	eventCode := r.PathValue("eventCode")
	if !domain.ValidateEventCode(eventCode) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "event code must be WEPLAN- followed by 6 to 32 letters or digits")
		return
	}
	wedding, err := c.Service.GetPublicWedding(r.Context(), eventCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "wedding not found")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event code")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	q := r.URL.Query()
	h.WriteJSONSuccess(w, http.StatusOK, PublicWeddingResponse{
		CoupleName:  wedding.CoupleName,
		PartnerName: wedding.PartnerName,
		WeddingDate: wedding.WeddingDate,
		EventCode:   wedding.EventCode,
		Invitees:    parseCeremonyInvitees(q.Get("role"), q.Get("guest")),
	})
}
