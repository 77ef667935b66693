package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "weplan/internal/delivery/http/helpers"
	"weplan/internal/delivery/http/middleware"
	"weplan/internal/domain"
)

// AdmitRequest is the request body for POST /admissions. Exactly one admission
// path is taken: invitation_token, when present, takes priority over event_code.
type AdmitRequest struct {
	InvitationToken string `json:"invitation_token"`
	EventCode       string `json:"event_code"`
}

// Validate implements Validator.
func (a AdmitRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.InvitationToken) == "" && strings.TrimSpace(a.EventCode) == "" {
		errs = append(errs, "invitation_token or event_code is required")
	}
	if a.InvitationToken == "" && a.EventCode != "" && !domain.ValidateEventCode(a.EventCode) {
		errs = append(errs, "event code must be WEPLAN- followed by 6 to 32 letters or digits")
	}
	return errs
}

// AdmitResponse is the response body for POST /admissions. Created is false
// when the caller was already a collaborator of the wedding.
type AdmitResponse struct {
	Collaborator *domain.Collaborator `json:"collaborator"`
	Created      bool                 `json:"created"`
}

type AdmissionController struct {
	Logger  *slog.Logger
	Service domain.AdmissionService
}

func NewAdmissionController(logger *slog.Logger, svc domain.AdmissionService) *AdmissionController {
	return &AdmissionController{
		Logger:  logger,
		Service: svc,
	}
}

// Admit godoc
// @Summary Join a wedding by invitation token or event code
// @Description Attaches the authenticated user to a wedding. With an invitation token the invitation's role is granted and the token is consumed (single-use, expiry-checked). With an event code the colaborador role is granted. Joining a wedding the user already belongs to reports success without creating a second row.
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AdmitRequest true "Admission credentials"
// @Success 200 {object} helpers.APIResponse "data contains the collaborator; created=false means already a member"
// @Success 201 {object} helpers.APIResponse "data contains the new collaborator"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown code or token)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invitation used/expired, wedding inactive)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admissions [post]
func (c *AdmissionController) Admit(w http.ResponseWriter, r *http.Request) {
	var req AdmitRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	collaborator, created, err := c.Service.Admit(r.Context(), strings.TrimSpace(req.InvitationToken), req.EventCode, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "unknown event code or invitation")
		case errors.Is(err, domain.ErrInvitationUsed):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "invitation already used")
		case errors.Is(err, domain.ErrInvitationExpired):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "invitation expired")
		case errors.Is(err, domain.ErrWeddingInactive):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "wedding is not active")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid admission request")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSONSuccess(w, status, AdmitResponse{Collaborator: collaborator, Created: created})
}
