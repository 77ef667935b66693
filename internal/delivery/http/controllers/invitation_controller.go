package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "weplan/internal/delivery/http/helpers"
	"weplan/internal/delivery/http/middleware"
	"weplan/internal/domain"
)

// IssueInvitationRequest is the request body for POST /weddings/{weddingID}/invitations.
type IssueInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate implements Validator.
func (i IssueInvitationRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(i.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if i.Role == "" {
		errs = append(errs, "role is required")
	} else if !domain.ValidRole(i.Role) {
		errs = append(errs, "unknown role")
	} else if domain.OwnerEquivalentRole(i.Role) {
		errs = append(errs, "role cannot be granted by invitation")
	}
	return errs
}

// InvitationView is an Invitation as presented over the API, with its computed status.
type InvitationView struct {
	*domain.Invitation
	Status string `json:"status"`
}

// IssueInvitationResponse is the response body for POST /weddings/{weddingID}/invitations.
// EmailSent is false when the invitation row was persisted but the email could
// not be dispatched; the token is still valid.
type IssueInvitationResponse struct {
	Invitation *domain.Invitation `json:"invitation"`
	EmailSent  bool               `json:"email_sent"`
}

// ListInvitationsResponse is the response body for GET /weddings/{weddingID}/invitations.
type ListInvitationsResponse struct {
	Invitations []InvitationView `json:"invitations"`
	Pagination  h.PaginationMeta `json:"pagination"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// IssueInvitation godoc
// @Summary Invite an email to a wedding
// @Description Creates a single-use, time-boxed invitation bound to (wedding, email, role) and sends the invitation email with a deep link. The caller must be the owner or a collaborator of the wedding.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Param body body IssueInvitationRequest true "Invitation data"
// @Success 201 {object} helpers.APIResponse "data contains the invitation and email_sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller is not a collaborator)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (wedding inactive)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID}/invitations [post]
func (c *InvitationController) IssueInvitation(w http.ResponseWriter, r *http.Request) {
	weddingID := r.PathValue("weddingID")
	if weddingID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing weddingID")
		return
	}
	var req IssueInvitationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	inv, emailSent, err := c.Service.IssueInvitation(r.Context(), weddingID, userID, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "wedding not found")
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only collaborators can invite")
		case errors.Is(err, domain.ErrWeddingInactive):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "wedding is not active")
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidRole):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, IssueInvitationResponse{Invitation: inv, EmailSent: emailSent})
}

// ListInvitations godoc
// @Summary List a wedding's invitations
// @Description Returns the wedding's invitations with computed status, newest first. Supports pagination and search by email. Caller must be the owner or a collaborator.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Param search query string false "Filter by email substring"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invitations and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID}/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	weddingID := r.PathValue("weddingID")
	if weddingID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing weddingID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := h.ParsePagination(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	invs, total, err := c.Service.ListInvitations(r.Context(), weddingID, userID, search, params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "wedding not found")
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	now := time.Now()
	views := make([]InvitationView, 0, len(invs))
	for _, inv := range invs {
		views = append(views, InvitationView{Invitation: inv, Status: inv.Status(now)})
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListInvitationsResponse{
		Invitations: views,
		Pagination:  h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
