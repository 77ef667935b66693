package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "weplan/internal/delivery/http/helpers"
	"weplan/internal/delivery/http/middleware"
	"weplan/internal/domain"
)

type CollaboratorController struct {
	Logger  *slog.Logger
	Service domain.CollaboratorService
}

func NewCollaboratorController(logger *slog.Logger, svc domain.CollaboratorService) *CollaboratorController {
	return &CollaboratorController{
		Logger:  logger,
		Service: svc,
	}
}

// ListCollaborators godoc
// @Summary List a wedding's collaborators
// @Description Returns all collaborator rows with user display data. Caller must be the owner or a collaborator.
// @Tags collaborators
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the collaborators"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID}/collaborators [get]
func (c *CollaboratorController) ListCollaborators(w http.ResponseWriter, r *http.Request) {
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
	collaborators, err := c.Service.ListCollaborators(r.Context(), weddingID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "wedding not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, collaborators)
}

// RemoveCollaborator godoc
// @Summary Remove a collaborator from a wedding
// @Description Owner-only. Self-removal and owner-removal are rejected.
// @Tags collaborators
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Param userID path string true "User ID of the collaborator to remove"
// @Success 204 "collaborator removed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (self-removal or owner-removal)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID}/collaborators/{userID} [delete]
func (c *CollaboratorController) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	weddingID := r.PathValue("weddingID")
	targetUserID := r.PathValue("userID")
	if weddingID == "" || targetUserID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing weddingID or userID")
		return
	}
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	err := c.Service.RemoveCollaborator(r.Context(), weddingID, targetUserID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "collaborator not found")
		case errors.Is(err, domain.ErrForbidden):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the owner can remove collaborators")
		case errors.Is(err, domain.ErrInvalidInput):
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "the owner cannot be removed")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
