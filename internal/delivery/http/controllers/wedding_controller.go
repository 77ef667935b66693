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

// CreateWeddingRequest is the request body for POST /weddings. The event code
// and id are server-generated; the authenticated user becomes the owner.
type CreateWeddingRequest struct {
	CoupleName  string     `json:"couple_name"`
	PartnerName string     `json:"partner_name"`
	WeddingDate *time.Time `json:"wedding_date"`
}

// Validate implements Validator.
func (c CreateWeddingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.CoupleName) == "" {
		errs = append(errs, "couple_name is required")
	}
	return errs
}

// UpdateWeddingRequest is the request body for PATCH /weddings/{weddingID}.
// All fields optional; omitted fields are unchanged.
type UpdateWeddingRequest struct {
	CoupleName  *string    `json:"couple_name"`
	PartnerName *string    `json:"partner_name"`
	WeddingDate *time.Time `json:"wedding_date"`
}

// Validate implements Validator.
func (u UpdateWeddingRequest) Validate() []string {
	var errs []string
	if u.CoupleName != nil && strings.TrimSpace(*u.CoupleName) == "" {
		errs = append(errs, "couple_name must not be empty")
	}
	return errs
}

// MyWeddingsResponse is the response body for GET /me/weddings.
type MyWeddingsResponse struct {
	Owned         []*domain.WeddingEvent `json:"owned"`
	Collaborating []*domain.WeddingEvent `json:"collaborating"`
}

type WeddingController struct {
	Logger  *slog.Logger
	Service domain.WeddingService
}

func NewWeddingController(logger *slog.Logger, svc domain.WeddingService) *WeddingController {
	return &WeddingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateWedding godoc
// @Summary Create a new wedding
// @Description Create a wedding event. The authenticated user becomes the owner; the shareable event code is generated server-side and is immutable.
// @Tags weddings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateWeddingRequest true "Wedding data"
// @Success 201 {object} helpers.APIResponse "data contains the created wedding"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings [post]
func (c *WeddingController) CreateWedding(w http.ResponseWriter, r *http.Request) {
	var req CreateWeddingRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	wedding := domain.NewWeddingEvent(userID, strings.TrimSpace(req.CoupleName), strings.TrimSpace(req.PartnerName), req.WeddingDate, now, now)
	if err := c.Service.CreateWedding(r.Context(), wedding); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid wedding data")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, wedding)
}

// GetWedding godoc
// @Summary Get a wedding by ID
// @Description Returns the wedding. The caller must be the owner or a collaborator.
// @Tags weddings
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the wedding"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID} [get]
func (c *WeddingController) GetWedding(w http.ResponseWriter, r *http.Request) {
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
	wedding, err := c.Service.GetWedding(r.Context(), weddingID, userID)
	if err != nil {
		c.writeServiceError(w, r, err, "wedding not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, wedding)
}

// ListMyWeddings godoc
// @Summary List the caller's weddings
// @Description Returns the weddings the authenticated user owns and the ones they collaborate on.
// @Tags weddings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains owned and collaborating weddings"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/weddings [get]
func (c *WeddingController) ListMyWeddings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	owned, collaborating, err := c.Service.ListMyWeddings(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MyWeddingsResponse{Owned: owned, Collaborating: collaborating})
}

// UpdateWedding godoc
// @Summary Update wedding details
// @Description Updates couple name, partner name, and wedding date. Owner only. Omitted fields are unchanged.
// @Tags weddings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Param body body UpdateWeddingRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated wedding"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID} [patch]
func (c *WeddingController) UpdateWedding(w http.ResponseWriter, r *http.Request) {
	weddingID := r.PathValue("weddingID")
	if weddingID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing weddingID")
		return
	}
	var req UpdateWeddingRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	wedding, err := c.Service.UpdateWedding(r.Context(), weddingID, userID, req.CoupleName, req.PartnerName, req.WeddingDate)
	if err != nil {
		c.writeServiceError(w, r, err, "wedding not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, wedding)
}

// DeactivateWedding godoc
// @Summary Deactivate a wedding
// @Description Soft-deactivates the wedding. Owner only. Collaborator and invitation rows are retained, but admission is refused while inactive.
// @Tags weddings
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the updated wedding"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID}/deactivate [post]
func (c *WeddingController) DeactivateWedding(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

// ActivateWedding godoc
// @Summary Reactivate a wedding
// @Description Reactivates a previously deactivated wedding. Owner only.
// @Tags weddings
// @Produce json
// @Security BearerAuth
// @Param weddingID path string true "Wedding ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the updated wedding"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /weddings/{weddingID}/activate [post]
func (c *WeddingController) ActivateWedding(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

func (c *WeddingController) setActive(w http.ResponseWriter, r *http.Request, active bool) {
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
	wedding, err := c.Service.SetWeddingActive(r.Context(), weddingID, userID, active)
	if err != nil {
		c.writeServiceError(w, r, err, "wedding not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, wedding)
}

func (c *WeddingController) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
