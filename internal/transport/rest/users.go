package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

type userService interface {
	Me(ctx context.Context) (*domain.User, error)
	ListUsers(ctx context.Context, page, limit int) (domain.Page[domain.User], error)
	SetUserRole(ctx context.Context, targetUserID uuid.UUID, role domain.UserRole) (*domain.User, error)
	RequestAssociation(ctx context.Context, partnerID uuid.UUID) (*domain.User, error)
	DecideAssociation(ctx context.Context, userID, partnerID uuid.UUID, status domain.AssociationStatus) (*domain.User, error)
	AddBookmark(ctx context.Context, solutionID uuid.UUID) (*domain.User, error)
	RemoveBookmark(ctx context.Context, solutionID uuid.UUID) (*domain.User, error)
}

// UserHandler serves /users.
type UserHandler struct {
	svc userService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

type roleRequest struct {
	Role string `json:"role"`
}

type associationRequest struct {
	PartnerID string `json:"partnerId"`
}

type decisionRequest struct {
	Status string `json:"status"`
}

type bookmarkRequest struct {
	SolutionID string `json:"solutionId"`
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(*u))
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := paging(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	result, err := h.svc.ListUsers(r.Context(), page, limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPage(result, toUser))
}

// SetRole handles PATCH /users/{id}/role.
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	u, err := h.svc.SetUserRole(r.Context(), id, domain.UserRole(strings.ToUpper(strings.TrimSpace(req.Role))))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(*u))
}

// RequestAssociation handles POST /users/me/associations.
func (h *UserHandler) RequestAssociation(w http.ResponseWriter, r *http.Request) {
	var req associationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	partnerID, err := uuid.Parse(strings.TrimSpace(req.PartnerID))
	if err != nil {
		handleError(w, r, h.log, domain.NewValidationError(domain.FilterPartnerID, "must be a valid UUID"))
		return
	}

	u, err := h.svc.RequestAssociation(r.Context(), partnerID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(*u))
}

// DecideAssociation handles PUT /users/{id}/associations/{partnerId}.
func (h *UserHandler) DecideAssociation(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	partnerID, err := pathUUID(r, "partnerId")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req decisionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	status := domain.AssociationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	u, err := h.svc.DecideAssociation(r.Context(), userID, partnerID, status)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(*u))
}

// AddBookmark handles POST /users/me/bookmarks.
func (h *UserHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	solutionID, err := uuid.Parse(strings.TrimSpace(req.SolutionID))
	if err != nil {
		handleError(w, r, h.log, domain.NewValidationError("solutionId", "must be a valid UUID"))
		return
	}

	u, err := h.svc.AddBookmark(r.Context(), solutionID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(*u))
}

// RemoveBookmark handles DELETE /users/me/bookmarks/{solutionId}.
func (h *UserHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	solutionID, err := pathUUID(r, "solutionId")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	u, err := h.svc.RemoveBookmark(r.Context(), solutionID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUser(*u))
}
