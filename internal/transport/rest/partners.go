package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/service/partner"
)

type partnerService interface {
	List(ctx context.Context, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Partner]], error)
	Get(ctx context.Context, id uuid.UUID, lang string) (domain.LocalizedView[domain.Partner], error)
	Create(ctx context.Context, input partner.CreateInput) (*domain.Partner, error)
	Update(ctx context.Context, input partner.UpdateInput) (*domain.Partner, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartnerHandler serves /partners.
type PartnerHandler struct {
	svc partnerService
	log *slog.Logger
}

// NewPartnerHandler creates a PartnerHandler.
func NewPartnerHandler(svc partnerService, logger *slog.Logger) *PartnerHandler {
	return &PartnerHandler{svc: svc, log: logger.With("handler", "partner")}
}

type createPartnerRequest struct {
	OrganizationName string `json:"organizationName"`
	EntityType       string `json:"entityType"`
	Website          string `json:"website"`
	ContactEmail     string `json:"contactEmail"`
	Description      string `json:"description"`
	Status           string `json:"status"`
}

type updatePartnerRequest struct {
	OrganizationName *string `json:"organizationName"`
	EntityType       *string `json:"entityType"`
	Website          *string `json:"website"`
	ContactEmail     *string `json:"contactEmail"`
	Description      *string `json:"description"`
}

// List handles GET /partners.
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := catalogQuery(r, domain.FilterEntityType, domain.FilterProposedBy)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if v, ok := q.Filters[domain.FilterEntityType]; ok {
		q.Filters[domain.FilterEntityType] = strings.ToUpper(v)
	}

	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := toPage(page, toLocalizedPartner)
	withPartnerOwners(r.Context(), resp.Items)
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /partners/{id}.
func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	view, err := h.svc.Get(r.Context(), id, r.URL.Query().Get("lang"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := []partnerResponse{toLocalizedPartner(view)}
	withPartnerOwners(r.Context(), resp)
	writeJSON(w, http.StatusOK, resp[0])
}

// Create handles POST /partners.
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	p, err := h.svc.Create(r.Context(), partner.CreateInput{
		OrganizationName: req.OrganizationName,
		EntityType:       domain.PartnerEntityType(strings.ToUpper(strings.TrimSpace(req.EntityType))),
		Website:          req.Website,
		ContactEmail:     req.ContactEmail,
		Description:      req.Description,
		Status:           req.Status,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPartner(*p))
}

// Update handles PUT /partners/{id}.
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updatePartnerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := partner.UpdateInput{
		ID:               id,
		OrganizationName: req.OrganizationName,
		Website:          req.Website,
		ContactEmail:     req.ContactEmail,
		Description:      req.Description,
	}
	if req.EntityType != nil {
		et := domain.PartnerEntityType(strings.ToUpper(strings.TrimSpace(*req.EntityType)))
		input.EntityType = &et
	}

	p, err := h.svc.Update(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPartner(*p))
}

// ChangeStatus handles PATCH /partners/{id}/status.
func (h *PartnerHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	p, err := h.svc.ChangeStatus(r.Context(), id, domain.PartnerStatus(strings.ToUpper(strings.TrimSpace(req.Status))))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPartner(*p))
}

// Delete handles DELETE /partners/{id}.
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
