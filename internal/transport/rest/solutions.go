package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/service/solution"
)

type solutionService interface {
	List(ctx context.Context, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Solution]], error)
	Get(ctx context.Context, id uuid.UUID, lang string) (domain.LocalizedView[domain.Solution], error)
	Create(ctx context.Context, input solution.CreateInput) (*domain.Solution, error)
	Update(ctx context.Context, input solution.UpdateInput) (*domain.Solution, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SolutionHandler serves /solutions.
type SolutionHandler struct {
	svc solutionService
	log *slog.Logger
}

// NewSolutionHandler creates a SolutionHandler.
func NewSolutionHandler(svc solutionService, logger *slog.Logger) *SolutionHandler {
	return &SolutionHandler{svc: svc, log: logger.With("handler", "solution")}
}

type createSolutionRequest struct {
	Name               string  `json:"name"`
	Summary            string  `json:"summary"`
	Detail             string  `json:"detail"`
	Benefit            string  `json:"benefit"`
	CostAndEffort      string  `json:"costAndEffort"`
	ReturnOnInvestment string  `json:"returnOnInvestment"`
	Domain             string  `json:"domain"`
	PartnerID          *string `json:"partnerId"`
	Status             string  `json:"status"`
}

type updateSolutionRequest struct {
	Name               *string `json:"name"`
	Summary            *string `json:"summary"`
	Detail             *string `json:"detail"`
	Benefit            *string `json:"benefit"`
	CostAndEffort      *string `json:"costAndEffort"`
	ReturnOnInvestment *string `json:"returnOnInvestment"`
	Domain             *string `json:"domain"`
	PartnerID          *string `json:"partnerId"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// List handles GET /solutions.
func (h *SolutionHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := catalogQuery(r, domain.FilterDomain, domain.FilterPartnerID, domain.FilterProposedBy)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := toPage(page, toLocalizedSolution)
	withSolutionOwners(r.Context(), resp.Items)
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /solutions/{id}.
func (h *SolutionHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	resp := []solutionResponse{toLocalizedSolution(view)}
	withSolutionOwners(r.Context(), resp)
	writeJSON(w, http.StatusOK, resp[0])
}

// Create handles POST /solutions.
func (h *SolutionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSolutionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var partnerID *uuid.UUID
	if req.PartnerID != nil {
		id, err := parseOptionalUUID(domain.FilterPartnerID, *req.PartnerID)
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
		partnerID = id
	}

	sol, err := h.svc.Create(r.Context(), solution.CreateInput{
		Name:               req.Name,
		Summary:            req.Summary,
		Detail:             req.Detail,
		Benefit:            req.Benefit,
		CostAndEffort:      req.CostAndEffort,
		ReturnOnInvestment: req.ReturnOnInvestment,
		Domain:             req.Domain,
		PartnerID:          partnerID,
		Status:             req.Status,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSolution(*sol))
}

// Update handles PUT /solutions/{id}. An empty partnerId unlinks the partner.
func (h *SolutionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateSolutionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := solution.UpdateInput{
		ID:                 id,
		Name:               req.Name,
		Summary:            req.Summary,
		Detail:             req.Detail,
		Benefit:            req.Benefit,
		CostAndEffort:      req.CostAndEffort,
		ReturnOnInvestment: req.ReturnOnInvestment,
		Domain:             req.Domain,
	}
	if req.PartnerID != nil {
		pid, err := parseOptionalUUID(domain.FilterPartnerID, *req.PartnerID)
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
		if pid == nil {
			pid = &uuid.Nil
		}
		input.PartnerID = pid
	}

	sol, err := h.svc.Update(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSolution(*sol))
}

// ChangeStatus handles PATCH /solutions/{id}/status.
func (h *SolutionHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
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

	sol, err := h.svc.ChangeStatus(r.Context(), id, domain.SolutionStatus(strings.ToUpper(strings.TrimSpace(req.Status))))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSolution(*sol))
}

// Delete handles DELETE /solutions/{id}.
func (h *SolutionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// catalogQuery reads the shared list parameters plus the given filter keys.
func catalogQuery(r *http.Request, filterKeys ...string) (catalog.Query, error) {
	page, limit, err := paging(r)
	if err != nil {
		return catalog.Query{}, err
	}
	f, err := filters(r, filterKeys...)
	if err != nil {
		return catalog.Query{}, err
	}

	q := r.URL.Query()
	return catalog.Query{
		Q:       q.Get("q"),
		Mode:    domain.SearchMode(strings.ToLower(strings.TrimSpace(q.Get("mode")))),
		Status:  strings.ToUpper(strings.TrimSpace(q.Get("status"))),
		Filters: f,
		Lang:    q.Get("lang"),
		Page:    page,
		Limit:   limit,
	}, nil
}
