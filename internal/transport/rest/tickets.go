package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/service/ticket"
)

type ticketService interface {
	List(ctx context.Context, input ticket.ListInput) (domain.Page[domain.Ticket], error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	Comment(ctx context.Context, id uuid.UUID, text string) (*domain.Ticket, error)
	StartReview(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	Resolve(ctx context.Context, id uuid.UUID, decision domain.Decision) (*domain.Ticket, error)
}

// TicketHandler serves /tickets.
type TicketHandler struct {
	svc ticketService
	log *slog.Logger
}

// NewTicketHandler creates a TicketHandler.
func NewTicketHandler(svc ticketService, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{svc: svc, log: logger.With("handler", "ticket")}
}

type commentRequest struct {
	Text string `json:"text"`
}

type resolveRequest struct {
	Decision string `json:"decision"`
}

// List handles GET /tickets.
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := paging(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	q := r.URL.Query()
	result, err := h.svc.List(r.Context(), ticket.ListInput{
		Status: strings.ToUpper(strings.TrimSpace(q.Get("status"))),
		Type:   strings.ToUpper(strings.TrimSpace(q.Get("type"))),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPage(result, toTicket))
}

// Get handles GET /tickets/{id}.
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTicket(*t))
}

// Comment handles POST /tickets/{id}/comments.
func (h *TicketHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	t, err := h.svc.Comment(r.Context(), id, req.Text)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTicket(*t))
}

// StartReview handles POST /tickets/{id}/review.
func (h *TicketHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	t, err := h.svc.StartReview(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTicket(*t))
}

// Resolve handles POST /tickets/{id}/resolve.
func (h *TicketHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req resolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	t, err := h.svc.Resolve(r.Context(), id, domain.Decision(strings.ToUpper(strings.TrimSpace(req.Decision))))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTicket(*t))
}
