package rest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/transport/dataloader"
)

type pageResponse[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

func toPage[S, D any](p domain.Page[S], conv func(S) D) pageResponse[D] {
	items := make([]D, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}
	return pageResponse[D]{Items: items, Total: p.Total, Page: p.Page, TotalPages: p.TotalPages}
}

// ---------------------------------------------------------------------------
// Solutions
// ---------------------------------------------------------------------------

type solutionResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Summary            string            `json:"summary"`
	Detail             string            `json:"detail"`
	Benefit            string            `json:"benefit"`
	CostAndEffort      string            `json:"costAndEffort"`
	ReturnOnInvestment string            `json:"returnOnInvestment"`
	Domain             string            `json:"domain"`
	PartnerID          *string           `json:"partnerId"`
	PartnerName        *string           `json:"partnerName"`
	Status             string            `json:"status"`
	ProposedByUserID   string            `json:"proposedByUserId"`
	ProposedByName     string            `json:"proposedByName,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
	Language           string            `json:"language,omitempty"`
	Original           *solutionResponse `json:"original,omitempty"`
}

func toSolution(s domain.Solution) solutionResponse {
	return solutionResponse{
		ID:                 s.ID.String(),
		Name:               s.Name,
		Summary:            s.Summary,
		Detail:             s.Detail,
		Benefit:            s.Benefit,
		CostAndEffort:      s.CostAndEffort,
		ReturnOnInvestment: s.ReturnOnInvestment,
		Domain:             s.Domain,
		PartnerID:          uuidString(s.PartnerID),
		PartnerName:        s.PartnerName,
		Status:             s.Status.String(),
		ProposedByUserID:   s.ProposedByUserID.String(),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func toLocalizedSolution(v domain.LocalizedView[domain.Solution]) solutionResponse {
	base := toSolution(v.Base)
	if !v.Translated() {
		return base
	}

	out := base
	out.Name = v.Value(domain.FieldName, base.Name)
	out.Summary = v.Value(domain.FieldSummary, base.Summary)
	out.Detail = v.Value(domain.FieldDetail, base.Detail)
	out.Benefit = v.Value(domain.FieldBenefit, base.Benefit)
	out.CostAndEffort = v.Value(domain.FieldCostAndEffort, base.CostAndEffort)
	out.ReturnOnInvestment = v.Value(domain.FieldReturnOnInvestment, base.ReturnOnInvestment)
	out.Language = v.Language
	out.Original = &base
	return out
}

func withSolutionOwners(ctx context.Context, items []solutionResponse) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if id, err := uuid.Parse(it.ProposedByUserID); err == nil {
			ids = append(ids, id)
		}
	}
	names := dataloader.FromContext(ctx).UserNames(ctx, ids)
	for i := range items {
		id, _ := uuid.Parse(items[i].ProposedByUserID)
		items[i].ProposedByName = names[id]
	}
}

// ---------------------------------------------------------------------------
// Partners
// ---------------------------------------------------------------------------

type partnerResponse struct {
	ID               string           `json:"id"`
	OrganizationName string           `json:"organizationName"`
	EntityType       string           `json:"entityType"`
	Website          string           `json:"website"`
	ContactEmail     string           `json:"contactEmail"`
	Description      string           `json:"description"`
	Status           string           `json:"status"`
	ProposedByUserID string           `json:"proposedByUserId"`
	ProposedByName   string           `json:"proposedByName,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	Language         string           `json:"language,omitempty"`
	Original         *partnerResponse `json:"original,omitempty"`
}

func toPartner(p domain.Partner) partnerResponse {
	return partnerResponse{
		ID:               p.ID.String(),
		OrganizationName: p.OrganizationName,
		EntityType:       p.EntityType.String(),
		Website:          p.Website,
		ContactEmail:     p.ContactEmail,
		Description:      p.Description,
		Status:           p.Status.String(),
		ProposedByUserID: p.ProposedByUserID.String(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toLocalizedPartner(v domain.LocalizedView[domain.Partner]) partnerResponse {
	base := toPartner(v.Base)
	if !v.Translated() {
		return base
	}

	out := base
	out.OrganizationName = v.Value(domain.FieldOrganizationName, base.OrganizationName)
	out.Language = v.Language
	out.Original = &base
	return out
}

func withPartnerOwners(ctx context.Context, items []partnerResponse) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if id, err := uuid.Parse(it.ProposedByUserID); err == nil {
			ids = append(ids, id)
		}
	}
	names := dataloader.FromContext(ctx).UserNames(ctx, ids)
	for i := range items {
		id, _ := uuid.Parse(items[i].ProposedByUserID)
		items[i].ProposedByName = names[id]
	}
}

// ---------------------------------------------------------------------------
// Tickets
// ---------------------------------------------------------------------------

type ticketResponse struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	Status          string            `json:"status"`
	Title           string            `json:"title"`
	SolutionID      *string           `json:"solutionId"`
	PartnerID       *string           `json:"partnerId"`
	CreatedByUserID string            `json:"createdByUserId"`
	Comments        []commentResponse `json:"comments"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTicket(t domain.Ticket) ticketResponse {
	comments := make([]commentResponse, 0, len(t.Comments))
	for _, c := range t.Comments {
		comments = append(comments, commentResponse{
			ID:        c.ID.String(),
			AuthorID:  c.AuthorID.String(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return ticketResponse{
		ID:              t.ID.String(),
		Type:            t.Type.String(),
		Status:          t.Status.String(),
		Title:           t.Title,
		SolutionID:      uuidString(t.SolutionID),
		PartnerID:       uuidString(t.PartnerID),
		CreatedByUserID: t.CreatedByUserID.String(),
		Comments:        comments,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type userResponse struct {
	ID           string                `json:"id"`
	Email        string                `json:"email"`
	Name         string                `json:"name"`
	Role         string                `json:"role"`
	Associations []associationResponse `json:"associations"`
	Bookmarks    []string              `json:"bookmarks"`
	CreatedAt    time.Time             `json:"createdAt"`
}

type associationResponse struct {
	PartnerID   string     `json:"partnerId"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
}

func toUser(u domain.User) userResponse {
	assoc := make([]associationResponse, 0, len(u.Associations))
	for _, a := range u.Associations {
		assoc = append(assoc, associationResponse{
			PartnerID:   a.PartnerID.String(),
			Status:      a.Status.String(),
			RequestedAt: a.RequestedAt,
			ApprovedAt:  a.ApprovedAt,
		})
	}
	bookmarks := make([]string, 0, len(u.Bookmarks))
	for _, b := range u.Bookmarks {
		bookmarks = append(bookmarks, b.String())
	}
	return userResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role.String(),
		Associations: assoc,
		Bookmarks:    bookmarks,
		CreatedAt:    u.CreatedAt,
	}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
