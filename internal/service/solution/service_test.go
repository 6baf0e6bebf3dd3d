package solution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/pkg/ctxutil"
)

type testDeps struct {
	solutions *solutionRepoMock
	partners  *partnerRepoMock
	tickets   *ticketRepoMock
	index     *searchIndexMock
	catalog   *catalogReaderMock
	events    *eventPublisherMock
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	d := &testDeps{
		solutions: &solutionRepoMock{},
		partners:  &partnerRepoMock{},
		tickets: &ticketRepoMock{
			CreateFunc: func(_ context.Context, tk *domain.Ticket) (*domain.Ticket, error) {
				out := *tk
				out.ID = uuid.New()
				return &out, nil
			},
		},
		index:   &searchIndexMock{},
		catalog: &catalogReaderMock{},
		events:  &eventPublisherMock{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, d.solutions, d.partners, d.tickets, d.index, d.catalog, d.events, &txManagerMock{})
	return svc, d
}

func asUser(id uuid.UUID, role domain.UserRole) context.Context {
	ctx := ctxutil.WithUserID(context.Background(), id)
	return ctxutil.WithUserRole(ctx, role.String())
}

func echoCreate(_ context.Context, s *domain.Solution) (*domain.Solution, error) {
	out := *s
	out.ID = uuid.New()
	out.CreatedAt = time.Now()
	return &out, nil
}

func storedSolution(owner uuid.UUID) *domain.Solution {
	return &domain.Solution{
		ID:               uuid.New(),
		Name:             "Water",
		Summary:          "Clean water for villages",
		Domain:           "Health",
		Status:           domain.SolutionStatusProposed,
		ProposedByUserID: owner,
		Translations:     domain.Translations{"hi": {domain.FieldName: "पानी"}},
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate_ForcesProposedAndOpensOneTicket(t *testing.T) {
	t.Parallel()

	for _, requested := range []string{"APPROVED", "MATURE", "DRAFT", ""} {
		t.Run("status="+requested, func(t *testing.T) {
			t.Parallel()

			svc, d := newTestService(t)
			d.solutions.CreateFunc = echoCreate
			userID := uuid.New()

			created, err := svc.Create(asUser(userID, domain.UserRoleRegular), CreateInput{
				Name:    "Water",
				Summary: "Clean water for villages",
				Status:  requested,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if created.Status != domain.SolutionStatusProposed {
				t.Errorf("status: got %s, want PROPOSED", created.Status)
			}
			if created.ProposedByUserID != userID {
				t.Errorf("owner: got %s, want %s", created.ProposedByUserID, userID)
			}

			tickets := d.tickets.CreateCalls()
			if len(tickets) != 1 {
				t.Fatalf("tickets created: got %d, want 1", len(tickets))
			}
			tk := tickets[0]
			if tk.Type != domain.TicketTypeSolutionApproval || tk.Status != domain.TicketStatusNew {
				t.Errorf("ticket: got %s/%s", tk.Type, tk.Status)
			}
			if tk.SolutionID == nil || *tk.SolutionID != created.ID {
				t.Errorf("ticket subject: got %v, want %s", tk.SolutionID, created.ID)
			}
			if tk.PartnerID != nil {
				t.Errorf("ticket partnerId should be nil")
			}
		})
	}
}

func TestCreate_ModeratorStatusStillForced(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	d.solutions.CreateFunc = echoCreate

	created, err := svc.Create(asUser(uuid.New(), domain.UserRoleAdmin), CreateInput{
		Name: "Water", Summary: "s", Status: "MATURE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.SolutionStatusProposed {
		t.Errorf("status: got %s, want PROPOSED", created.Status)
	}
}

func TestCreate_IndexesAndPublishes(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	d.solutions.CreateFunc = echoCreate

	created, err := svc.Create(asUser(uuid.New(), domain.UserRoleRegular), CreateInput{Name: "Water", Summary: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ups := d.index.UpsertCalls(); len(ups) != 1 || ups[0].ID != created.ID {
		t.Errorf("index upserts: got %+v", ups)
	}
	evs := d.events.PublishCalls()
	if len(evs) != 1 {
		t.Fatalf("events: got %d, want 1", len(evs))
	}
	if evs[0].Type != events.TypeEntityCreated || evs[0].Collection != Collection || evs[0].TicketID == nil {
		t.Errorf("event: got %+v", evs[0])
	}
}

func TestCreate_SoftFailuresDoNotFail(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	d.solutions.CreateFunc = echoCreate
	d.index.UpsertFunc = func(context.Context, domain.Solution) error { return errors.New("embedder down") }
	d.events.PublishFunc = func(context.Context, events.Event) error { return errors.New("broker down") }

	if _, err := svc.Create(asUser(uuid.New(), domain.UserRoleRegular), CreateInput{Name: "Water", Summary: "s"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_Anonymous(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Water", Summary: "s"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if len(d.solutions.CreateCalls()) != 0 {
		t.Error("nothing should be created")
	}
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Create(asUser(uuid.New(), domain.UserRoleRegular), CreateInput{Name: "  "})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("violations: got %d, want 2 (name, summary)", len(ve.Errors))
	}
}

func TestCreate_LinksPartnerName(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	d.solutions.CreateFunc = echoCreate
	partnerID := uuid.New()
	d.partners.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Partner, error) {
		return &domain.Partner{ID: id, OrganizationName: "Acme"}, nil
	}

	created, err := svc.Create(asUser(uuid.New(), domain.UserRoleRegular), CreateInput{
		Name: "Water", Summary: "s", PartnerID: &partnerID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.PartnerName == nil || *created.PartnerName != "Acme" {
		t.Errorf("partner name: got %v", created.PartnerName)
	}
}

func TestCreate_UnknownPartner(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	svc.partners = &partnerRepoMock{GetByIDFunc: func(context.Context, uuid.UUID) (*domain.Partner, error) {
		return nil, domain.ErrNotFound
	}}
	partnerID := uuid.New()

	_, err := svc.Create(asUser(uuid.New(), domain.UserRoleRegular), CreateInput{
		Name: "Water", Summary: "s", PartnerID: &partnerID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestCreate_TicketFailureAbortsTx(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	d.solutions.CreateFunc = echoCreate
	d.tickets.CreateFunc = func(context.Context, *domain.Ticket) (*domain.Ticket, error) {
		return nil, errors.New("db down")
	}

	_, err := svc.Create(asUser(uuid.New(), domain.UserRoleRegular), CreateInput{Name: "Water", Summary: "s"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(d.index.UpsertCalls()) != 0 {
		t.Error("index must not be touched when the transaction fails")
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUpdate_ForbiddenBeforeMutation(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	cur := storedSolution(uuid.New())
	d.solutions.GetByIDFunc = func(context.Context, uuid.UUID) (*domain.Solution, error) { return cur, nil }

	name := "Hijacked"
	_, err := svc.Update(asUser(uuid.New(), domain.UserRoleRegular), UpdateInput{ID: cur.ID, Name: &name})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if len(d.solutions.UpdateCalls()) != 0 {
		t.Error("no write may happen before authorization")
	}
}

func TestUpdate_TranslatableChangeClearsCache(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	owner := uuid.New()
	cur := storedSolution(owner)
	d.solutions.GetByIDFunc = func(context.Context, uuid.UUID) (*domain.Solution, error) {
		out := *cur
		return &out, nil
	}
	d.solutions.UpdateFunc = func(_ context.Context, s *domain.Solution, _ bool) (*domain.Solution, error) { return s, nil }

	summary := "Clean water for every village"
	if _, err := svc.Update(asUser(owner, domain.UserRoleRegular), UpdateInput{ID: cur.ID, Summary: &summary}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := d.solutions.UpdateCalls()
	if len(calls) != 1 || !calls[0].ClearTranslations {
		t.Fatalf("update calls: got %+v, want one clearing translations", calls)
	}
	if calls[0].Solution.Summary != summary {
		t.Errorf("summary: got %q", calls[0].Solution.Summary)
	}
}

func TestUpdate_NonTranslatableChangeKeepsCache(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	owner := uuid.New()
	cur := storedSolution(owner)
	d.solutions.GetByIDFunc = func(context.Context, uuid.UUID) (*domain.Solution, error) {
		out := *cur
		return &out, nil
	}
	d.solutions.UpdateFunc = func(_ context.Context, s *domain.Solution, _ bool) (*domain.Solution, error) { return s, nil }

	dom := "Water"
	if _, err := svc.Update(asUser(uuid.New(), domain.UserRoleICPSupport), UpdateInput{ID: cur.ID, Domain: &dom}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := d.solutions.UpdateCalls(); len(calls) != 1 || calls[0].ClearTranslations {
		t.Fatalf("update calls: got %+v, want one keeping translations", calls)
	}
}

func TestUpdate_ReindexesFromFreshRead(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	owner := uuid.New()
	cur := storedSolution(owner)
	fresh := *cur
	fresh.Benefit = "set by a concurrent writer"

	reads := 0
	d.solutions.GetByIDFunc = func(context.Context, uuid.UUID) (*domain.Solution, error) {
		reads++
		if reads == 1 {
			out := *cur
			return &out, nil
		}
		out := fresh
		return &out, nil
	}
	d.solutions.UpdateFunc = func(_ context.Context, s *domain.Solution, _ bool) (*domain.Solution, error) { return s, nil }

	name := "Water+"
	got, err := svc.Update(asUser(owner, domain.UserRoleRegular), UpdateInput{ID: cur.ID, Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ups := d.index.UpsertCalls()
	if len(ups) != 1 || ups[0].Benefit != fresh.Benefit {
		t.Fatalf("upsert should use the fresh read, got %+v", ups)
	}
	if got.Benefit != fresh.Benefit {
		t.Errorf("returned entity should be the fresh read")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	d.solutions.GetByIDFunc = func(context.Context, uuid.UUID) (*domain.Solution, error) { return nil, domain.ErrNotFound }

	name := "x"
	_, err := svc.Update(asUser(uuid.New(), domain.UserRoleAdmin), UpdateInput{ID: uuid.New(), Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// ChangeStatus / Delete / reads
// ---------------------------------------------------------------------------

func TestChangeStatus_RequiresModerator(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.ChangeStatus(asUser(uuid.New(), domain.UserRoleRegular), uuid.New(), domain.SolutionStatusMature)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestChangeStatus_Moderator(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	d.solutions.UpdateStatusFunc = func(_ context.Context, id uuid.UUID, st domain.SolutionStatus) (*domain.Solution, error) {
		return &domain.Solution{ID: id, Status: st}, nil
	}

	got, err := svc.ChangeStatus(asUser(uuid.New(), domain.UserRoleICPSupport), uuid.New(), domain.SolutionStatusMature)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.SolutionStatusMature {
		t.Errorf("status: got %s", got.Status)
	}
	if len(d.index.UpsertCalls()) != 1 {
		t.Error("status change should reindex")
	}
	if evs := d.events.PublishCalls(); len(evs) != 1 || evs[0].Type != events.TypeStatusChanged {
		t.Errorf("events: got %+v", evs)
	}
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.ChangeStatus(asUser(uuid.New(), domain.UserRoleAdmin), uuid.New(), "SHIPPED")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestDelete_OwnerRemovesIndexEntry(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	owner := uuid.New()
	cur := storedSolution(owner)
	d.solutions.GetByIDFunc = func(context.Context, uuid.UUID) (*domain.Solution, error) { return cur, nil }
	d.solutions.DeleteFunc = func(context.Context, uuid.UUID) error { return nil }

	if err := svc.Delete(asUser(owner, domain.UserRoleRegular), cur.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rm := d.index.RemoveCalls(); len(rm) != 1 || rm[0] != cur.ID {
		t.Errorf("index removals: got %v", rm)
	}
}

func TestDelete_Forbidden(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	cur := storedSolution(uuid.New())
	d.solutions.GetByIDFunc = func(context.Context, uuid.UUID) (*domain.Solution, error) { return cur, nil }

	err := svc.Delete(asUser(uuid.New(), domain.UserRoleRegular), cur.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if len(d.solutions.DeleteCalls()) != 0 || len(d.index.RemoveCalls()) != 0 {
		t.Error("nothing may be deleted")
	}
}

func TestList_PassesPrincipal(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(t)
	userID := uuid.New()
	var seen domain.Principal
	d.catalog.ListFunc = func(_ context.Context, p domain.Principal, _ catalog.Query) (domain.Page[domain.LocalizedView[domain.Solution]], error) {
		seen = p
		return domain.Page[domain.LocalizedView[domain.Solution]]{}, nil
	}

	if _, err := svc.List(asUser(userID, domain.UserRoleICPSupport), catalog.Query{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.UserID != userID || seen.Role != domain.UserRoleICPSupport {
		t.Errorf("principal: got %+v", seen)
	}
}
