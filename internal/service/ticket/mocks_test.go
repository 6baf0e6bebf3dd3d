package ticket

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

var (
	_ ticketRepo     = &ticketRepoMock{}
	_ solutionRepo   = &solutionRepoMock{}
	_ partnerRepo    = &partnerRepoMock{}
	_ solutionIndex  = &solutionIndexMock{}
	_ partnerIndex   = &partnerIndexMock{}
	_ eventPublisher = &eventPublisherMock{}
	_ txManager      = &txManagerMock{}
)

type ticketRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	ListFunc          func(ctx context.Context, eq map[string]string) ([]domain.Ticket, error)
	UpdateStatusFunc  func(ctx context.Context, id uuid.UUID, status domain.TicketStatus) (*domain.Ticket, error)
	AppendCommentFunc func(ctx context.Context, id uuid.UUID, c domain.Comment) (*domain.Ticket, error)

	mu    sync.RWMutex
	calls struct {
		List          []map[string]string
		UpdateStatus  []domain.TicketStatus
		AppendComment []domain.Comment
	}
}

func (m *ticketRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	if m.GetByIDFunc == nil {
		panic("ticketRepoMock.GetByIDFunc: method is nil but ticketRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *ticketRepoMock) List(ctx context.Context, eq map[string]string) ([]domain.Ticket, error) {
	if m.ListFunc == nil {
		panic("ticketRepoMock.ListFunc: method is nil but ticketRepo.List was just called")
	}
	m.mu.Lock()
	m.calls.List = append(m.calls.List, eq)
	m.mu.Unlock()
	return m.ListFunc(ctx, eq)
}

func (m *ticketRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TicketStatus) (*domain.Ticket, error) {
	if m.UpdateStatusFunc == nil {
		panic("ticketRepoMock.UpdateStatusFunc: method is nil but ticketRepo.UpdateStatus was just called")
	}
	m.mu.Lock()
	m.calls.UpdateStatus = append(m.calls.UpdateStatus, status)
	m.mu.Unlock()
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *ticketRepoMock) AppendComment(ctx context.Context, id uuid.UUID, c domain.Comment) (*domain.Ticket, error) {
	if m.AppendCommentFunc == nil {
		panic("ticketRepoMock.AppendCommentFunc: method is nil but ticketRepo.AppendComment was just called")
	}
	m.mu.Lock()
	m.calls.AppendComment = append(m.calls.AppendComment, c)
	m.mu.Unlock()
	return m.AppendCommentFunc(ctx, id, c)
}

func (m *ticketRepoMock) ListCalls() []map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.List
}

func (m *ticketRepoMock) UpdateStatusCalls() []domain.TicketStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.UpdateStatus
}

func (m *ticketRepoMock) AppendCommentCalls() []domain.Comment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.AppendComment
}

type solutionRepoMock struct {
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error)
}

func (m *solutionRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error) {
	if m.UpdateStatusFunc == nil {
		panic("solutionRepoMock.UpdateStatusFunc: method is nil but solutionRepo.UpdateStatus was just called")
	}
	return m.UpdateStatusFunc(ctx, id, status)
}

type partnerRepoMock struct {
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error)
}

func (m *partnerRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error) {
	if m.UpdateStatusFunc == nil {
		panic("partnerRepoMock.UpdateStatusFunc: method is nil but partnerRepo.UpdateStatus was just called")
	}
	return m.UpdateStatusFunc(ctx, id, status)
}

type solutionIndexMock struct {
	mu      sync.RWMutex
	upserts []domain.Solution
}

func (m *solutionIndexMock) Upsert(_ context.Context, item domain.Solution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, item)
	return nil
}

func (m *solutionIndexMock) UpsertCalls() []domain.Solution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}

type partnerIndexMock struct {
	mu      sync.RWMutex
	upserts []domain.Partner
}

func (m *partnerIndexMock) Upsert(_ context.Context, item domain.Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, item)
	return nil
}

func (m *partnerIndexMock) UpsertCalls() []domain.Partner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}

type eventPublisherMock struct {
	mu    sync.RWMutex
	calls []events.Event
}

func (m *eventPublisherMock) Publish(_ context.Context, e events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, e)
	return nil
}

func (m *eventPublisherMock) PublishCalls() []events.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		return fn(ctx)
	}
	return m.RunInTxFunc(ctx, fn)
}
