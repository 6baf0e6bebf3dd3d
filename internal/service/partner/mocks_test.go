package partner

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

var (
	_ partnerRepo    = &partnerRepoMock{}
	_ solutionRepo   = &solutionRepoMock{}
	_ ticketRepo     = &ticketRepoMock{}
	_ partnerIndex   = &partnerIndexMock{}
	_ solutionIndex  = &solutionIndexMock{}
	_ catalogReader  = &catalogReaderMock{}
	_ eventPublisher = &eventPublisherMock{}
	_ txManager      = &txManagerMock{}
)

type partnerRepoMock struct {
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Partner, error)
	CreateFunc       func(ctx context.Context, p *domain.Partner) (*domain.Partner, error)
	UpdateFunc       func(ctx context.Context, p *domain.Partner, clearTranslations bool) (*domain.Partner, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error)
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error

	mu    sync.RWMutex
	calls struct {
		Create []domain.Partner
		Update []struct {
			Partner           domain.Partner
			ClearTranslations bool
		}
		Delete []uuid.UUID
	}
}

func (m *partnerRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	if m.GetByIDFunc == nil {
		panic("partnerRepoMock.GetByIDFunc: method is nil but partnerRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *partnerRepoMock) Create(ctx context.Context, p *domain.Partner) (*domain.Partner, error) {
	if m.CreateFunc == nil {
		panic("partnerRepoMock.CreateFunc: method is nil but partnerRepo.Create was just called")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, *p)
	m.mu.Unlock()
	return m.CreateFunc(ctx, p)
}

func (m *partnerRepoMock) Update(ctx context.Context, p *domain.Partner, clearTranslations bool) (*domain.Partner, error) {
	if m.UpdateFunc == nil {
		panic("partnerRepoMock.UpdateFunc: method is nil but partnerRepo.Update was just called")
	}
	m.mu.Lock()
	m.calls.Update = append(m.calls.Update, struct {
		Partner           domain.Partner
		ClearTranslations bool
	}{*p, clearTranslations})
	m.mu.Unlock()
	return m.UpdateFunc(ctx, p, clearTranslations)
}

func (m *partnerRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PartnerStatus) (*domain.Partner, error) {
	if m.UpdateStatusFunc == nil {
		panic("partnerRepoMock.UpdateStatusFunc: method is nil but partnerRepo.UpdateStatus was just called")
	}
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *partnerRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("partnerRepoMock.DeleteFunc: method is nil but partnerRepo.Delete was just called")
	}
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, id)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, id)
}

func (m *partnerRepoMock) UpdateCalls() []struct {
	Partner           domain.Partner
	ClearTranslations bool
} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Update
}

func (m *partnerRepoMock) DeleteCalls() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Delete
}

type solutionRepoMock struct {
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Solution, error)
	ListFunc              func(ctx context.Context, eq map[string]string) ([]domain.Solution, error)
	UpdatePartnerNameFunc func(ctx context.Context, partnerID uuid.UUID, name string) (int64, error)

	mu    sync.RWMutex
	names []string
}

func (m *solutionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error) {
	if m.GetByIDFunc == nil {
		panic("solutionRepoMock.GetByIDFunc: method is nil but solutionRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *solutionRepoMock) List(ctx context.Context, eq map[string]string) ([]domain.Solution, error) {
	if m.ListFunc == nil {
		panic("solutionRepoMock.ListFunc: method is nil but solutionRepo.List was just called")
	}
	return m.ListFunc(ctx, eq)
}

func (m *solutionRepoMock) UpdatePartnerName(ctx context.Context, partnerID uuid.UUID, name string) (int64, error) {
	if m.UpdatePartnerNameFunc == nil {
		panic("solutionRepoMock.UpdatePartnerNameFunc: method is nil but solutionRepo.UpdatePartnerName was just called")
	}
	m.mu.Lock()
	m.names = append(m.names, name)
	m.mu.Unlock()
	return m.UpdatePartnerNameFunc(ctx, partnerID, name)
}

func (m *solutionRepoMock) UpdatePartnerNameCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.names
}

type ticketRepoMock struct {
	CreateFunc func(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error)

	mu    sync.RWMutex
	calls []domain.Ticket
}

func (m *ticketRepoMock) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	if m.CreateFunc == nil {
		panic("ticketRepoMock.CreateFunc: method is nil but ticketRepo.Create was just called")
	}
	m.mu.Lock()
	m.calls = append(m.calls, *t)
	m.mu.Unlock()
	return m.CreateFunc(ctx, t)
}

func (m *ticketRepoMock) CreateCalls() []domain.Ticket {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

type partnerIndexMock struct {
	mu      sync.RWMutex
	upserts []domain.Partner
	removed []uuid.UUID
}

func (m *partnerIndexMock) Upsert(_ context.Context, item domain.Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, item)
	return nil
}

func (m *partnerIndexMock) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
}

func (m *partnerIndexMock) UpsertCalls() []domain.Partner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}

func (m *partnerIndexMock) RemoveCalls() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.removed
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

type catalogReaderMock struct {
	ListFunc func(ctx context.Context, p domain.Principal, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Partner]], error)
	GetFunc  func(ctx context.Context, p domain.Principal, id uuid.UUID, lang string) (domain.LocalizedView[domain.Partner], error)
}

func (m *catalogReaderMock) List(ctx context.Context, p domain.Principal, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Partner]], error) {
	if m.ListFunc == nil {
		panic("catalogReaderMock.ListFunc: method is nil but catalogReader.List was just called")
	}
	return m.ListFunc(ctx, p, q)
}

func (m *catalogReaderMock) Get(ctx context.Context, p domain.Principal, id uuid.UUID, lang string) (domain.LocalizedView[domain.Partner], error) {
	if m.GetFunc == nil {
		panic("catalogReaderMock.GetFunc: method is nil but catalogReader.Get was just called")
	}
	return m.GetFunc(ctx, p, id, lang)
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

type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
