package solution

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/events"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

var (
	_ solutionRepo   = &solutionRepoMock{}
	_ partnerRepo    = &partnerRepoMock{}
	_ ticketRepo     = &ticketRepoMock{}
	_ searchIndex    = &searchIndexMock{}
	_ catalogReader  = &catalogReaderMock{}
	_ eventPublisher = &eventPublisherMock{}
	_ txManager      = &txManagerMock{}
)

type solutionRepoMock struct {
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Solution, error)
	CreateFunc       func(ctx context.Context, s *domain.Solution) (*domain.Solution, error)
	UpdateFunc       func(ctx context.Context, s *domain.Solution, clearTranslations bool) (*domain.Solution, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error)
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error

	mu    sync.RWMutex
	calls struct {
		GetByID []uuid.UUID
		Create  []domain.Solution
		Update  []struct {
			Solution          domain.Solution
			ClearTranslations bool
		}
		UpdateStatus []domain.SolutionStatus
		Delete       []uuid.UUID
	}
}

func (m *solutionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error) {
	if m.GetByIDFunc == nil {
		panic("solutionRepoMock.GetByIDFunc: method is nil but solutionRepo.GetByID was just called")
	}
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, id)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, id)
}

func (m *solutionRepoMock) Create(ctx context.Context, s *domain.Solution) (*domain.Solution, error) {
	if m.CreateFunc == nil {
		panic("solutionRepoMock.CreateFunc: method is nil but solutionRepo.Create was just called")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, *s)
	m.mu.Unlock()
	return m.CreateFunc(ctx, s)
}

func (m *solutionRepoMock) Update(ctx context.Context, s *domain.Solution, clearTranslations bool) (*domain.Solution, error) {
	if m.UpdateFunc == nil {
		panic("solutionRepoMock.UpdateFunc: method is nil but solutionRepo.Update was just called")
	}
	m.mu.Lock()
	m.calls.Update = append(m.calls.Update, struct {
		Solution          domain.Solution
		ClearTranslations bool
	}{*s, clearTranslations})
	m.mu.Unlock()
	return m.UpdateFunc(ctx, s, clearTranslations)
}

func (m *solutionRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SolutionStatus) (*domain.Solution, error) {
	if m.UpdateStatusFunc == nil {
		panic("solutionRepoMock.UpdateStatusFunc: method is nil but solutionRepo.UpdateStatus was just called")
	}
	m.mu.Lock()
	m.calls.UpdateStatus = append(m.calls.UpdateStatus, status)
	m.mu.Unlock()
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *solutionRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("solutionRepoMock.DeleteFunc: method is nil but solutionRepo.Delete was just called")
	}
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, id)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, id)
}

func (m *solutionRepoMock) CreateCalls() []domain.Solution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Create
}

func (m *solutionRepoMock) UpdateCalls() []struct {
	Solution          domain.Solution
	ClearTranslations bool
} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Update
}

func (m *solutionRepoMock) DeleteCalls() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Delete
}

type partnerRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Partner, error)
}

func (m *partnerRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	if m.GetByIDFunc == nil {
		panic("partnerRepoMock.GetByIDFunc: method is nil but partnerRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
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

type searchIndexMock struct {
	UpsertFunc func(ctx context.Context, item domain.Solution) error
	RemoveFunc func(id uuid.UUID)

	mu    sync.RWMutex
	calls struct {
		Upsert []domain.Solution
		Remove []uuid.UUID
	}
}

func (m *searchIndexMock) Upsert(ctx context.Context, item domain.Solution) error {
	m.mu.Lock()
	m.calls.Upsert = append(m.calls.Upsert, item)
	m.mu.Unlock()
	if m.UpsertFunc == nil {
		return nil
	}
	return m.UpsertFunc(ctx, item)
}

func (m *searchIndexMock) Remove(id uuid.UUID) {
	m.mu.Lock()
	m.calls.Remove = append(m.calls.Remove, id)
	m.mu.Unlock()
	if m.RemoveFunc != nil {
		m.RemoveFunc(id)
	}
}

func (m *searchIndexMock) UpsertCalls() []domain.Solution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Upsert
}

func (m *searchIndexMock) RemoveCalls() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.Remove
}

type catalogReaderMock struct {
	ListFunc func(ctx context.Context, p domain.Principal, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Solution]], error)
	GetFunc  func(ctx context.Context, p domain.Principal, id uuid.UUID, lang string) (domain.LocalizedView[domain.Solution], error)
}

func (m *catalogReaderMock) List(ctx context.Context, p domain.Principal, q catalog.Query) (domain.Page[domain.LocalizedView[domain.Solution]], error) {
	if m.ListFunc == nil {
		panic("catalogReaderMock.ListFunc: method is nil but catalogReader.List was just called")
	}
	return m.ListFunc(ctx, p, q)
}

func (m *catalogReaderMock) Get(ctx context.Context, p domain.Principal, id uuid.UUID, lang string) (domain.LocalizedView[domain.Solution], error) {
	if m.GetFunc == nil {
		panic("catalogReaderMock.GetFunc: method is nil but catalogReader.Get was just called")
	}
	return m.GetFunc(ctx, p, id, lang)
}

type eventPublisherMock struct {
	PublishFunc func(ctx context.Context, e events.Event) error

	mu    sync.RWMutex
	calls []events.Event
}

func (m *eventPublisherMock) Publish(ctx context.Context, e events.Event) error {
	m.mu.Lock()
	m.calls = append(m.calls, e)
	m.mu.Unlock()
	if m.PublishFunc == nil {
		return nil
	}
	return m.PublishFunc(ctx, e)
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
