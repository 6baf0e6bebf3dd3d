package user

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListFunc            func(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	UpdateRoleFunc      func(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error)
	SaveCollectionsFunc func(ctx context.Context, u *domain.User, expectedVersion int) (*domain.User, error)

	mu    sync.RWMutex
	calls struct {
		GetByID []uuid.UUID
		List    []struct {
			Limit  int
			Offset int
		}
		UpdateRole      []domain.UserRole
		SaveCollections []int
	}
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, id)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	if m.ListFunc == nil {
		panic("userRepoMock.ListFunc: method is nil but userRepo.List was just called")
	}
	m.mu.Lock()
	m.calls.List = append(m.calls.List, struct {
		Limit  int
		Offset int
	}{limit, offset})
	m.mu.Unlock()
	return m.ListFunc(ctx, limit, offset)
}

func (m *userRepoMock) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	if m.UpdateRoleFunc == nil {
		panic("userRepoMock.UpdateRoleFunc: method is nil but userRepo.UpdateRole was just called")
	}
	m.mu.Lock()
	m.calls.UpdateRole = append(m.calls.UpdateRole, role)
	m.mu.Unlock()
	return m.UpdateRoleFunc(ctx, id, role)
}

func (m *userRepoMock) SaveCollections(ctx context.Context, u *domain.User, expectedVersion int) (*domain.User, error) {
	if m.SaveCollectionsFunc == nil {
		panic("userRepoMock.SaveCollectionsFunc: method is nil but userRepo.SaveCollections was just called")
	}
	m.mu.Lock()
	m.calls.SaveCollections = append(m.calls.SaveCollections, expectedVersion)
	m.mu.Unlock()
	return m.SaveCollectionsFunc(ctx, u, expectedVersion)
}

func (m *userRepoMock) GetByIDCalls() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.GetByID
}

func (m *userRepoMock) ListCalls() []struct {
	Limit  int
	Offset int
} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.List
}

func (m *userRepoMock) UpdateRoleCalls() []domain.UserRole {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.UpdateRole
}

func (m *userRepoMock) SaveCollectionsCalls() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls.SaveCollections
}
