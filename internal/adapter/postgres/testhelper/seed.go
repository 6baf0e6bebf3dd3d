package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a REGULAR user with a unique email.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	u := domain.User{
		ID:           uuid.New(),
		Email:        "testuser-" + suffix + "@example.com",
		Name:         "Test User " + suffix,
		PasswordHash: "not-a-real-hash",
		Role:         domain.UserRoleRegular,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, name, password_hash, role) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role.String(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return u
}

// SeedPartner inserts a partner owned by owner with the given status.
func SeedPartner(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, status domain.PartnerStatus) domain.Partner {
	t.Helper()

	p := domain.Partner{
		ID:               uuid.New(),
		OrganizationName: "Org " + uniqueSuffix(),
		EntityType:       domain.PartnerEntityNGO,
		Status:           status,
		ProposedByUserID: owner,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO partners (id, organization_name, entity_type, status, proposed_by_user_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.OrganizationName, p.EntityType.String(), p.Status.String(), p.ProposedByUserID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPartner: %v", err)
	}
	return p
}

// SeedSolution inserts a solution owned by owner with the given status.
func SeedSolution(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, status domain.SolutionStatus) domain.Solution {
	t.Helper()

	s := domain.Solution{
		ID:               uuid.New(),
		Name:             "Solution " + uniqueSuffix(),
		Summary:          "summary",
		Domain:           "energy",
		Status:           status,
		ProposedByUserID: owner,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO solutions (id, name, summary, domain, status, proposed_by_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Summary, s.Domain, s.Status.String(), s.ProposedByUserID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSolution: %v", err)
	}
	return s
}
