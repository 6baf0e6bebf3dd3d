package postgres

import (
	"errors"
	"testing"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

func TestApplyEq(t *testing.T) {
	t.Parallel()

	columns := map[string]string{"status": "status", "proposedByUserId": "proposed_by_user_id"}
	base := Builder().Select("id").From("solutions")

	b, err := ApplyEq(base, map[string]string{"status": "MATURE", "proposedByUserId": "u1"}, columns)
	if err != nil {
		t.Fatalf("ApplyEq: %v", err)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if want := "SELECT id FROM solutions WHERE proposed_by_user_id = $1 AND status = $2"; sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "MATURE" {
		t.Errorf("args = %v", args)
	}
}

func TestApplyEq_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := ApplyEq(Builder().Select("id").From("solutions"), map[string]string{"color": "red"}, map[string]string{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestApplyEq_Empty(t *testing.T) {
	t.Parallel()

	b, err := ApplyEq(Builder().Select("id").From("tickets"), nil, nil)
	if err != nil {
		t.Fatalf("ApplyEq: %v", err)
	}
	sql, _, _ := b.ToSql()
	if sql != "SELECT id FROM tickets" {
		t.Errorf("sql = %q", sql)
	}
}
