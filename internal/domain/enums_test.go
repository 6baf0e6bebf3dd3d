package domain

import "testing"

func TestSolutionStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status SolutionStatus
		want   bool
	}{
		{SolutionStatusDraft, true},
		{SolutionStatusProposed, true},
		{SolutionStatusApproved, true},
		{SolutionStatusMature, true},
		{SolutionStatusRejected, true},
		{SolutionStatus("NEW"), false},
		{SolutionStatus(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("SolutionStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPartnerStatus_IsValid(t *testing.T) {
	t.Parallel()

	if !PartnerStatusApproved.IsValid() {
		t.Error("APPROVED should be valid")
	}
	if PartnerStatus("DRAFT").IsValid() {
		t.Error("DRAFT is not a partner status")
	}
}

func TestUserRole_IsModerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role UserRole
		want bool
	}{
		{UserRoleAdmin, true},
		{UserRoleICPSupport, true},
		{UserRoleRegular, false},
		{UserRole(""), false},
	}
	for _, tt := range tests {
		if got := tt.role.IsModerator(); got != tt.want {
			t.Errorf("UserRole(%q).IsModerator() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestTicketStatus_IsClosed(t *testing.T) {
	t.Parallel()

	if TicketStatusNew.IsClosed() || TicketStatusInReview.IsClosed() {
		t.Error("open statuses reported closed")
	}
	if !TicketStatusResolved.IsClosed() || !TicketStatusRejected.IsClosed() {
		t.Error("closed statuses reported open")
	}
}

func TestSearchMode_IsValid(t *testing.T) {
	t.Parallel()

	if !SearchModeFuzzy.IsValid() || !SearchModeSemantic.IsValid() {
		t.Error("known modes should be valid")
	}
	if SearchMode("vector").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}
