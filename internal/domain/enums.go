package domain

// SolutionStatus is the lifecycle state of a Solution.
type SolutionStatus string

const (
	SolutionStatusDraft    SolutionStatus = "DRAFT"
	SolutionStatusProposed SolutionStatus = "PROPOSED"
	SolutionStatusApproved SolutionStatus = "APPROVED"
	SolutionStatusMature   SolutionStatus = "MATURE"
	SolutionStatusRejected SolutionStatus = "REJECTED"
)

func (s SolutionStatus) String() string { return string(s) }

func (s SolutionStatus) IsValid() bool {
	switch s {
	case SolutionStatusDraft, SolutionStatusProposed, SolutionStatusApproved,
		SolutionStatusMature, SolutionStatusRejected:
		return true
	}
	return false
}

// PartnerStatus is the lifecycle state of a Partner.
type PartnerStatus string

const (
	PartnerStatusProposed PartnerStatus = "PROPOSED"
	PartnerStatusApproved PartnerStatus = "APPROVED"
	PartnerStatusMature   PartnerStatus = "MATURE"
	PartnerStatusRejected PartnerStatus = "REJECTED"
)

func (s PartnerStatus) String() string { return string(s) }

func (s PartnerStatus) IsValid() bool {
	switch s {
	case PartnerStatusProposed, PartnerStatusApproved, PartnerStatusMature, PartnerStatusRejected:
		return true
	}
	return false
}

// PartnerEntityType classifies the organization behind a Partner.
type PartnerEntityType string

const (
	PartnerEntityNGO        PartnerEntityType = "NGO"
	PartnerEntityCorporate  PartnerEntityType = "CORPORATE"
	PartnerEntityGovernment PartnerEntityType = "GOVERNMENT"
	PartnerEntityAcademic   PartnerEntityType = "ACADEMIC"
	PartnerEntityOther      PartnerEntityType = "OTHER"
)

func (t PartnerEntityType) String() string { return string(t) }

func (t PartnerEntityType) IsValid() bool {
	switch t {
	case PartnerEntityNGO, PartnerEntityCorporate, PartnerEntityGovernment,
		PartnerEntityAcademic, PartnerEntityOther:
		return true
	}
	return false
}

// TicketType identifies the workflow a ticket belongs to.
type TicketType string

const (
	TicketTypeSolutionApproval TicketType = "SOLUTION_APPROVAL"
	TicketTypePartnerApproval  TicketType = "PARTNER_APPROVAL"
)

func (t TicketType) String() string { return string(t) }

func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeSolutionApproval, TicketTypePartnerApproval:
		return true
	}
	return false
}

// TicketStatus is the lifecycle state of a Ticket.
type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "NEW"
	TicketStatusInReview TicketStatus = "IN_REVIEW"
	TicketStatusResolved TicketStatus = "RESOLVED"
	TicketStatusRejected TicketStatus = "REJECTED"
)

func (s TicketStatus) String() string { return string(s) }

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInReview, TicketStatusResolved, TicketStatusRejected:
		return true
	}
	return false
}

// IsClosed reports whether no further decision can be taken on the ticket.
func (s TicketStatus) IsClosed() bool {
	return s == TicketStatusResolved || s == TicketStatusRejected
}

// UserRole defines the access level of a user.
type UserRole string

const (
	UserRoleRegular    UserRole = "REGULAR"
	UserRoleICPSupport UserRole = "ICP_SUPPORT"
	UserRoleAdmin      UserRole = "ADMIN"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleRegular, UserRoleICPSupport, UserRoleAdmin:
		return true
	}
	return false
}

// IsModerator reports whether the role bypasses ownership and visibility rules.
func (r UserRole) IsModerator() bool {
	return r == UserRoleAdmin || r == UserRoleICPSupport
}

// AssociationStatus is the state of a User↔Partner association request.
type AssociationStatus string

const (
	AssociationPending  AssociationStatus = "PENDING"
	AssociationApproved AssociationStatus = "APPROVED"
	AssociationRejected AssociationStatus = "REJECTED"
)

func (s AssociationStatus) String() string { return string(s) }

func (s AssociationStatus) IsValid() bool {
	switch s {
	case AssociationPending, AssociationApproved, AssociationRejected:
		return true
	}
	return false
}

// SearchMode selects the search engine used for a free-text query.
type SearchMode string

const (
	SearchModeSemantic SearchMode = "semantic"
	SearchModeFuzzy    SearchMode = "fuzzy"
)

func (m SearchMode) String() string { return string(m) }

func (m SearchMode) IsValid() bool {
	return m == SearchModeSemantic || m == SearchModeFuzzy
}

// Decision is a moderator verdict on a ticket.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

func (d Decision) String() string { return string(d) }

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}
