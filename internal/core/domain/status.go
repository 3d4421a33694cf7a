package domain

// Status represents the lifecycle status of a loan application
type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusSubmitted          Status = "SUBMITTED"
	StatusInReview           Status = "IN_REVIEW"
	StatusDocsPending        Status = "DOCS_PENDING"
	StatusCorrectionsPending Status = "CORRECTIONS_PENDING"
	StatusApproved           Status = "APPROVED"
	StatusRejected           Status = "REJECTED"
	StatusDisbursed          Status = "DISBURSED"
	StatusCancelled          Status = "CANCELLED"
)

// statusTransitions is the single source of truth for legal status changes.
// REJECTED is reachable from every non-terminal status (staff-initiated).
var statusTransitions = map[Status][]Status{
	StatusDraft:              {StatusSubmitted, StatusCancelled, StatusRejected},
	StatusSubmitted:          {StatusInReview, StatusCancelled, StatusRejected},
	StatusInReview:           {StatusDocsPending, StatusCorrectionsPending, StatusApproved, StatusRejected},
	StatusDocsPending:        {StatusInReview, StatusRejected},
	StatusCorrectionsPending: {StatusInReview, StatusRejected},
	StatusApproved:           {StatusDisbursed, StatusRejected},
	StatusRejected:           {},
	StatusDisbursed:          {},
	StatusCancelled:          {},
}

// AllStatuses returns every declared status
func AllStatuses() []Status {
	return []Status{
		StatusDraft, StatusSubmitted, StatusInReview, StatusDocsPending,
		StatusCorrectionsPending, StatusApproved, StatusRejected,
		StatusDisbursed, StatusCancelled,
	}
}

// IsValid reports whether s is a member of the declared enumeration
func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions
func (s Status) IsTerminal() bool {
	targets, ok := statusTransitions[s]
	return ok && len(targets) == 0
}

// CanTransitionTo reports whether the edge (s, target) exists in the
// transition table
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsBlocked reports whether s is a state waiting on outstanding
// verification items
func (s Status) IsBlocked() bool {
	return s == StatusDocsPending || s == StatusCorrectionsPending
}

// CanBeApproved reports whether an application in status s may receive an
// approval decision. Blocked states must clear their outstanding items
// first; terminal and already-approved states never qualify.
func (s Status) CanBeApproved() bool {
	return s.CanTransitionTo(StatusApproved)
}

// CanBeRejected reports whether an application in status s may receive a
// rejection decision
func (s Status) CanBeRejected() bool {
	return s.CanTransitionTo(StatusRejected)
}
