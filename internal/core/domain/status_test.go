package domain

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"draft to submitted", StatusDraft, StatusSubmitted, true},
		{"draft to cancelled", StatusDraft, StatusCancelled, true},
		{"draft to in_review skips submission", StatusDraft, StatusInReview, false},
		{"submitted to in_review", StatusSubmitted, StatusInReview, true},
		{"in_review to docs_pending", StatusInReview, StatusDocsPending, true},
		{"in_review to corrections_pending", StatusInReview, StatusCorrectionsPending, true},
		{"in_review to approved", StatusInReview, StatusApproved, true},
		{"in_review to disbursed skips approval", StatusInReview, StatusDisbursed, false},
		{"docs_pending back to in_review", StatusDocsPending, StatusInReview, true},
		{"docs_pending to approved", StatusDocsPending, StatusApproved, false},
		{"corrections_pending back to in_review", StatusCorrectionsPending, StatusInReview, true},
		{"approved to disbursed", StatusApproved, StatusDisbursed, true},
		{"approved to rejected", StatusApproved, StatusRejected, true},
		{"rejected is terminal", StatusRejected, StatusInReview, false},
		{"disbursed is terminal", StatusDisbursed, StatusRejected, false},
		{"cancelled is terminal", StatusCancelled, StatusSubmitted, false},
		{"self edge is not declared", StatusInReview, StatusInReview, false},
		{"unknown source", Status("UNKNOWN"), StatusInReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestRejectedReachableFromEveryNonTerminalStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		if s.IsTerminal() {
			continue
		}
		if !s.CanTransitionTo(StatusRejected) {
			t.Errorf("%s should allow transition to REJECTED", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusRejected:  true,
		StatusDisbursed: true,
		StatusCancelled: true,
	}
	for _, s := range AllStatuses() {
		if got := s.IsTerminal(); got != terminal[s] {
			t.Errorf("%s.IsTerminal() = %v, want %v", s, got, terminal[s])
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []Status{"", "draft", "PENDING", "APPROVED "} {
		if s.IsValid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

func TestIsBlocked(t *testing.T) {
	blocked := map[Status]bool{
		StatusDocsPending:        true,
		StatusCorrectionsPending: true,
	}
	for _, s := range AllStatuses() {
		if got := s.IsBlocked(); got != blocked[s] {
			t.Errorf("%s.IsBlocked() = %v, want %v", s, got, blocked[s])
		}
	}
}

func TestDecisionPreconditionsFollowTransitionTable(t *testing.T) {
	for _, s := range AllStatuses() {
		if got, want := s.CanBeApproved(), s.CanTransitionTo(StatusApproved); got != want {
			t.Errorf("%s.CanBeApproved() = %v, want %v", s, got, want)
		}
		if got, want := s.CanBeRejected(), s.CanTransitionTo(StatusRejected); got != want {
			t.Errorf("%s.CanBeRejected() = %v, want %v", s, got, want)
		}
	}

	// Blocked statuses must clear outstanding items before approval.
	if StatusDocsPending.CanBeApproved() {
		t.Error("DOCS_PENDING should not be approvable")
	}
	if StatusCorrectionsPending.CanBeApproved() {
		t.Error("CORRECTIONS_PENDING should not be approvable")
	}
	if !StatusInReview.CanBeApproved() {
		t.Error("IN_REVIEW should be approvable")
	}
}
