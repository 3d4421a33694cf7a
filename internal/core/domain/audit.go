package domain

// EventKind classifies status history entries. Only EventStatusChange rows
// represent state-machine transitions; the rest are lifecycle events that
// share the same table.
type EventKind string

const (
	EventStatusChange        EventKind = "status_change"
	EventDocumentReviewed    EventKind = "document_reviewed"
	EventFieldVerified       EventKind = "field_verified"
	EventReferenceVerified   EventKind = "reference_verified"
	EventBankAccountVerified EventKind = "bank_account_verified"
	EventNoteAdded           EventKind = "note_added"
)

// ActorType is the polymorphic discriminator for "changed_by"
type ActorType string

const (
	ActorStaff     ActorType = "staff"
	ActorApplicant ActorType = "applicant"
	ActorSystem    ActorType = "system"
)

// Actions recorded in status-change metadata
const (
	AuditActionAutoAdvance = "auto_status_advance"

	AuditTriggerVerificationsComplete = "verifications_complete"
)

// StatusChangeMeta is the metadata payload of a status_change entry
type StatusChangeMeta struct {
	Action  string `json:"action,omitempty"`
	Trigger string `json:"trigger,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// DocumentReviewMeta is the metadata payload of a document_reviewed entry
type DocumentReviewMeta struct {
	DocumentID      uint   `json:"document_id"`
	DocumentType    string `json:"document_type"`
	Outcome         string `json:"outcome"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// FieldVerifiedMeta is the metadata payload of a field_verified entry
type FieldVerifiedMeta struct {
	Field           string `json:"field"`
	Action          string `json:"action"`
	Method          string `json:"method,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ReferenceVerifiedMeta is the metadata payload of a reference_verified entry
type ReferenceVerifiedMeta struct {
	ReferenceID uint   `json:"reference_id"`
	Outcome     string `json:"outcome"`
}

// BankAccountVerifiedMeta is the metadata payload of a
// bank_account_verified entry
type BankAccountVerifiedMeta struct {
	BankAccountID uint `json:"bank_account_id"`
	Verified      bool `json:"verified"`
}
