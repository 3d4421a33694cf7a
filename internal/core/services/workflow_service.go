package services

import (
	"context"
	"encoding/json"
	"time"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Actor identifies who performs a workflow operation. It is threaded
// explicitly into every engine call; the engine never reads request state.
type Actor struct {
	ID   uint
	Name string
	Type domain.ActorType
}

// VerifyAction is the action applied to a checklist entry
type VerifyAction string

const (
	ActionVerify   VerifyAction = "verify"
	ActionReject   VerifyAction = "reject"
	ActionUnverify VerifyAction = "unverify"
)

// WorkflowService owns the application status state machine, the
// verification checklist and the auto-advance decision procedure. Every
// operation runs inside one store transaction: the state mutation and its
// audit entry commit atomically.
type WorkflowService struct {
	store         repositories.WorkflowStore
	notifyService *NotificationService
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(store repositories.WorkflowStore, notifyService *NotificationService) *WorkflowService {
	return &WorkflowService{
		store:         store,
		notifyService: notifyService,
	}
}

// historyEntry builds an audit row. meta is marshalled into the JSON
// metadata column; a nil meta leaves the column empty.
func historyEntry(appID uint, kind domain.EventKind, actor Actor, notes string, meta interface{}) *models.StatusHistory {
	entry := &models.StatusHistory{
		ApplicationID: appID,
		EventKind:     kind,
		ChangedBy:     actor.ID,
		ChangedByType: actor.Type,
		Notes:         notes,
	}
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	return entry
}

// transition moves app to target after validating the edge against the
// transition table, then appends the status_change audit entry. It never
// coerces an illegal edge to a nearby legal one.
func (s *WorkflowService) transition(ctx context.Context, store repositories.WorkflowStore, app *models.Application, target domain.Status, actor Actor, notes string, meta *domain.StatusChangeMeta) error {
	if !app.Status.CanTransitionTo(target) {
		return domain.NewInvalidTransition(app.Status, target)
	}

	from := app.Status
	app.Status = target
	if err := store.SaveApplication(ctx, app); err != nil {
		return err
	}

	entry := historyEntry(app.ID, domain.EventStatusChange, actor, notes, meta)
	entry.FromStatus = from
	entry.ToStatus = target
	return store.AppendHistory(ctx, entry)
}

// ChangeStatus moves an application to target if the transition table
// declares the edge
func (s *WorkflowService) ChangeStatus(ctx context.Context, tenantID, appID uint, target domain.Status, actor Actor, notes string) (*models.Application, error) {
	var app *models.Application
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		var err error
		app, err = store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		return s.transition(ctx, store, app, target, actor, notes, nil)
	})
	if err != nil {
		return nil, err
	}

	s.notifyService.NotifyStatusChanged(app, actor.Name)
	return app, nil
}

// ApproveInput carries optional overrides for the approved terms. Missing
// values fall back to the requested ones.
type ApproveInput struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	TermMonths *int             `json:"term_months,omitempty"`
	Rate       *decimal.Decimal `json:"rate,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// Approve records the approval decision and transitions the application
// to APPROVED
func (s *WorkflowService) Approve(ctx context.Context, tenantID, appID uint, input *ApproveInput, actor Actor) (*models.Application, error) {
	if input == nil {
		input = &ApproveInput{}
	}

	var app *models.Application
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		var err error
		app, err = store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}

		if !app.Status.CanBeApproved() {
			return domain.ErrNotApprovable
		}

		amount := app.RequestedAmount
		if input.Amount != nil {
			amount = *input.Amount
		}
		term := app.RequestedTermMonths
		if input.TermMonths != nil {
			term = *input.TermMonths
		}
		rate := app.RequestedRate
		if input.Rate != nil {
			rate = *input.Rate
		}

		now := time.Now()
		app.ApprovedAmount = &amount
		app.ApprovedTermMonths = &term
		app.ApprovedRate = &rate
		app.DecisionBy = &actor.ID
		app.DecisionAt = &now

		return s.transition(ctx, store, app, domain.StatusApproved, actor, input.Notes, nil)
	})
	if err != nil {
		return nil, err
	}

	s.notifyService.NotifyDecision(app, actor.Name)
	return app, nil
}

// Reject records the rejection decision and transitions the application
// to REJECTED
func (s *WorkflowService) Reject(ctx context.Context, tenantID, appID uint, reason, notes string, actor Actor) (*models.Application, error) {
	var app *models.Application
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		var err error
		app, err = store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}

		if !app.Status.CanBeRejected() {
			return domain.ErrNotRejectable
		}

		now := time.Now()
		app.RejectionReason = reason
		app.DecisionBy = &actor.ID
		app.DecisionAt = &now

		return s.transition(ctx, store, app, domain.StatusRejected, actor, notes,
			&domain.StatusChangeMeta{Reason: reason})
	})
	if err != nil {
		return nil, err
	}

	s.notifyService.NotifyDecision(app, actor.Name)
	return app, nil
}

// VerifyDataInput carries the checklist action details
type VerifyDataInput struct {
	Action          VerifyAction `json:"action"`
	Method          string       `json:"method,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	Notes           string       `json:"notes,omitempty"`
}

// VerifyData writes a checklist entry for field and applies the status
// coupling: rejecting a field moves the application to
// CORRECTIONS_PENDING when that edge is legal (field entry first, status
// change second); verifying a field attempts an auto-advance. The
// returned bool reports whether an auto-advance occurred.
func (s *WorkflowService) VerifyData(ctx context.Context, tenantID, appID uint, field string, input *VerifyDataInput, actor Actor) (*models.Application, bool, error) {
	var app *models.Application
	var advanced bool
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		var err error
		app, err = store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}

		if app.Checklist == nil {
			app.Checklist = domain.VerificationChecklist{}
		}

		now := time.Now()
		var entry domain.ChecklistEntry
		switch input.Action {
		case ActionVerify:
			entry = domain.ChecklistEntry{
				Status:     domain.VerificationVerified,
				Method:     input.Method,
				Notes:      input.Notes,
				VerifiedBy: &actor.ID,
				VerifiedAt: &now,
			}
		case ActionReject:
			entry = domain.ChecklistEntry{
				Status:          domain.VerificationRejected,
				Method:          input.Method,
				RejectionReason: input.RejectionReason,
				Notes:           input.Notes,
				VerifiedBy:      &actor.ID,
				VerifiedAt:      &now,
			}
		case ActionUnverify:
			entry = domain.ChecklistEntry{Status: domain.VerificationPending}
		default:
			return domain.ErrInvalidInput
		}

		app.Checklist[field] = entry
		if err := store.SaveApplication(ctx, app); err != nil {
			return err
		}

		if err := store.AppendHistory(ctx, historyEntry(app.ID, domain.EventFieldVerified, actor, input.Notes,
			&domain.FieldVerifiedMeta{
				Field:           field,
				Action:          string(input.Action),
				Method:          input.Method,
				RejectionReason: input.RejectionReason,
			})); err != nil {
			return err
		}

		switch input.Action {
		case ActionReject:
			if app.Status != domain.StatusCorrectionsPending &&
				app.Status.CanTransitionTo(domain.StatusCorrectionsPending) {
				return s.transition(ctx, store, app, domain.StatusCorrectionsPending, actor, "",
					&domain.StatusChangeMeta{Reason: "field " + field + " rejected"})
			}
		case ActionVerify:
			advanced, err = s.checkAndAdvance(ctx, store, app, actor)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if advanced {
		s.notifyService.NotifyStatusChanged(app, actor.Name)
	}
	return app, advanced, nil
}

// checkAndAdvance is the auto-advance decision procedure. It only applies
// to blocked statuses; outstanding rejected checklist entries or rejected
// or unreviewed documents abort. Pending checklist entries do not block:
// not every field requires manual sign-off. On success the application
// moves back to IN_REVIEW with an automatic-transition audit entry.
// Invoking it again with nothing outstanding is a no-op.
func (s *WorkflowService) checkAndAdvance(ctx context.Context, store repositories.WorkflowStore, app *models.Application, actor Actor) (bool, error) {
	if !app.Status.IsBlocked() {
		return false, nil
	}

	if app.Checklist.HasRejections() {
		return false, nil
	}

	docs, err := store.ListApplicationDocuments(ctx, app)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if doc.Status == models.DocumentStatusRejected || doc.Status == models.DocumentStatusPending {
			return false, nil
		}
	}

	if !app.Status.CanTransitionTo(domain.StatusInReview) {
		return false, nil
	}

	err = s.transition(ctx, store, app, domain.StatusInReview, actor, "",
		&domain.StatusChangeMeta{
			Action:  domain.AuditActionAutoAdvance,
			Trigger: domain.AuditTriggerVerificationsComplete,
		})
	if err != nil {
		return false, err
	}
	return true, nil
}

// CheckAndAdvance exposes the auto-advance procedure to callers that
// resolved outstanding items out of band
func (s *WorkflowService) CheckAndAdvance(ctx context.Context, tenantID, appID uint, actor Actor) (*models.Application, bool, error) {
	var app *models.Application
	var advanced bool
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		var err error
		app, err = store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		advanced, err = s.checkAndAdvance(ctx, store, app, actor)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return app, advanced, nil
}

// ApproveDocument marks a document approved and attempts an auto-advance
func (s *WorkflowService) ApproveDocument(ctx context.Context, tenantID, appID, docID uint, notes string, actor Actor) (*models.Document, bool, error) {
	var doc *models.Document
	var advanced bool
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		app, err := store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		doc, err = store.GetApplicationDocument(ctx, app, docID)
		if err != nil {
			return err
		}

		now := time.Now()
		doc.Status = models.DocumentStatusApproved
		doc.RejectionReason = ""
		doc.ReviewedBy = &actor.ID
		doc.ReviewedAt = &now
		if err := store.SaveDocument(ctx, doc); err != nil {
			return err
		}

		if err := store.AppendHistory(ctx, historyEntry(app.ID, domain.EventDocumentReviewed, actor, notes,
			&domain.DocumentReviewMeta{
				DocumentID:   doc.ID,
				DocumentType: doc.Type,
				Outcome:      models.DocumentStatusApproved,
			})); err != nil {
			return err
		}

		advanced, err = s.checkAndAdvance(ctx, store, app, actor)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return doc, advanced, nil
}

// RejectDocument marks a document rejected and moves the application to
// DOCS_PENDING when that edge is legal (document entry first, status
// change second)
func (s *WorkflowService) RejectDocument(ctx context.Context, tenantID, appID, docID uint, reason, notes string, actor Actor) (*models.Document, error) {
	var doc *models.Document
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		app, err := store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		doc, err = store.GetApplicationDocument(ctx, app, docID)
		if err != nil {
			return err
		}

		now := time.Now()
		doc.Status = models.DocumentStatusRejected
		doc.RejectionReason = reason
		doc.ReviewedBy = &actor.ID
		doc.ReviewedAt = &now
		if err := store.SaveDocument(ctx, doc); err != nil {
			return err
		}

		if err := store.AppendHistory(ctx, historyEntry(app.ID, domain.EventDocumentReviewed, actor, notes,
			&domain.DocumentReviewMeta{
				DocumentID:      doc.ID,
				DocumentType:    doc.Type,
				Outcome:         models.DocumentStatusRejected,
				RejectionReason: reason,
			})); err != nil {
			return err
		}

		if app.Status != domain.StatusDocsPending &&
			app.Status.CanTransitionTo(domain.StatusDocsPending) {
			return s.transition(ctx, store, app, domain.StatusDocsPending, actor, "",
				&domain.StatusChangeMeta{Reason: "document " + doc.Type + " rejected"})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UnapproveDocument resets a document to PENDING. Moving back to pending
// is never an advancing event, so no auto-advance runs.
func (s *WorkflowService) UnapproveDocument(ctx context.Context, tenantID, appID, docID uint, notes string, actor Actor) (*models.Document, error) {
	var doc *models.Document
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		app, err := store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		doc, err = store.GetApplicationDocument(ctx, app, docID)
		if err != nil {
			return err
		}

		doc.Status = models.DocumentStatusPending
		doc.RejectionReason = ""
		doc.ReviewedBy = nil
		doc.ReviewedAt = nil
		if err := store.SaveDocument(ctx, doc); err != nil {
			return err
		}

		return store.AppendHistory(ctx, historyEntry(app.ID, domain.EventDocumentReviewed, actor, notes,
			&domain.DocumentReviewMeta{
				DocumentID:   doc.ID,
				DocumentType: doc.Type,
				Outcome:      models.DocumentStatusPending,
			}))
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// VerifyReference records the outcome of a reference call. Reference
// verification does not touch the transition table; see DESIGN.md for the
// asymmetry with field and document review.
func (s *WorkflowService) VerifyReference(ctx context.Context, tenantID, appID, refID uint, outcome, notes string, actor Actor) (*models.Reference, error) {
	switch outcome {
	case models.ReferenceStatusVerified, models.ReferenceStatusRejected, models.ReferenceStatusUnreachable:
	default:
		return nil, domain.ErrInvalidInput
	}

	var ref *models.Reference
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		app, err := store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		if app.PersonID == nil {
			return domain.ErrReferenceNotFound
		}
		ref, err = store.GetPersonReference(ctx, *app.PersonID, refID)
		if err != nil {
			return err
		}

		now := time.Now()
		ref.Status = outcome
		ref.Notes = notes
		ref.VerifiedBy = &actor.ID
		ref.VerifiedAt = &now
		if err := store.SaveReference(ctx, ref); err != nil {
			return err
		}

		return store.AppendHistory(ctx, historyEntry(app.ID, domain.EventReferenceVerified, actor, notes,
			&domain.ReferenceVerifiedMeta{ReferenceID: ref.ID, Outcome: outcome}))
	})
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// VerifyBankAccount marks a bank account verified
func (s *WorkflowService) VerifyBankAccount(ctx context.Context, tenantID, appID, accountID uint, actor Actor) (*models.BankAccount, error) {
	return s.setBankAccountVerified(ctx, tenantID, appID, accountID, true, actor)
}

// UnverifyBankAccount clears the verified flag on a bank account
func (s *WorkflowService) UnverifyBankAccount(ctx context.Context, tenantID, appID, accountID uint, actor Actor) (*models.BankAccount, error) {
	return s.setBankAccountVerified(ctx, tenantID, appID, accountID, false, actor)
}

func (s *WorkflowService) setBankAccountVerified(ctx context.Context, tenantID, appID, accountID uint, verified bool, actor Actor) (*models.BankAccount, error) {
	var account *models.BankAccount
	err := s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		app, err := store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		if app.PersonID == nil {
			return domain.ErrBankAccountNotFound
		}
		account, err = store.GetPersonBankAccount(ctx, *app.PersonID, accountID)
		if err != nil {
			return err
		}

		account.IsVerified = verified
		if verified {
			now := time.Now()
			account.VerifiedBy = &actor.ID
			account.VerifiedAt = &now
		} else {
			account.VerifiedBy = nil
			account.VerifiedAt = nil
		}
		if err := store.SaveBankAccount(ctx, account); err != nil {
			return err
		}

		return store.AppendHistory(ctx, historyEntry(app.ID, domain.EventBankAccountVerified, actor, "",
			&domain.BankAccountVerifiedMeta{BankAccountID: account.ID, Verified: verified}))
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AddNote appends a note_added lifecycle entry. It records no status
// transition.
func (s *WorkflowService) AddNote(ctx context.Context, tenantID, appID uint, notes string, actor Actor) error {
	return s.store.InTx(ctx, func(store repositories.WorkflowStore) error {
		app, err := store.GetApplication(ctx, tenantID, appID)
		if err != nil {
			return err
		}
		return store.AppendHistory(ctx, historyEntry(app.ID, domain.EventNoteAdded, actor, notes, nil))
	})
}
