package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/core/domain"

	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory WorkflowStore. InTx runs fn against the
// store itself; atomicity is the real store's concern.
type fakeStore struct {
	app      *models.Application
	docs     []*models.Document
	refs     []*models.Reference
	accounts []*models.BankAccount
	history  []*models.StatusHistory
}

func (f *fakeStore) InTx(ctx context.Context, fn func(repositories.WorkflowStore) error) error {
	return fn(f)
}

func (f *fakeStore) GetApplication(ctx context.Context, tenantID, id uint) (*models.Application, error) {
	if f.app == nil || f.app.TenantID != tenantID || f.app.ID != id {
		return nil, domain.ErrApplicationNotFound
	}
	return f.app, nil
}

func (f *fakeStore) SaveApplication(ctx context.Context, app *models.Application) error {
	f.app = app
	return nil
}

func (f *fakeStore) ListApplicationDocuments(ctx context.Context, app *models.Application) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.docs {
		if !d.IsReplaced() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) GetApplicationDocument(ctx context.Context, app *models.Application, docID uint) (*models.Document, error) {
	for _, d := range f.docs {
		if d.ID == docID && !d.IsReplaced() {
			return d, nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

func (f *fakeStore) SaveDocument(ctx context.Context, doc *models.Document) error {
	for i, d := range f.docs {
		if d.ID == doc.ID {
			f.docs[i] = doc
			return nil
		}
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeStore) AppendHistory(ctx context.Context, entry *models.StatusHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeStore) GetPersonReference(ctx context.Context, personID, refID uint) (*models.Reference, error) {
	for _, r := range f.refs {
		if r.ID == refID && r.PersonID == personID {
			return r, nil
		}
	}
	return nil, domain.ErrReferenceNotFound
}

func (f *fakeStore) SaveReference(ctx context.Context, ref *models.Reference) error {
	return nil
}

func (f *fakeStore) GetPersonBankAccount(ctx context.Context, personID, accountID uint) (*models.BankAccount, error) {
	for _, a := range f.accounts {
		if a.ID == accountID && a.PersonID == personID {
			return a, nil
		}
	}
	return nil, domain.ErrBankAccountNotFound
}

func (f *fakeStore) SaveBankAccount(ctx context.Context, account *models.BankAccount) error {
	return nil
}

var testActor = Actor{ID: 7, Name: "Ana Torres", Type: domain.ActorStaff}

func newTestApp(status domain.Status) *models.Application {
	personID := uint(1)
	return &models.Application{
		ID:                  10,
		TenantID:            1,
		Folio:               "PC-TEST0001",
		PersonID:            &personID,
		Status:              status,
		Checklist:           domain.VerificationChecklist{},
		RequestedAmount:     decimal.NewFromInt(50000),
		RequestedTermMonths: 12,
		RequestedRate:       decimal.NewFromFloat(24.5),
	}
}

func newEngine(store *fakeStore) *WorkflowService {
	// nil notification service: IsEnabled is nil-safe and every Notify
	// method no-ops.
	return NewWorkflowService(store, nil)
}

func lastEntry(t *testing.T, store *fakeStore) *models.StatusHistory {
	t.Helper()
	if len(store.history) == 0 {
		t.Fatal("no history entries written")
	}
	return store.history[len(store.history)-1]
}

func TestChangeStatusLegalEdge(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusSubmitted)}
	svc := newEngine(store)

	app, err := svc.ChangeStatus(context.Background(), 1, 10, domain.StatusInReview, testActor, "starting review")
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if app.Status != domain.StatusInReview {
		t.Errorf("status = %s, want IN_REVIEW", app.Status)
	}

	entry := lastEntry(t, store)
	if entry.EventKind != domain.EventStatusChange {
		t.Errorf("event kind = %s", entry.EventKind)
	}
	if entry.FromStatus != domain.StatusSubmitted || entry.ToStatus != domain.StatusInReview {
		t.Errorf("edge recorded = (%s, %s)", entry.FromStatus, entry.ToStatus)
	}
	if entry.ChangedBy != testActor.ID || entry.ChangedByType != domain.ActorStaff {
		t.Errorf("actor recorded = (%d, %s)", entry.ChangedBy, entry.ChangedByType)
	}
}

func TestChangeStatusIllegalEdge(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	_, err := svc.ChangeStatus(context.Background(), 1, 10, domain.StatusDisbursed, testActor, "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	var transitionErr *domain.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatal("err should carry the rejected edge")
	}
	if transitionErr.From != domain.StatusInReview || transitionErr.To != domain.StatusDisbursed {
		t.Errorf("edge = (%s, %s)", transitionErr.From, transitionErr.To)
	}

	// The application and the audit trail are untouched.
	if store.app.Status != domain.StatusInReview {
		t.Errorf("status mutated to %s on failed transition", store.app.Status)
	}
	if len(store.history) != 0 {
		t.Errorf("%d history entries written on failed transition", len(store.history))
	}
}

func TestDisbursementRequiresApproval(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusApproved)}
	svc := newEngine(store)

	app, err := svc.ChangeStatus(context.Background(), 1, 10, domain.StatusDisbursed, testActor, "")
	if err != nil {
		t.Fatalf("APPROVED -> DISBURSED should be legal: %v", err)
	}
	if app.Status != domain.StatusDisbursed {
		t.Errorf("status = %s", app.Status)
	}
}

func TestApproveDefaultsToRequestedTerms(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	app, err := svc.Approve(context.Background(), 1, 10, &ApproveInput{}, testActor)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if app.Status != domain.StatusApproved {
		t.Errorf("status = %s", app.Status)
	}
	if app.ApprovedAmount == nil || !app.ApprovedAmount.Equal(app.RequestedAmount) {
		t.Errorf("approved amount = %v, want requested %v", app.ApprovedAmount, app.RequestedAmount)
	}
	if app.ApprovedTermMonths == nil || *app.ApprovedTermMonths != app.RequestedTermMonths {
		t.Errorf("approved term = %v", app.ApprovedTermMonths)
	}
	if app.ApprovedRate == nil || !app.ApprovedRate.Equal(app.RequestedRate) {
		t.Errorf("approved rate = %v", app.ApprovedRate)
	}
	if app.DecisionBy == nil || *app.DecisionBy != testActor.ID {
		t.Errorf("decision by = %v", app.DecisionBy)
	}
	if app.DecisionAt == nil {
		t.Error("decision at not set")
	}
}

func TestApproveNilInputUsesRequestedTerms(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	app, err := svc.Approve(context.Background(), 1, 10, nil, testActor)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if app.Status != domain.StatusApproved {
		t.Errorf("status = %s", app.Status)
	}
	if app.ApprovedAmount == nil || !app.ApprovedAmount.Equal(app.RequestedAmount) {
		t.Errorf("approved amount = %v, want requested %v", app.ApprovedAmount, app.RequestedAmount)
	}
}

func TestApproveWithOverrides(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	amount := decimal.NewFromInt(40000)
	term := 18
	app, err := svc.Approve(context.Background(), 1, 10, &ApproveInput{
		Amount:     &amount,
		TermMonths: &term,
	}, testActor)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if !app.ApprovedAmount.Equal(amount) {
		t.Errorf("approved amount = %v, want %v", app.ApprovedAmount, amount)
	}
	if *app.ApprovedTermMonths != term {
		t.Errorf("approved term = %d, want %d", *app.ApprovedTermMonths, term)
	}
	// Rate was not overridden; falls back to requested.
	if !app.ApprovedRate.Equal(app.RequestedRate) {
		t.Errorf("approved rate = %v", app.ApprovedRate)
	}
}

func TestApproveBlockedStatus(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusDraft,
		domain.StatusDocsPending,
		domain.StatusCorrectionsPending,
		domain.StatusApproved,
		domain.StatusRejected,
	} {
		store := &fakeStore{app: newTestApp(status)}
		svc := newEngine(store)

		_, err := svc.Approve(context.Background(), 1, 10, &ApproveInput{}, testActor)
		if !errors.Is(err, domain.ErrNotApprovable) {
			t.Errorf("Approve from %s: err = %v, want ErrNotApprovable", status, err)
		}
	}
}

func TestReject(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusDocsPending)}
	svc := newEngine(store)

	app, err := svc.Reject(context.Background(), 1, 10, "income below policy", "", testActor)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if app.Status != domain.StatusRejected {
		t.Errorf("status = %s", app.Status)
	}
	if app.RejectionReason != "income below policy" {
		t.Errorf("reason = %q", app.RejectionReason)
	}

	entry := lastEntry(t, store)
	var meta domain.StatusChangeMeta
	if err := json.Unmarshal(entry.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Reason != "income below policy" {
		t.Errorf("metadata reason = %q", meta.Reason)
	}
}

func TestRejectTerminalStatus(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusCancelled)}
	svc := newEngine(store)

	_, err := svc.Reject(context.Background(), 1, 10, "reason", "", testActor)
	if !errors.Is(err, domain.ErrNotRejectable) {
		t.Errorf("err = %v, want ErrNotRejectable", err)
	}
}

func TestVerifyDataVerifyField(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	app, advanced, err := svc.VerifyData(context.Background(), 1, 10, domain.FieldIdentity,
		&VerifyDataInput{Action: ActionVerify, Method: "ine_scan"}, testActor)
	if err != nil {
		t.Fatalf("VerifyData: %v", err)
	}
	if advanced {
		t.Error("IN_REVIEW is not blocked; verify must not auto-advance")
	}

	entry := app.Checklist[domain.FieldIdentity]
	if entry.Status != domain.VerificationVerified {
		t.Errorf("checklist status = %s", entry.Status)
	}
	if entry.Method != "ine_scan" {
		t.Errorf("method = %q", entry.Method)
	}
	if entry.VerifiedBy == nil || *entry.VerifiedBy != testActor.ID {
		t.Errorf("verified by = %v", entry.VerifiedBy)
	}
	if entry.VerifiedAt == nil {
		t.Error("verified at not set")
	}

	audit := lastEntry(t, store)
	if audit.EventKind != domain.EventFieldVerified {
		t.Errorf("event kind = %s", audit.EventKind)
	}
}

func TestVerifyDataRejectFieldMovesToCorrectionsPending(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	app, _, err := svc.VerifyData(context.Background(), 1, 10, domain.FieldAddress,
		&VerifyDataInput{Action: ActionReject, RejectionReason: "proof outdated"}, testActor)
	if err != nil {
		t.Fatalf("VerifyData: %v", err)
	}

	if app.Status != domain.StatusCorrectionsPending {
		t.Errorf("status = %s, want CORRECTIONS_PENDING", app.Status)
	}
	if app.Checklist[domain.FieldAddress].Status != domain.VerificationRejected {
		t.Errorf("checklist entry = %+v", app.Checklist[domain.FieldAddress])
	}

	// Two audit entries in order: the field rejection first, then the
	// induced status change.
	if len(store.history) != 2 {
		t.Fatalf("%d history entries, want 2", len(store.history))
	}
	if store.history[0].EventKind != domain.EventFieldVerified {
		t.Errorf("first entry = %s", store.history[0].EventKind)
	}
	if store.history[1].EventKind != domain.EventStatusChange {
		t.Errorf("second entry = %s", store.history[1].EventKind)
	}
	if store.history[1].ToStatus != domain.StatusCorrectionsPending {
		t.Errorf("induced transition to %s", store.history[1].ToStatus)
	}
}

func TestVerifyDataRejectAlreadyCorrectionsPending(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusCorrectionsPending)}
	svc := newEngine(store)

	app, _, err := svc.VerifyData(context.Background(), 1, 10, domain.FieldIncome,
		&VerifyDataInput{Action: ActionReject, RejectionReason: "missing payslips"}, testActor)
	if err != nil {
		t.Fatalf("VerifyData: %v", err)
	}

	if app.Status != domain.StatusCorrectionsPending {
		t.Errorf("status = %s", app.Status)
	}
	// No induced status change, only the field entry.
	if len(store.history) != 1 {
		t.Errorf("%d history entries, want 1", len(store.history))
	}
}

func TestVerifyDataUnverifyResetsEntry(t *testing.T) {
	app := newTestApp(domain.StatusInReview)
	staffID := uint(2)
	app.Checklist[domain.FieldCURP] = domain.ChecklistEntry{
		Status:     domain.VerificationVerified,
		Method:     "renapo",
		VerifiedBy: &staffID,
	}
	store := &fakeStore{app: app}
	svc := newEngine(store)

	got, _, err := svc.VerifyData(context.Background(), 1, 10, domain.FieldCURP,
		&VerifyDataInput{Action: ActionUnverify}, testActor)
	if err != nil {
		t.Fatalf("VerifyData: %v", err)
	}

	entry := got.Checklist[domain.FieldCURP]
	if entry.Status != domain.VerificationPending {
		t.Errorf("status = %s, want pending", entry.Status)
	}
	if entry.Method != "" || entry.VerifiedBy != nil || entry.VerifiedAt != nil {
		t.Errorf("entry not reset: %+v", entry)
	}
}

func TestVerifyDataInvalidAction(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	_, _, err := svc.VerifyData(context.Background(), 1, 10, domain.FieldIdentity,
		&VerifyDataInput{Action: "approve"}, testActor)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAutoAdvanceFromCorrectionsPending(t *testing.T) {
	app := newTestApp(domain.StatusCorrectionsPending)
	app.Checklist[domain.FieldIdentity] = domain.ChecklistEntry{Status: domain.VerificationRejected}
	store := &fakeStore{app: app}
	svc := newEngine(store)

	// Re-verifying the last rejected field clears the block and advances.
	got, advanced, err := svc.VerifyData(context.Background(), 1, 10, domain.FieldIdentity,
		&VerifyDataInput{Action: ActionVerify, Method: "ine_scan"}, testActor)
	if err != nil {
		t.Fatalf("VerifyData: %v", err)
	}
	if !advanced {
		t.Fatal("expected auto-advance")
	}
	if got.Status != domain.StatusInReview {
		t.Errorf("status = %s, want IN_REVIEW", got.Status)
	}

	// The automatic transition entry is attributed and machine-tagged.
	entry := lastEntry(t, store)
	if entry.EventKind != domain.EventStatusChange {
		t.Fatalf("last entry = %s", entry.EventKind)
	}
	var meta domain.StatusChangeMeta
	if err := json.Unmarshal(entry.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.Action != domain.AuditActionAutoAdvance {
		t.Errorf("action = %q", meta.Action)
	}
	if meta.Trigger != domain.AuditTriggerVerificationsComplete {
		t.Errorf("trigger = %q", meta.Trigger)
	}
}

func TestAutoAdvanceBlockedByRemainingRejection(t *testing.T) {
	app := newTestApp(domain.StatusCorrectionsPending)
	app.Checklist[domain.FieldIdentity] = domain.ChecklistEntry{Status: domain.VerificationRejected}
	app.Checklist[domain.FieldIncome] = domain.ChecklistEntry{Status: domain.VerificationRejected}
	store := &fakeStore{app: app}
	svc := newEngine(store)

	got, advanced, err := svc.VerifyData(context.Background(), 1, 10, domain.FieldIdentity,
		&VerifyDataInput{Action: ActionVerify}, testActor)
	if err != nil {
		t.Fatalf("VerifyData: %v", err)
	}
	if advanced {
		t.Error("should not advance: income still rejected")
	}
	if got.Status != domain.StatusCorrectionsPending {
		t.Errorf("status = %s", got.Status)
	}
}

func TestAutoAdvanceBlockedByPendingDocument(t *testing.T) {
	app := newTestApp(domain.StatusDocsPending)
	store := &fakeStore{
		app: app,
		docs: []*models.Document{
			{ID: 1, Type: "ine", Status: models.DocumentStatusApproved},
			{ID: 2, Type: "payslip", Status: models.DocumentStatusPending},
		},
	}
	svc := newEngine(store)

	_, advanced, err := svc.CheckAndAdvance(context.Background(), 1, 10, testActor)
	if err != nil {
		t.Fatalf("CheckAndAdvance: %v", err)
	}
	if advanced {
		t.Error("should not advance with a pending document")
	}
}

func TestAutoAdvanceIgnoresReplacedDocuments(t *testing.T) {
	replacement := uint(3)
	app := newTestApp(domain.StatusDocsPending)
	store := &fakeStore{
		app: app,
		docs: []*models.Document{
			// Old rejected version, superseded; must not block.
			{ID: 2, Type: "payslip", Status: models.DocumentStatusRejected, ReplacedByID: &replacement},
			{ID: 3, Type: "payslip", Status: models.DocumentStatusApproved},
		},
	}
	svc := newEngine(store)

	got, advanced, err := svc.CheckAndAdvance(context.Background(), 1, 10, testActor)
	if err != nil {
		t.Fatalf("CheckAndAdvance: %v", err)
	}
	if !advanced {
		t.Fatal("expected auto-advance: only the live version counts")
	}
	if got.Status != domain.StatusInReview {
		t.Errorf("status = %s", got.Status)
	}
}

func TestCheckAndAdvanceNotBlockedStatus(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	_, advanced, err := svc.CheckAndAdvance(context.Background(), 1, 10, testActor)
	if err != nil {
		t.Fatalf("CheckAndAdvance: %v", err)
	}
	if advanced {
		t.Error("IN_REVIEW is not blocked; nothing to advance")
	}
	if len(store.history) != 0 {
		t.Errorf("%d history entries written by a no-op", len(store.history))
	}
}

func TestCheckAndAdvanceIdempotent(t *testing.T) {
	app := newTestApp(domain.StatusDocsPending)
	store := &fakeStore{
		app:  app,
		docs: []*models.Document{{ID: 1, Type: "ine", Status: models.DocumentStatusApproved}},
	}
	svc := newEngine(store)

	_, advanced, err := svc.CheckAndAdvance(context.Background(), 1, 10, testActor)
	if err != nil || !advanced {
		t.Fatalf("first call: advanced=%v err=%v", advanced, err)
	}

	_, advanced, err = svc.CheckAndAdvance(context.Background(), 1, 10, testActor)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if advanced {
		t.Error("second call must be a no-op")
	}
}

func TestApproveLastDocumentAdvances(t *testing.T) {
	app := newTestApp(domain.StatusDocsPending)
	store := &fakeStore{
		app: app,
		docs: []*models.Document{
			{ID: 1, Type: "ine", Status: models.DocumentStatusApproved},
			{ID: 2, Type: "payslip", Status: models.DocumentStatusPending},
		},
	}
	svc := newEngine(store)

	doc, advanced, err := svc.ApproveDocument(context.Background(), 1, 10, 2, "", testActor)
	if err != nil {
		t.Fatalf("ApproveDocument: %v", err)
	}
	if doc.Status != models.DocumentStatusApproved {
		t.Errorf("doc status = %s", doc.Status)
	}
	if doc.ReviewedBy == nil || *doc.ReviewedBy != testActor.ID {
		t.Errorf("reviewed by = %v", doc.ReviewedBy)
	}
	if !advanced {
		t.Error("approving the last pending document should advance")
	}
	if store.app.Status != domain.StatusInReview {
		t.Errorf("status = %s", store.app.Status)
	}
}

func TestApproveDocumentDoesNotAdvanceWithOthersPending(t *testing.T) {
	app := newTestApp(domain.StatusDocsPending)
	store := &fakeStore{
		app: app,
		docs: []*models.Document{
			{ID: 1, Type: "ine", Status: models.DocumentStatusPending},
			{ID: 2, Type: "payslip", Status: models.DocumentStatusPending},
		},
	}
	svc := newEngine(store)

	_, advanced, err := svc.ApproveDocument(context.Background(), 1, 10, 1, "", testActor)
	if err != nil {
		t.Fatalf("ApproveDocument: %v", err)
	}
	if advanced {
		t.Error("payslip still pending; must not advance")
	}
	if store.app.Status != domain.StatusDocsPending {
		t.Errorf("status = %s", store.app.Status)
	}
}

func TestRejectDocumentMovesToDocsPending(t *testing.T) {
	app := newTestApp(domain.StatusInReview)
	store := &fakeStore{
		app:  app,
		docs: []*models.Document{{ID: 1, Type: "ine", Status: models.DocumentStatusPending}},
	}
	svc := newEngine(store)

	doc, err := svc.RejectDocument(context.Background(), 1, 10, 1, "illegible scan", "", testActor)
	if err != nil {
		t.Fatalf("RejectDocument: %v", err)
	}
	if doc.Status != models.DocumentStatusRejected {
		t.Errorf("doc status = %s", doc.Status)
	}
	if doc.RejectionReason != "illegible scan" {
		t.Errorf("reason = %q", doc.RejectionReason)
	}
	if store.app.Status != domain.StatusDocsPending {
		t.Errorf("status = %s, want DOCS_PENDING", store.app.Status)
	}

	// Document review entry first, induced status change second.
	if len(store.history) != 2 {
		t.Fatalf("%d history entries, want 2", len(store.history))
	}
	if store.history[0].EventKind != domain.EventDocumentReviewed {
		t.Errorf("first entry = %s", store.history[0].EventKind)
	}
	if store.history[1].ToStatus != domain.StatusDocsPending {
		t.Errorf("induced transition to %s", store.history[1].ToStatus)
	}
}

func TestRejectDocumentAlreadyDocsPending(t *testing.T) {
	app := newTestApp(domain.StatusDocsPending)
	store := &fakeStore{
		app:  app,
		docs: []*models.Document{{ID: 1, Type: "ine", Status: models.DocumentStatusPending}},
	}
	svc := newEngine(store)

	if _, err := svc.RejectDocument(context.Background(), 1, 10, 1, "blurry", "", testActor); err != nil {
		t.Fatalf("RejectDocument: %v", err)
	}
	if store.app.Status != domain.StatusDocsPending {
		t.Errorf("status = %s", store.app.Status)
	}
	if len(store.history) != 1 {
		t.Errorf("%d history entries, want 1 (no induced transition)", len(store.history))
	}
}

func TestUnapproveDocumentNoAdvance(t *testing.T) {
	staffID := uint(2)
	app := newTestApp(domain.StatusDocsPending)
	store := &fakeStore{
		app: app,
		docs: []*models.Document{
			{ID: 1, Type: "ine", Status: models.DocumentStatusApproved, ReviewedBy: &staffID},
		},
	}
	svc := newEngine(store)

	doc, err := svc.UnapproveDocument(context.Background(), 1, 10, 1, "", testActor)
	if err != nil {
		t.Fatalf("UnapproveDocument: %v", err)
	}
	if doc.Status != models.DocumentStatusPending {
		t.Errorf("doc status = %s", doc.Status)
	}
	if doc.ReviewedBy != nil || doc.ReviewedAt != nil {
		t.Errorf("review fields not cleared: %+v", doc)
	}
	if store.app.Status != domain.StatusDocsPending {
		t.Errorf("status = %s", store.app.Status)
	}
}

func TestDocumentNotFound(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	_, _, err := svc.ApproveDocument(context.Background(), 1, 10, 99, "", testActor)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestVerifyReference(t *testing.T) {
	store := &fakeStore{
		app:  newTestApp(domain.StatusInReview),
		refs: []*models.Reference{{ID: 4, PersonID: 1, FullName: "Luis Mena", Status: models.ReferenceStatusUnverified}},
	}
	svc := newEngine(store)

	ref, err := svc.VerifyReference(context.Background(), 1, 10, 4, models.ReferenceStatusVerified, "confirmed by phone", testActor)
	if err != nil {
		t.Fatalf("VerifyReference: %v", err)
	}
	if ref.Status != models.ReferenceStatusVerified {
		t.Errorf("status = %s", ref.Status)
	}
	if ref.VerifiedBy == nil || *ref.VerifiedBy != testActor.ID {
		t.Errorf("verified by = %v", ref.VerifiedBy)
	}

	// Reference outcomes never move the application status.
	if store.app.Status != domain.StatusInReview {
		t.Errorf("application status changed to %s", store.app.Status)
	}
	entry := lastEntry(t, store)
	if entry.EventKind != domain.EventReferenceVerified {
		t.Errorf("event kind = %s", entry.EventKind)
	}
}

func TestVerifyReferenceInvalidOutcome(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	_, err := svc.VerifyReference(context.Background(), 1, 10, 4, "MAYBE", "", testActor)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestVerifyReferenceCompanyApplicant(t *testing.T) {
	app := newTestApp(domain.StatusInReview)
	companyID := uint(5)
	app.PersonID = nil
	app.CompanyID = &companyID
	store := &fakeStore{app: app}
	svc := newEngine(store)

	_, err := svc.VerifyReference(context.Background(), 1, 10, 4, models.ReferenceStatusVerified, "", testActor)
	if !errors.Is(err, domain.ErrReferenceNotFound) {
		t.Errorf("err = %v, want ErrReferenceNotFound", err)
	}
}

func TestBankAccountVerifyAndUnverify(t *testing.T) {
	store := &fakeStore{
		app:      newTestApp(domain.StatusInReview),
		accounts: []*models.BankAccount{{ID: 8, PersonID: 1, BankName: "BBVA"}},
	}
	svc := newEngine(store)

	account, err := svc.VerifyBankAccount(context.Background(), 1, 10, 8, testActor)
	if err != nil {
		t.Fatalf("VerifyBankAccount: %v", err)
	}
	if !account.IsVerified {
		t.Error("account not marked verified")
	}
	if account.VerifiedBy == nil || account.VerifiedAt == nil {
		t.Error("verifier fields not set")
	}

	account, err = svc.UnverifyBankAccount(context.Background(), 1, 10, 8, testActor)
	if err != nil {
		t.Fatalf("UnverifyBankAccount: %v", err)
	}
	if account.IsVerified {
		t.Error("account still verified")
	}
	if account.VerifiedBy != nil || account.VerifiedAt != nil {
		t.Error("verifier fields not cleared")
	}

	if len(store.history) != 2 {
		t.Errorf("%d history entries, want 2", len(store.history))
	}
}

func TestTenantScopeIsolation(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	_, err := svc.ChangeStatus(context.Background(), 2, 10, domain.StatusDocsPending, testActor, "")
	if !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Errorf("cross-tenant access: err = %v, want ErrApplicationNotFound", err)
	}
}

func TestAddNote(t *testing.T) {
	store := &fakeStore{app: newTestApp(domain.StatusInReview)}
	svc := newEngine(store)

	if err := svc.AddNote(context.Background(), 1, 10, "called applicant, will resend payslips", testActor); err != nil {
		t.Fatalf("AddNote: %v", err)
	}

	entry := lastEntry(t, store)
	if entry.EventKind != domain.EventNoteAdded {
		t.Errorf("event kind = %s", entry.EventKind)
	}
	if entry.FromStatus != "" || entry.ToStatus != "" {
		t.Errorf("note recorded a transition: (%s, %s)", entry.FromStatus, entry.ToStatus)
	}
	if store.app.Status != domain.StatusInReview {
		t.Errorf("status changed to %s", store.app.Status)
	}
}
