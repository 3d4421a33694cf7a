package handlers

import (
	"prestaclick/internal/core/domain"
	"prestaclick/internal/core/services"
	"prestaclick/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WorkflowHandler handles workflow engine endpoints: status changes,
// decisions, checklist verification, document review and the reference /
// bank account sub-workflows.
type WorkflowHandler struct {
	workflowService *services.WorkflowService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowService *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// ChangeStatusRequest represents a manual status change request body
type ChangeStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// ChangeStatus handles manual status changes
// @Summary Change application status
// @Description Move the application along a legal edge of the status graph
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body ChangeStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id}/status [post]
func (h *WorkflowHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	target := domain.Status(req.Status)
	if !target.IsValid() {
		return response.BadRequest(c, "Unknown status: "+req.Status)
	}

	app, err := h.workflowService.ChangeStatus(c.Context(), requestTenantID(c), id, target, requestActor(c), req.Notes)
	if err != nil {
		return workflowError(c, err, "Failed to change status")
	}

	return response.Success(c, "Status changed", app.ToResponse())
}

// Approve handles the approval decision
// @Summary Approve application
// @Description Record the approval decision and move the application to APPROVED
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.ApproveInput true "Approved terms (optional, defaults to requested)"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id}/approve [post]
func (h *WorkflowHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var input services.ApproveInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.workflowService.Approve(c.Context(), requestTenantID(c), id, &input, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to approve application")
	}

	return response.Success(c, "Application approved", app.ToResponse())
}

// RejectRequest represents a rejection request body
type RejectRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

// Reject handles the rejection decision
// @Summary Reject application
// @Description Record the rejection decision with its reason
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body RejectRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id}/reject [post]
func (h *WorkflowHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	app, err := h.workflowService.Reject(c.Context(), requestTenantID(c), id, req.Reason, req.Notes, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to reject application")
	}

	return response.Success(c, "Application rejected", app.ToResponse())
}

// VerifyData handles checklist field verification
// @Summary Verify checklist field
// @Description Verify, reject or reset a verification checklist field
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param field path string true "Checklist field key"
// @Param body body services.VerifyDataInput true "Verification action"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications/{id}/verify/{field} [post]
func (h *WorkflowHandler) VerifyData(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	field := c.Params("field")
	if field == "" {
		return response.BadRequest(c, "Checklist field is required")
	}

	var input services.VerifyDataInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	switch input.Action {
	case services.ActionVerify, services.ActionReject, services.ActionUnverify:
	default:
		return response.BadRequest(c, "Action must be verify, reject or unverify")
	}
	if input.Action == services.ActionReject && input.RejectionReason == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	app, advanced, err := h.workflowService.VerifyData(c.Context(), requestTenantID(c), id, field, &input, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to verify field")
	}

	return response.Success(c, "Field verification recorded", fiber.Map{
		"application":   app.ToResponse(),
		"auto_advanced": advanced,
	})
}

// CheckAdvance handles an explicit auto-advance evaluation
// @Summary Evaluate auto-advance
// @Description Re-run the auto-advance decision procedure for the application
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Router /applications/{id}/check-advance [post]
func (h *WorkflowHandler) CheckAdvance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, advanced, err := h.workflowService.CheckAndAdvance(c.Context(), requestTenantID(c), id, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to evaluate auto-advance")
	}

	return response.Success(c, "Auto-advance evaluated", fiber.Map{
		"application":   app.ToResponse(),
		"auto_advanced": advanced,
	})
}

// DocumentReviewRequest represents a document review request body
type DocumentReviewRequest struct {
	Reason string `json:"reason,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// ApproveDocument handles document approval
// @Summary Approve document
// @Description Approve a document attached to the application or its applicant
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param docId path int true "Document ID"
// @Param body body DocumentReviewRequest false "Review notes"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/{docId}/approve [post]
func (h *WorkflowHandler) ApproveDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}
	docID, err := paramID(c, "docId")
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	var req DocumentReviewRequest
	_ = c.BodyParser(&req)

	doc, advanced, err := h.workflowService.ApproveDocument(c.Context(), requestTenantID(c), id, docID, req.Notes, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to approve document")
	}

	return response.Success(c, "Document approved", fiber.Map{
		"document":      doc,
		"auto_advanced": advanced,
	})
}

// RejectDocument handles document rejection
// @Summary Reject document
// @Description Reject a document; may move the application to DOCS_PENDING
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param docId path int true "Document ID"
// @Param body body DocumentReviewRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/{docId}/reject [post]
func (h *WorkflowHandler) RejectDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}
	docID, err := paramID(c, "docId")
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	var req DocumentReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	doc, err := h.workflowService.RejectDocument(c.Context(), requestTenantID(c), id, docID, req.Reason, req.Notes, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to reject document")
	}

	return response.Success(c, "Document rejected", doc)
}

// UnapproveDocument handles resetting a document review
// @Summary Reset document review
// @Description Reset a reviewed document back to PENDING
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param docId path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/documents/{docId}/unapprove [post]
func (h *WorkflowHandler) UnapproveDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}
	docID, err := paramID(c, "docId")
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	var req DocumentReviewRequest
	_ = c.BodyParser(&req)

	doc, err := h.workflowService.UnapproveDocument(c.Context(), requestTenantID(c), id, docID, req.Notes, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to reset document review")
	}

	return response.Success(c, "Document review reset", doc)
}

// VerifyReferenceRequest represents a reference verification request body
type VerifyReferenceRequest struct {
	Outcome string `json:"outcome"`
	Notes   string `json:"notes,omitempty"`
}

// VerifyReference handles personal reference verification
// @Summary Verify reference
// @Description Record the outcome of contacting a personal reference
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param refId path int true "Reference ID"
// @Param body body VerifyReferenceRequest true "Verification outcome"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/references/{refId}/verify [post]
func (h *WorkflowHandler) VerifyReference(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}
	refID, err := paramID(c, "refId")
	if err != nil {
		return response.BadRequest(c, "Invalid reference ID")
	}

	var req VerifyReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ref, err := h.workflowService.VerifyReference(c.Context(), requestTenantID(c), id, refID, req.Outcome, req.Notes, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to verify reference")
	}

	return response.Success(c, "Reference verification recorded", ref)
}

// VerifyBankAccount handles bank account verification
// @Summary Verify bank account
// @Description Mark an applicant bank account as verified
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param accountId path int true "Bank account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/bank-accounts/{accountId}/verify [post]
func (h *WorkflowHandler) VerifyBankAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}
	accountID, err := paramID(c, "accountId")
	if err != nil {
		return response.BadRequest(c, "Invalid bank account ID")
	}

	account, err := h.workflowService.VerifyBankAccount(c.Context(), requestTenantID(c), id, accountID, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to verify bank account")
	}

	return response.Success(c, "Bank account verified", account)
}

// UnverifyBankAccount handles clearing bank account verification
// @Summary Unverify bank account
// @Description Clear the verified mark on an applicant bank account
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param accountId path int true "Bank account ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/bank-accounts/{accountId}/unverify [post]
func (h *WorkflowHandler) UnverifyBankAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}
	accountID, err := paramID(c, "accountId")
	if err != nil {
		return response.BadRequest(c, "Invalid bank account ID")
	}

	account, err := h.workflowService.UnverifyBankAccount(c.Context(), requestTenantID(c), id, accountID, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to unverify bank account")
	}

	return response.Success(c, "Bank account verification cleared", account)
}

// NoteRequest represents a note request body
type NoteRequest struct {
	Notes string `json:"notes"`
}

// AddNote handles attaching a free-form note to the audit trail
// @Summary Add note
// @Description Append a free-form note to the application audit trail
// @Tags Workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body NoteRequest true "Note text"
// @Success 200 {object} response.Response
// @Router /applications/{id}/notes [post]
func (h *WorkflowHandler) AddNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Notes == "" {
		return response.BadRequest(c, "Note text is required")
	}

	if err := h.workflowService.AddNote(c.Context(), requestTenantID(c), id, req.Notes, requestActor(c)); err != nil {
		return workflowError(c, err, "Failed to add note")
	}

	return response.Success(c, "Note added", nil)
}
