package handlers

import (
	"errors"
	"strconv"

	"prestaclick/internal/core/domain"
	"prestaclick/internal/core/services"
	"prestaclick/internal/pkg/pagination"
	"prestaclick/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles application lifecycle endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// requestActor builds the workflow actor from the authenticated staff claims
func requestActor(c *fiber.Ctx) services.Actor {
	id, _ := c.Locals("staffID").(uint)
	name, _ := c.Locals("fullName").(string)
	return services.Actor{
		ID:   id,
		Name: name,
		Type: domain.ActorStaff,
	}
}

// requestTenantID reads the tenant scope from the authenticated staff claims
func requestTenantID(c *fiber.Ctx) uint {
	id, _ := c.Locals("tenantID").(uint)
	return id
}

// paramID parses a numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uint(id), nil
}

// Create handles application creation
// @Summary Create loan application
// @Description Create a new loan application in DRAFT for a person or a company
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateApplicationInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var input services.CreateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.appService.Create(c.Context(), requestTenantID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Exactly one of person_id or company_id is required")
		case errors.Is(err, domain.ErrApplicantNotFound):
			return response.NotFound(c, "Applicant not found")
		default:
			return response.InternalServerError(c, "Failed to create application")
		}
	}

	return response.Created(c, "Application created", app.ToResponse())
}

// Get handles fetching one application
// @Summary Get application
// @Description Get an application with its checklist and documents
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.GetByID(c.Context(), requestTenantID(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get application")
	}

	return response.Success(c, "Application retrieved", app.ToResponse())
}

// List handles listing applications
// @Summary List applications
// @Description List applications with optional status filter and pagination
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListInput{
		Page:  params.Page,
		Limit: params.Limit,
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		if !status.IsValid() {
			return response.BadRequest(c, "Invalid status filter")
		}
		input.Status = &status
	}

	result, err := h.appService.List(c.Context(), requestTenantID(c), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved",
		pagination.NewResponse(result.Applications, params, result.Total))
}

// UpdateTerms handles updating requested terms on a DRAFT application
// @Summary Update requested terms
// @Description Update requested amount, term or rate while the application is DRAFT
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body services.UpdateTermsInput true "Terms to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications/{id}/terms [patch]
func (h *ApplicationHandler) UpdateTerms(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var input services.UpdateTermsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.appService.UpdateTerms(c.Context(), requestTenantID(c), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Terms can only be updated while the application is DRAFT")
		default:
			return response.InternalServerError(c, "Failed to update terms")
		}
	}

	return response.Success(c, "Terms updated", app.ToResponse())
}

// Submit handles submitting a DRAFT application
// @Summary Submit application
// @Description Move a DRAFT application to SUBMITTED
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id}/submit [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Submit(c.Context(), requestTenantID(c), id, requestActor(c))
	if err != nil {
		return workflowError(c, err, "Failed to submit application")
	}

	return response.Success(c, "Application submitted", app.ToResponse())
}

// Cancel handles cancelling an application
// @Summary Cancel application
// @Description Cancel an application where the transition table allows it
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /applications/{id}/cancel [post]
func (h *ApplicationHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.BodyParser(&req)

	app, err := h.appService.Cancel(c.Context(), requestTenantID(c), id, requestActor(c), req.Notes)
	if err != nil {
		return workflowError(c, err, "Failed to cancel application")
	}

	return response.Success(c, "Application cancelled", app.ToResponse())
}

// History handles fetching the audit trail
// @Summary Get application history
// @Description Get the full audit trail for an application, newest first
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id}/history [get]
func (h *ApplicationHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	entries, err := h.appService.GetHistory(c.Context(), requestTenantID(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get history")
	}

	return response.Success(c, "History retrieved", entries)
}

// workflowError maps workflow service errors to HTTP responses. An
// invalid transition reports the exact (from, to) pair to the client.
func workflowError(c *fiber.Ctx, err error, fallback string) error {
	var transitionErr *domain.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, transitionErr.Error(), fiber.Map{
			"from": transitionErr.From,
			"to":   transitionErr.To,
		})
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrNotApprovable),
		errors.Is(err, domain.ErrNotRejectable):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrReferenceNotFound),
		errors.Is(err, domain.ErrBankAccountNotFound),
		errors.Is(err, domain.ErrApplicantNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}
