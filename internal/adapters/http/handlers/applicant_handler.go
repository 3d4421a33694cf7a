package handlers

import (
	"errors"

	"prestaclick/internal/core/domain"
	"prestaclick/internal/core/services"
	"prestaclick/internal/pkg/pagination"
	"prestaclick/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicantHandler handles person, company and document endpoints
type ApplicantHandler struct {
	applicantService *services.ApplicantService
}

// NewApplicantHandler creates a new applicant handler
func NewApplicantHandler(applicantService *services.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{applicantService: applicantService}
}

// CreatePerson handles individual applicant creation
// @Summary Create person
// @Description Register an individual applicant
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePersonInput true "Person data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /persons [post]
func (h *ApplicantHandler) CreatePerson(c *fiber.Ctx) error {
	var input services.CreatePersonInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	person, err := h.applicantService.CreatePerson(c.Context(), requestTenantID(c), &input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create person")
	}

	return response.Created(c, "Person created", person)
}

// GetPerson handles fetching one person
// @Summary Get person
// @Description Get a person with current employment, address, references and bank accounts
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /persons/{id} [get]
func (h *ApplicantHandler) GetPerson(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person ID")
	}

	person, err := h.applicantService.GetPerson(c.Context(), requestTenantID(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicantNotFound) {
			return response.NotFound(c, "Person not found")
		}
		return response.InternalServerError(c, "Failed to get person")
	}

	return response.Success(c, "Person retrieved", person)
}

// ListPersons handles listing persons
// @Summary List persons
// @Description List individual applicants with pagination
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /persons [get]
func (h *ApplicantHandler) ListPersons(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	persons, total, err := h.applicantService.ListPersons(c.Context(), requestTenantID(c), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list persons")
	}

	return response.Success(c, "Persons retrieved", pagination.NewResponse(persons, params, total))
}

// AddReference handles adding a personal reference
// @Summary Add reference
// @Description Add a personal reference for an individual applicant
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param body body services.AddReferenceInput true "Reference data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /persons/{id}/references [post]
func (h *ApplicantHandler) AddReference(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person ID")
	}

	var input services.AddReferenceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ref, err := h.applicantService.AddReference(c.Context(), requestTenantID(c), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicantNotFound):
			return response.NotFound(c, "Person not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to add reference")
		}
	}

	return response.Created(c, "Reference added", ref)
}

// AddBankAccount handles adding a bank account
// @Summary Add bank account
// @Description Add a disbursement bank account (CLABE) for an individual applicant
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param body body services.AddBankAccountInput true "Bank account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /persons/{id}/bank-accounts [post]
func (h *ApplicantHandler) AddBankAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person ID")
	}

	var input services.AddBankAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.applicantService.AddBankAccount(c.Context(), requestTenantID(c), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicantNotFound):
			return response.NotFound(c, "Person not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "CLABE must be 18 digits")
		default:
			return response.InternalServerError(c, "Failed to add bank account")
		}
	}

	return response.Created(c, "Bank account added", account)
}

// SetEmployment handles replacing the current employment record
// @Summary Set employment
// @Description Record a new current employment, marking previous records stale
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param body body services.SetEmploymentInput true "Employment data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /persons/{id}/employment [put]
func (h *ApplicantHandler) SetEmployment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person ID")
	}

	var input services.SetEmploymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employment, err := h.applicantService.SetEmployment(c.Context(), requestTenantID(c), id, &input)
	if err != nil {
		if errors.Is(err, domain.ErrApplicantNotFound) {
			return response.NotFound(c, "Person not found")
		}
		return response.InternalServerError(c, "Failed to set employment")
	}

	return response.Created(c, "Employment recorded", employment)
}

// SetAddress handles replacing the current address record
// @Summary Set address
// @Description Record a new current address, marking previous records stale
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param body body services.SetAddressInput true "Address data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /persons/{id}/address [put]
func (h *ApplicantHandler) SetAddress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid person ID")
	}

	var input services.SetAddressInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	address, err := h.applicantService.SetAddress(c.Context(), requestTenantID(c), id, &input)
	if err != nil {
		if errors.Is(err, domain.ErrApplicantNotFound) {
			return response.NotFound(c, "Person not found")
		}
		return response.InternalServerError(c, "Failed to set address")
	}

	return response.Created(c, "Address recorded", address)
}

// CreateCompany handles business applicant creation
// @Summary Create company
// @Description Register a business applicant
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCompanyInput true "Company data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /companies [post]
func (h *ApplicantHandler) CreateCompany(c *fiber.Ctx) error {
	var input services.CreateCompanyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	company, err := h.applicantService.CreateCompany(c.Context(), requestTenantID(c), &input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create company")
	}

	return response.Created(c, "Company created", company)
}

// GetCompany handles fetching one company
// @Summary Get company
// @Description Get a business applicant
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /companies/{id} [get]
func (h *ApplicantHandler) GetCompany(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid company ID")
	}

	company, err := h.applicantService.GetCompany(c.Context(), requestTenantID(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicantNotFound) {
			return response.NotFound(c, "Company not found")
		}
		return response.InternalServerError(c, "Failed to get company")
	}

	return response.Success(c, "Company retrieved", company)
}

// ListCompanies handles listing companies
// @Summary List companies
// @Description List business applicants with pagination
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /companies [get]
func (h *ApplicantHandler) ListCompanies(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	companies, total, err := h.applicantService.ListCompanies(c.Context(), requestTenantID(c), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list companies")
	}

	return response.Success(c, "Companies retrieved", pagination.NewResponse(companies, params, total))
}

// AttachDocument handles attaching a document
// @Summary Attach document
// @Description Attach a document to an application, person or company
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AttachDocumentInput true "Document metadata"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /documents [post]
func (h *ApplicantHandler) AttachDocument(c *fiber.Ctx) error {
	var input services.AttachDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	doc, err := h.applicantService.AttachDocument(c.Context(), requestTenantID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Document owner not found")
		default:
			return response.InternalServerError(c, "Failed to attach document")
		}
	}

	return response.Created(c, "Document attached", doc)
}

// ReplaceDocument handles soft-replacing a document
// @Summary Replace document
// @Description Upload a replacement; the old document is kept but marked replaced
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID to replace"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /documents/{id}/replace [post]
func (h *ApplicantHandler) ReplaceDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid document ID")
	}

	var req struct {
		FileName   string `json:"file_name"`
		StorageKey string `json:"storage_key"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.FileName == "" || req.StorageKey == "" {
		return response.BadRequest(c, "file_name and storage_key are required")
	}

	doc, err := h.applicantService.ReplaceDocument(c.Context(), requestTenantID(c), id, req.FileName, req.StorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) || errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Document not found")
		}
		return response.InternalServerError(c, "Failed to replace document")
	}

	return response.Created(c, "Document replaced", doc)
}
