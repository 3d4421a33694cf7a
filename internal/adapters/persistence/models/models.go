package models

import (
	"time"

	"prestaclick/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Tenancy & Staff
// ============================================================

// Tenant represents tenants table
type Tenant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Slug      string         `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// Staff roles
const (
	RoleAnalyst = "ANALYST"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// StaffUser represents staff_users table
type StaffUser struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TenantID  uint           `gorm:"index;not null" json:"tenant_id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	FullName  string         `gorm:"size:100;not null" json:"full_name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'ANALYST'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	StaffID   uint       `gorm:"index;not null" json:"staff_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`

	Staff StaffUser `gorm:"foreignKey:StaffID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Applicants
// ============================================================

// Person represents persons table (individual applicant)
type Person struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TenantID  uint           `gorm:"index;not null" json:"tenant_id"`
	FirstName string         `gorm:"size:100;not null" json:"first_name"`
	LastName  string         `gorm:"size:100;not null" json:"last_name"`
	CURP      string         `gorm:"size:18;index" json:"curp"`
	RFC       string         `gorm:"size:13" json:"rfc"`
	Email     string         `gorm:"size:100" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	BirthDate *time.Time     `gorm:"type:date" json:"birth_date"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	References   []Reference   `gorm:"foreignKey:PersonID" json:"references,omitempty"`
	BankAccounts []BankAccount `gorm:"foreignKey:PersonID" json:"bank_accounts,omitempty"`
	Employments  []Employment  `gorm:"foreignKey:PersonID" json:"employments,omitempty"`
	Addresses    []Address     `gorm:"foreignKey:PersonID" json:"addresses,omitempty"`
	Documents    []Document    `gorm:"polymorphic:Owner;polymorphicValue:person" json:"documents,omitempty"`
}

func (Person) TableName() string {
	return "persons"
}

// FullName returns the person display name
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Company represents companies table (business applicant)
type Company struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TenantID  uint           `gorm:"index;not null" json:"tenant_id"`
	LegalName string         `gorm:"size:200;not null" json:"legal_name"`
	RFC       string         `gorm:"size:13;index" json:"rfc"`
	Email     string         `gorm:"size:100" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Documents []Document `gorm:"polymorphic:Owner;polymorphicValue:company" json:"documents,omitempty"`
}

func (Company) TableName() string {
	return "companies"
}

// Employment history; only one current row per person
type Employment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	PersonID      uint            `gorm:"index;not null" json:"person_id"`
	Employer      string          `gorm:"size:200;not null" json:"employer"`
	Position      string          `gorm:"size:100" json:"position"`
	MonthlyIncome decimal.Decimal `gorm:"type:decimal(15,2)" json:"monthly_income"`
	StartDate     *time.Time      `gorm:"type:date" json:"start_date"`
	IsCurrent     bool            `gorm:"default:true;index" json:"is_current"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employment) TableName() string {
	return "employments"
}

// Address history; only one current row per person
type Address struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PersonID     uint      `gorm:"index;not null" json:"person_id"`
	Street       string    `gorm:"size:200;not null" json:"street"`
	ExtNumber    string    `gorm:"size:20" json:"ext_number"`
	Neighborhood string    `gorm:"size:100" json:"neighborhood"`
	City         string    `gorm:"size:100" json:"city"`
	State        string    `gorm:"size:100" json:"state"`
	PostalCode   string    `gorm:"size:10" json:"postal_code"`
	IsCurrent    bool      `gorm:"default:true;index" json:"is_current"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}

// Reference verification outcomes
const (
	ReferenceStatusUnverified  = "UNVERIFIED"
	ReferenceStatusVerified    = "VERIFIED"
	ReferenceStatusRejected    = "REJECTED"
	ReferenceStatusUnreachable = "UNREACHABLE"
)

// Reference represents personal references of an applicant
type Reference struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PersonID     uint       `gorm:"index;not null" json:"person_id"`
	FullName     string     `gorm:"size:200;not null" json:"full_name"`
	Phone        string     `gorm:"size:20;not null" json:"phone"`
	Relationship string     `gorm:"size:50" json:"relationship"`
	Status       string     `gorm:"size:20;default:'UNVERIFIED'" json:"status"`
	Notes        string     `gorm:"type:text" json:"notes"`
	VerifiedBy   *uint      `json:"verified_by"`
	VerifiedAt   *time.Time `json:"verified_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Reference) TableName() string {
	return "references"
}

// BankAccount represents applicant bank accounts (CLABE)
type BankAccount struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PersonID   uint       `gorm:"index;not null" json:"person_id"`
	BankName   string     `gorm:"size:100;not null" json:"bank_name"`
	CLABE      string     `gorm:"size:18;not null" json:"clabe"`
	IsPrimary  bool       `gorm:"default:false" json:"is_primary"`
	IsVerified bool       `gorm:"default:false" json:"is_verified"`
	VerifiedBy *uint      `json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}

// ============================================================
// Documents
// ============================================================

// Document review status
const (
	DocumentStatusPending  = "PENDING"
	DocumentStatusApproved = "APPROVED"
	DocumentStatusRejected = "REJECTED"
)

// Document owner types (polymorphic)
const (
	DocumentOwnerApplication = "application"
	DocumentOwnerPerson      = "person"
	DocumentOwnerCompany     = "company"
)

// Document represents documents table. A document belongs to exactly one
// documentable owner (application, person or company).
type Document struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TenantID        uint           `gorm:"index;not null" json:"tenant_id"`
	OwnerType       string         `gorm:"size:20;not null;index:idx_documents_owner" json:"owner_type"`
	OwnerID         uint           `gorm:"not null;index:idx_documents_owner" json:"owner_id"`
	Type            string         `gorm:"size:50;not null" json:"type"`
	FileName        string         `gorm:"size:255" json:"file_name"`
	StorageKey      string         `gorm:"size:255" json:"storage_key"`
	Status          string         `gorm:"size:20;default:'PENDING';index" json:"status"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	ReviewedBy      *uint          `json:"reviewed_by"`
	ReviewedAt      *time.Time     `json:"reviewed_at"`
	ReplacedByID    *uint          `gorm:"index" json:"replaced_by_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Reviewer *StaffUser `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// IsReplaced reports whether a newer version supersedes this document
func (d *Document) IsReplaced() bool {
	return d.ReplacedByID != nil
}

// ============================================================
// Applications
// ============================================================

// Application represents loan_applications table
type Application struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TenantID  uint   `gorm:"index;not null" json:"tenant_id"`
	Folio     string `gorm:"uniqueIndex;size:40;not null" json:"folio"`
	PersonID  *uint  `gorm:"index" json:"person_id"`
	CompanyID *uint  `gorm:"index" json:"company_id"`

	Status    domain.Status                `gorm:"size:30;not null;default:'DRAFT';index" json:"status"`
	Checklist domain.VerificationChecklist `gorm:"type:json" json:"verification_checklist"`

	RequestedAmount     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"requested_amount"`
	RequestedTermMonths int              `gorm:"not null" json:"requested_term_months"`
	RequestedRate       decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"requested_rate"`
	ApprovedAmount      *decimal.Decimal `gorm:"type:decimal(15,2)" json:"approved_amount"`
	ApprovedTermMonths  *int             `json:"approved_term_months"`
	ApprovedRate        *decimal.Decimal `gorm:"type:decimal(5,2)" json:"approved_rate"`
	Purpose             string           `gorm:"type:text" json:"purpose"`

	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	DecisionBy      *uint      `json:"decision_by"`
	DecisionAt      *time.Time `json:"decision_at"`
	SubmittedAt     *time.Time `json:"submitted_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Person    *Person    `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Company   *Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Decider   *StaffUser `gorm:"foreignKey:DecisionBy" json:"decider,omitempty"`
	Documents []Document `gorm:"polymorphic:Owner;polymorphicValue:application" json:"documents,omitempty"`
}

func (Application) TableName() string {
	return "loan_applications"
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID                  uint                         `json:"id"`
	Folio               string                       `json:"folio"`
	Status              domain.Status                `json:"status"`
	ApplicantName       string                       `json:"applicant_name,omitempty"`
	PersonID            *uint                        `json:"person_id,omitempty"`
	CompanyID           *uint                        `json:"company_id,omitempty"`
	Checklist           domain.VerificationChecklist `json:"verification_checklist"`
	RequestedAmount     decimal.Decimal              `json:"requested_amount"`
	RequestedTermMonths int                          `json:"requested_term_months"`
	RequestedRate       decimal.Decimal              `json:"requested_rate"`
	ApprovedAmount      *decimal.Decimal             `json:"approved_amount,omitempty"`
	ApprovedTermMonths  *int                         `json:"approved_term_months,omitempty"`
	ApprovedRate        *decimal.Decimal             `json:"approved_rate,omitempty"`
	Purpose             string                       `json:"purpose,omitempty"`
	RejectionReason     string                       `json:"rejection_reason,omitempty"`
	DecisionAt          *time.Time                   `json:"decision_at,omitempty"`
	SubmittedAt         *time.Time                   `json:"submitted_at,omitempty"`
	CreatedAt           time.Time                    `json:"created_at"`
	UpdatedAt           time.Time                    `json:"updated_at"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                  a.ID,
		Folio:               a.Folio,
		Status:              a.Status,
		PersonID:            a.PersonID,
		CompanyID:           a.CompanyID,
		Checklist:           a.Checklist,
		RequestedAmount:     a.RequestedAmount,
		RequestedTermMonths: a.RequestedTermMonths,
		RequestedRate:       a.RequestedRate,
		ApprovedAmount:      a.ApprovedAmount,
		ApprovedTermMonths:  a.ApprovedTermMonths,
		ApprovedRate:        a.ApprovedRate,
		Purpose:             a.Purpose,
		RejectionReason:     a.RejectionReason,
		DecisionAt:          a.DecisionAt,
		SubmittedAt:         a.SubmittedAt,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}

	if a.Person != nil {
		resp.ApplicantName = a.Person.FullName()
	} else if a.Company != nil {
		resp.ApplicantName = a.Company.LegalName
	}

	return resp
}

// ============================================================
// Audit trail
// ============================================================

// StatusHistory represents status_history table (append-only). Rows are
// never updated once written.
type StatusHistory struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	ApplicationID uint             `gorm:"not null;index" json:"application_id"`
	EventKind     domain.EventKind `gorm:"size:40;not null;index" json:"event_kind"`
	FromStatus    domain.Status    `gorm:"size:30" json:"from_status,omitempty"`
	ToStatus      domain.Status    `gorm:"size:30" json:"to_status,omitempty"`
	ChangedBy     uint             `gorm:"not null" json:"changed_by"`
	ChangedByType domain.ActorType `gorm:"size:20;not null" json:"changed_by_type"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`
	Metadata      datatypes.JSON   `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`

	Application *Application `gorm:"foreignKey:ApplicationID" json:"-"`
}

func (StatusHistory) TableName() string {
	return "status_history"
}

// IsTransition reports whether the entry records a state-machine
// transition rather than a lifecycle event
func (h *StatusHistory) IsTransition() bool {
	return h.EventKind == domain.EventStatusChange
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Tenant{},
		&StaffUser{},
		&RefreshToken{},
		&Person{},
		&Company{},
		&Employment{},
		&Address{},
		&Reference{},
		&BankAccount{},
		&Document{},
		&Application{},
		&StatusHistory{},
	)
}
