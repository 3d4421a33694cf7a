package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// VerificationStatus is the status of a single checklist entry
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Fixed checklist field names. Dynamic keys (references, bank accounts)
// are built with ReferenceField / BankAccountField.
const (
	FieldIdentity   = "identity"
	FieldCURP       = "curp"
	FieldAddress    = "address"
	FieldEmployment = "employment"
	FieldIncome     = "income"
)

// ChecklistEntry is the per-field verification record on an application
type ChecklistEntry struct {
	Status          VerificationStatus `json:"status"`
	Method          string             `json:"method,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	VerifiedBy      *uint              `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time         `json:"verified_at,omitempty"`
}

// VerificationChecklist maps field names to checklist entries. It is
// persisted as a JSON column on the application row.
type VerificationChecklist map[string]ChecklistEntry

// HasRejections reports whether any entry is rejected. Pending entries do
// not count: not every field requires manual sign-off.
func (c VerificationChecklist) HasRejections() bool {
	for _, entry := range c {
		if entry.Status == VerificationRejected {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer for GORM
func (c VerificationChecklist) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for GORM
func (c *VerificationChecklist) Scan(value interface{}) error {
	if value == nil {
		*c = VerificationChecklist{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into VerificationChecklist", value)
	}
	if len(data) == 0 {
		*c = VerificationChecklist{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// FieldKind discriminates checklist field keys
type FieldKind string

const (
	FieldKindDomain      FieldKind = "domain"
	FieldKindReference   FieldKind = "reference"
	FieldKindBankAccount FieldKind = "bank_account"
)

const (
	referencePrefix   = "reference_"
	bankAccountPrefix = "bank_account_"
)

// FieldKey is the parsed form of a checklist key
type FieldKey struct {
	Kind FieldKind
	Name string // domain field name, empty for sub-entity keys
	ID   string // sub-entity id, empty for domain fields
}

// ReferenceField builds the checklist key for a personal reference
func ReferenceField(id string) string {
	return referencePrefix + id
}

// BankAccountField builds the checklist key for a bank account
func BankAccountField(id string) string {
	return bankAccountPrefix + id
}

// ParseFieldKey classifies a raw checklist key
func ParseFieldKey(key string) FieldKey {
	if id, ok := strings.CutPrefix(key, bankAccountPrefix); ok && id != "" {
		return FieldKey{Kind: FieldKindBankAccount, ID: id}
	}
	if id, ok := strings.CutPrefix(key, referencePrefix); ok && id != "" {
		return FieldKey{Kind: FieldKindReference, ID: id}
	}
	return FieldKey{Kind: FieldKindDomain, Name: key}
}

// String rebuilds the raw checklist key
func (k FieldKey) String() string {
	switch k.Kind {
	case FieldKindReference:
		return ReferenceField(k.ID)
	case FieldKindBankAccount:
		return BankAccountField(k.ID)
	default:
		return k.Name
	}
}
