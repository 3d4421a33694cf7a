package domain

import (
	"testing"
	"time"
)

func TestParseFieldKey(t *testing.T) {
	tests := []struct {
		key  string
		want FieldKey
	}{
		{"identity", FieldKey{Kind: FieldKindDomain, Name: "identity"}},
		{"curp", FieldKey{Kind: FieldKindDomain, Name: "curp"}},
		{"reference_42", FieldKey{Kind: FieldKindReference, ID: "42"}},
		{"bank_account_7", FieldKey{Kind: FieldKindBankAccount, ID: "7"}},
		// "bank_account_" would swallow "reference_" if the prefixes were
		// checked in the wrong order; it must parse as a bank account key.
		{"bank_account_reference_1", FieldKey{Kind: FieldKindBankAccount, ID: "reference_1"}},
		// A bare prefix with no id is just an odd domain field name.
		{"reference_", FieldKey{Kind: FieldKindDomain, Name: "reference_"}},
		{"bank_account_", FieldKey{Kind: FieldKindDomain, Name: "bank_account_"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := ParseFieldKey(tt.key)
			if got != tt.want {
				t.Errorf("ParseFieldKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestFieldKeyRoundTrip(t *testing.T) {
	keys := []string{"identity", "income", "reference_3", "bank_account_12"}
	for _, key := range keys {
		if got := ParseFieldKey(key).String(); got != key {
			t.Errorf("round trip of %q = %q", key, got)
		}
	}
}

func TestReferenceAndBankAccountFieldBuilders(t *testing.T) {
	if got := ReferenceField("5"); got != "reference_5" {
		t.Errorf("ReferenceField(5) = %q", got)
	}
	if got := BankAccountField("9"); got != "bank_account_9" {
		t.Errorf("BankAccountField(9) = %q", got)
	}
}

func TestChecklistHasRejections(t *testing.T) {
	tests := []struct {
		name      string
		checklist VerificationChecklist
		want      bool
	}{
		{"nil checklist", nil, false},
		{"empty checklist", VerificationChecklist{}, false},
		{
			"pending entries do not block",
			VerificationChecklist{
				FieldIdentity: {Status: VerificationPending},
				FieldIncome:   {Status: VerificationVerified},
			},
			false,
		},
		{
			"one rejected entry",
			VerificationChecklist{
				FieldIdentity: {Status: VerificationVerified},
				FieldAddress:  {Status: VerificationRejected, RejectionReason: "mismatch"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checklist.HasRejections(); got != tt.want {
				t.Errorf("HasRejections() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChecklistValueScanRoundTrip(t *testing.T) {
	staffID := uint(3)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	original := VerificationChecklist{
		FieldIdentity: {
			Status:     VerificationVerified,
			Method:     "ine_scan",
			VerifiedBy: &staffID,
			VerifiedAt: &at,
		},
		ReferenceField("4"): {
			Status:          VerificationRejected,
			RejectionReason: "phone unreachable",
		},
	}

	raw, err := original.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var restored VerificationChecklist
	if err := restored.Scan(raw); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(restored) != len(original) {
		t.Fatalf("restored %d entries, want %d", len(restored), len(original))
	}
	entry := restored[FieldIdentity]
	if entry.Status != VerificationVerified || entry.Method != "ine_scan" {
		t.Errorf("identity entry = %+v", entry)
	}
	if entry.VerifiedBy == nil || *entry.VerifiedBy != staffID {
		t.Errorf("identity VerifiedBy = %v, want %d", entry.VerifiedBy, staffID)
	}
	if entry.VerifiedAt == nil || !entry.VerifiedAt.Equal(at) {
		t.Errorf("identity VerifiedAt = %v, want %v", entry.VerifiedAt, at)
	}
	ref := restored[ReferenceField("4")]
	if ref.Status != VerificationRejected || ref.RejectionReason != "phone unreachable" {
		t.Errorf("reference entry = %+v", ref)
	}
}

func TestChecklistScanEmptyAndNil(t *testing.T) {
	var c VerificationChecklist
	if err := c.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if c == nil || len(c) != 0 {
		t.Errorf("Scan(nil) produced %v, want empty map", c)
	}

	var c2 VerificationChecklist
	if err := c2.Scan([]byte{}); err != nil {
		t.Fatalf("Scan(empty) error: %v", err)
	}
	if len(c2) != 0 {
		t.Errorf("Scan(empty) produced %v, want empty map", c2)
	}

	var c3 VerificationChecklist
	if err := c3.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestNilChecklistValue(t *testing.T) {
	var c VerificationChecklist
	raw, err := c.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	if string(raw.([]byte)) != "{}" {
		t.Errorf("nil checklist Value() = %s, want {}", raw)
	}
}
