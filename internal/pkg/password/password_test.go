package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Error("hash equals plaintext")
	}
	if !Verify("s3cret-pass", hash) {
		t.Error("Verify should accept the original password")
	}
	if Verify("wrong-pass", hash) {
		t.Error("Verify should reject a wrong password")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-one")
	b := HashToken("token-one")
	c := HashToken("token-two")

	if a != b {
		t.Error("HashToken should be deterministic")
	}
	if a == c {
		t.Error("different tokens should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hex sha256 length = %d, want 64", len(a))
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "abc12345", false},
		{"too short", "ab12", true},
		{"letters only", "abcdefgh", true},
		{"digits only", "12345678", true},
		{"long mixed", "clave-segura-2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) err = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
