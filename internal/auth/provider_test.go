package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(h)
}

func TestBcryptProvider_Validate(t *testing.T) {
	p, err := NewBcryptProvider(map[string]string{
		"Quinn": mustHash(t, "Tr0ub4dor&3?!$@#*"),
	})
	if err != nil {
		t.Fatalf("NewBcryptProvider returned error: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"exact match", "Quinn", "Tr0ub4dor&3?!$@#*", true},
		{"wrong password", "Quinn", "wrong", false},
		{"one character off", "Quinn", "Tr0ub4dor&3?!$@#", false},
		{"case differs", "quinn", "Tr0ub4dor&3?!$@#*", false},
		{"unknown user", "nobody", "Tr0ub4dor&3?!$@#*", false},
		{"empty input", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Validate(context.Background(), tt.username, tt.password)
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestNewBcryptProvider_RejectsInvalidHash(t *testing.T) {
	_, err := NewBcryptProvider(map[string]string{"user": "plaintext-password"})
	if err == nil {
		t.Fatal("expected error for non-bcrypt value")
	}
}

func TestPlaintextProvider_Validate(t *testing.T) {
	p := NewPlaintextProvider(map[string]string{
		"Rowan": "Mapl3-syrup!",
	})

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"exact match", "Rowan", "Mapl3-syrup!", true},
		{"trailing character", "Rowan", "Mapl3-syrup!!", false},
		{"case differs", "Rowan", "mapl3-syrup!", false},
		{"leading space", "Rowan", " Mapl3-syrup!", false},
		{"unknown user", "Quinn", "Mapl3-syrup!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Validate(context.Background(), tt.username, tt.password)
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

// 生成後に元のテーブルを変更しても影響しないことを検証する。
func TestPlaintextProvider_CopiesTable(t *testing.T) {
	table := map[string]string{"a": "1"}
	p := NewPlaintextProvider(table)
	table["a"] = "2"

	ok, _ := p.Validate(context.Background(), "a", "1")
	if !ok {
		t.Error("provider should keep its own copy of the table")
	}
}
