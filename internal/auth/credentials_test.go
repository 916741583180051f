package auth

import (
	"context"
	"testing"
)

func TestParseCredentials(t *testing.T) {
	got, err := ParseCredentials("Quinn:Tr0ub4dor&3?!$@#*, Rowan:Mapl3-syrup!")
	if err != nil {
		t.Fatalf("ParseCredentials returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got["Quinn"] != "Tr0ub4dor&3?!$@#*" {
		t.Errorf("Quinn = %q", got["Quinn"])
	}
	if got["Rowan"] != "Mapl3-syrup!" {
		t.Errorf("Rowan = %q", got["Rowan"])
	}
}

func TestParseCredentials_BcryptHashWithColons(t *testing.T) {
	hash := "$2a$10$abcdefghijklmnopqrstuu5uJ0Jx2Pk1bqJ3u0yG2o1B6c9m2b1e"
	got, err := ParseCredentials("admin:" + hash)
	if err != nil {
		t.Fatalf("ParseCredentials returned error: %v", err)
	}
	if got["admin"] != hash {
		t.Errorf("admin = %q, want %q", got["admin"], hash)
	}
}

func TestParseCredentials_Empty(t *testing.T) {
	got, err := ParseCredentials("  ")
	if err != nil {
		t.Fatalf("ParseCredentials returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestParseCredentials_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing separator", "admin"},
		{"empty username", ":secret"},
		{"empty secret", "admin:"},
		{"duplicate user", "a:1,a:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCredentials(tt.raw); err == nil {
				t.Errorf("ParseCredentials(%q) expected error", tt.raw)
			}
		})
	}
}

func TestParseCredentials_KeepsSecretWhitespace(t *testing.T) {
	got, err := ParseCredentials(" Quinn : padded secret ,Rowan:x")
	if err != nil {
		t.Fatalf("ParseCredentials returned error: %v", err)
	}
	if got["Quinn"] != " padded secret " {
		t.Errorf("Quinn = %q, want %q", got["Quinn"], " padded secret ")
	}
	if _, ok := got[" Quinn "]; ok {
		t.Error("username should be trimmed")
	}
}

func TestParseCredentials_PlaintextWithSpacesMatchesExactly(t *testing.T) {
	table, err := ParseCredentials("Quinn: lead and trail ")
	if err != nil {
		t.Fatalf("ParseCredentials returned error: %v", err)
	}
	p := NewPlaintextProvider(table)

	ok, err := p.Validate(context.Background(), "Quinn", " lead and trail ")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !ok {
		t.Error("password with surrounding spaces should match exactly")
	}
	if ok, _ := p.Validate(context.Background(), "Quinn", "lead and trail"); ok {
		t.Error("trimmed password should not match")
	}
}
