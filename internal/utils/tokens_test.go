package utils

import "testing"

func TestNewSessionToken(t *testing.T) {
	tok, err := NewSessionToken(32)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if len(tok) != 64 {
		t.Fatalf("want 64 hex chars, got %d", len(tok))
	}

	other, err := NewSessionToken(32)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if tok == other {
		t.Fatal("tokens must not repeat")
	}
}

func TestNewSessionToken_DefaultSize(t *testing.T) {
	tok, err := NewSessionToken(0)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	if len(tok) != 64 {
		t.Fatalf("want default 32 bytes (64 hex chars), got %d", len(tok))
	}
}
