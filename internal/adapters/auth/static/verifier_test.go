package static

import (
	"context"
	"errors"
	"testing"
)

func TestVerifier(t *testing.T) {
	v := NewVerifier(" cron-token ", "")

	claims, err := v.Verify(context.Background(), "cron-token")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != "system" {
		t.Fatalf("unexpected subject: %q", claims.UserID)
	}

	for _, tok := range []string{"", "cron", "cron-token-x"} {
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewVerifier_EmptyTokenDisables(t *testing.T) {
	if v := NewVerifier("  ", "x"); v != nil {
		t.Fatalf("expected nil verifier")
	}
}
