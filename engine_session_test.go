package adminauth

import (
	"context"
	"testing"
	"time"
)

func TestIssueAndValidateSession(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)
	ctx := context.Background()

	token, err := engine.IssueSession(ctx, "acc-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	if token == "" {
		t.Fatal("empty session token")
	}

	accountID, ok, err := engine.ValidateSession(ctx, token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if !ok || accountID != "acc-1" {
		t.Fatalf("ValidateSession = (%q, %v), want (acc-1, true)", accountID, ok)
	}
}

func TestValidateSessionAnonymousStates(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)
	ctx := context.Background()

	// Never-issued but well-formed, malformed, and empty tokens all read as
	// anonymous with no error.
	wellFormed := "AAAAAAAAAAAAAAAAAAAAAA"
	for _, token := range []string{wellFormed, "garbage!!", ""} {
		accountID, ok, err := engine.ValidateSession(ctx, token)
		if err != nil {
			t.Fatalf("ValidateSession(%q) errored: %v", token, err)
		}
		if ok || accountID != "" {
			t.Fatalf("ValidateSession(%q) = (%q, %v), want anonymous", token, accountID, ok)
		}
	}
}

func TestValidateSessionAfterTTLExpiry(t *testing.T) {
	engine, _, mr := newTestEngine(t, nil)
	ctx := context.Background()

	token, err := engine.IssueSession(ctx, "acc-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	mr.FastForward(8 * 24 * time.Hour)

	if _, ok, err := engine.ValidateSession(ctx, token); err != nil || ok {
		t.Fatalf("ValidateSession after expiry = (ok=%v, err=%v), want anonymous", ok, err)
	}
}

func TestRevokeSessionIdempotent(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)
	ctx := context.Background()

	token, err := engine.IssueSession(ctx, "acc-1")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	if err := engine.RevokeSession(ctx, token); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if err := engine.RevokeSession(ctx, token); err != nil {
		t.Fatalf("second RevokeSession failed: %v", err)
	}
	if err := engine.RevokeSession(ctx, "malformed token"); err != nil {
		t.Fatalf("RevokeSession of malformed token failed: %v", err)
	}

	if _, ok, _ := engine.ValidateSession(ctx, token); ok {
		t.Fatal("session survived revocation")
	}
}

func TestRevokeAllSessions(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)
	ctx := context.Background()

	var tokens []string
	for i := 0; i < 3; i++ {
		token, err := engine.IssueSession(ctx, "acc-1")
		if err != nil {
			t.Fatalf("IssueSession failed: %v", err)
		}
		tokens = append(tokens, token)
	}
	other, err := engine.IssueSession(ctx, "acc-2")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	ids, err := engine.ActiveSessions(ctx, "acc-1")
	if err != nil {
		t.Fatalf("ActiveSessions failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("ActiveSessions = %d, want 3", len(ids))
	}

	if err := engine.RevokeAllSessions(ctx, "acc-1"); err != nil {
		t.Fatalf("RevokeAllSessions failed: %v", err)
	}

	for _, token := range tokens {
		if _, ok, _ := engine.ValidateSession(ctx, token); ok {
			t.Fatal("session survived bulk revocation")
		}
	}
	if _, ok, _ := engine.ValidateSession(ctx, other); !ok {
		t.Fatal("unrelated account's session was revoked")
	}
}
