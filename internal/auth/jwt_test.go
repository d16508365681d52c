package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// newTestTokenService creates a TokenService with a fixed secret and short,
// known TTLs so tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// =========================================================================
// CONSTRUCTION TESTS
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short", time.Minute, time.Hour)
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_ValidSecret(t *testing.T) {
	_, err := NewTokenService("this-is-16-chars", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error for valid secret: %v", err)
	}
}

// =========================================================================
// ISSUE TESTS
// =========================================================================

func TestIssueAccess_ReturnsWellFormedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueAccess("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if token == "" {
		t.Error("IssueAccess() returned empty token")
	}

	// A JWT has 3 dot-separated parts: header.payload.signature
	if parts := strings.Count(token, "."); parts != 2 {
		t.Errorf("IssueAccess() token doesn't look like a JWT (expected 2 dots, got %d)", parts)
	}
}

func TestIssueAccess_DifferentUsersGetDifferentTokens(t *testing.T) {
	ts := newTestTokenService(t)

	token1, _ := ts.IssueAccess("user-aaa", "a@example.com")
	token2, _ := ts.IssueAccess("user-bbb", "b@example.com")

	if token1 == token2 {
		t.Error("IssueAccess() returned identical tokens for different user IDs")
	}
}

// =========================================================================
// VALIDATE TESTS
// =========================================================================

func TestValidate_AccessRoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueAccess("user-abc-123", "a@example.com")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := ts.Validate(token, KindAccess)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "user-abc-123" {
		t.Errorf("Validate() subject = %q, want %q", claims.Subject, "user-abc-123")
	}
	if claims.Email != "a@example.com" {
		t.Errorf("Validate() email = %q, want %q", claims.Email, "a@example.com")
	}
	if claims.Kind != KindAccess {
		t.Errorf("Validate() kind = %q, want %q", claims.Kind, KindAccess)
	}
}

func TestValidate_RefreshRoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueRefresh("user-abc-123")
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	claims, err := ts.Validate(token, KindRefresh)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Subject != "user-abc-123" {
		t.Errorf("Validate() subject = %q, want %q", claims.Subject, "user-abc-123")
	}
	if claims.Kind != KindRefresh {
		t.Errorf("Validate() kind = %q, want %q", claims.Kind, KindRefresh)
	}
}

// The kind discriminator must reject cross-use in both directions: a refresh
// token is never a substitute for an access token, nor the reverse.
func TestValidate_RefreshTokenRejectedAsAccess(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.IssueRefresh("user-123")

	_, err := ts.Validate(token, KindAccess)
	if err == nil {
		t.Fatal("Validate() should reject a refresh token presented as access")
	}
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidate_AccessTokenRejectedAsRefresh(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.IssueAccess("user-123", "a@example.com")

	_, err := ts.Validate(token, KindRefresh)
	if err == nil {
		t.Fatal("Validate() should reject an access token presented as refresh")
	}
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	accessTTL := 15 * time.Minute

	ts, err := NewTokenService("test-secret-at-least-16-chars!!", accessTTL, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	ts.WithClock(func() time.Time { return issued })
	token, err := ts.IssueAccess("user-123", "a@example.com")
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	// One second before expiry the token is still good.
	ts.WithClock(func() time.Time { return issued.Add(accessTTL - time.Second) })
	if _, err := ts.Validate(token, KindAccess); err != nil {
		t.Errorf("Validate() 1s before expiry: unexpected error %v", err)
	}

	// One second after expiry it is rejected with the expiry error.
	ts.WithClock(func() time.Time { return issued.Add(accessTTL + time.Second) })
	_, err = ts.Validate(token, KindAccess)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate() 1s after expiry: error = %v, want ErrTokenExpired", err)
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.IssueAccess("user-123", "a@example.com")

	// Flip the tail of the signature to simulate a modified payload.
	tampered := token[:len(token)-3] + "xxx"

	_, err := ts.Validate(tampered, KindAccess)
	if err == nil {
		t.Fatal("Validate() should return an error for a tampered token")
	}
	t.Logf("Tampered token error (expected): %v", err)
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1, _ := NewTokenService("correct-secret-32-chars-long!!!!", time.Minute, time.Hour)
	ts2, _ := NewTokenService("wrong-secret-32-chars-long!!!!!!", time.Minute, time.Hour)

	token, _ := ts1.IssueAccess("user-123", "a@example.com")

	_, err := ts2.Validate(token, KindAccess)
	if err == nil {
		t.Fatal("Validate() should fail when using a different secret")
	}
}

func TestValidate_EmptyToken(t *testing.T) {
	ts := newTestTokenService(t)

	_, err := ts.Validate("", KindAccess)
	if err == nil {
		t.Fatal("Validate() should return an error for an empty string")
	}
}

func TestValidate_GarbageString(t *testing.T) {
	ts := newTestTokenService(t)

	_, err := ts.Validate("not.a.jwt.token", KindAccess)
	if err == nil {
		t.Fatal("Validate() should return an error for a garbage string")
	}
}
