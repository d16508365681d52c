package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() with correct password: unexpected error %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, _ := ps.Hash("correct horse battery staple")

	err := ps.Verify(hash, "incorrect horse")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() error = %v, want ErrPasswordMismatch", err)
	}
}

// A malformed stored hash must fail exactly like a wrong password, so a
// caller cannot tell a corrupted row apart from bad credentials.
func TestVerify_MalformedHash(t *testing.T) {
	ps := NewPasswordServiceForTest()

	err := ps.Verify("not-a-bcrypt-hash", "whatever")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() error = %v, want ErrPasswordMismatch", err)
	}

	err = ps.Verify("", "whatever")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() with empty hash: error = %v, want ErrPasswordMismatch", err)
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash1, _ := ps.Hash("same password")
	hash2, _ := ps.Hash("same password")

	// bcrypt embeds a random salt; identical inputs must not collide.
	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	// 72 bytes is bcrypt's limit; 73 must be rejected rather than truncated.
	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Errorf("Hash() rejected a 72-byte password: %v", err)
	}
	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Hash() should reject a 73-byte password")
	}
}

func TestNewPasswordService_BadCostFallsBack(t *testing.T) {
	ps := NewPasswordService(-1)

	// Must still produce verifiable hashes at the default cost.
	hash, err := ps.Hash("some password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if err := ps.Verify(hash, "some password"); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}
