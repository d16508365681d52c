// Package auth provides the credential and token primitives: bcrypt password
// hashing, JWT issuance/validation and the bearer-token HTTP middleware.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the bcrypt work factor used when none is configured.
//
// Cost 12 takes roughly 250ms on current server hardware — negligible for a
// login, expensive for an attacker running a dictionary. Tune it so hashing
// stays in the 200–300ms range on your production machines.
const DefaultBcryptCost = 12

// ErrPasswordMismatch is returned by Verify when the password does not match
// the stored hash, including when the stored hash is malformed. The two cases
// are deliberately indistinguishable to callers.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService hashes and verifies passwords with bcrypt.
//
// bcrypt generates a random salt per hash and embeds salt and cost in the
// output string, so the hash column is self-contained. The cost is injected
// so tests can run at bcrypt's minimum cost instead of paying ~250ms per
// hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given bcrypt cost.
// Costs below bcrypt's minimum fall back to DefaultBcryptCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	return &PasswordService{cost: cost}
}

// NewPasswordServiceForTest creates a PasswordService at bcrypt.MinCost.
// Not for production use — minimum cost is trivially brute-forceable.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{cost: bcrypt.MinCost}
}

// Hash hashes a plaintext password.
//
// bcrypt silently truncates input beyond 72 bytes; longer passwords are
// rejected explicitly so two distinct long passwords can never verify against
// the same hash.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
//
// Returns nil on match and ErrPasswordMismatch on any failure — wrong
// password, empty hash or a hash bcrypt cannot parse. Collapsing those cases
// keeps login responses identical regardless of why verification failed.
// bcrypt's comparison is constant-time internally.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
