package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind discriminates access tokens from refresh tokens. The kind is
// embedded in the token's claims and checked on validation, so a long-lived
// refresh token can never be presented where a short-lived access token is
// required, and vice versa.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

const issuer = "todo-api"

// Token validation failure modes. Expired tokens are distinguished from all
// other failures (bad signature, malformed structure, wrong kind, wrong
// issuer) so the caller can log them apart; both map to 401 at the boundary.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// Claims is the decoded payload of a validated token.
//
// Subject is the internal user ID. Email is informational — it is embedded
// in access tokens for debugging convenience but identity resolution relies
// on Subject alone, so a stale email in an old token is harmless.
type Claims struct {
	Kind  TokenKind `json:"kind"`
	Email string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed, expiring JWTs.
//
// Tokens are signed with HS256 using a shared secret. The service is
// stateless: no token is ever persisted, and a token stays valid until its
// expiry elapses — there is no revocation list.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now is the clock used for issued-at and expiry. Injectable so tests
	// can probe the exact expiry boundary. Always returns UTC.
	now func() time.Time
}

// NewTokenService creates a TokenService.
// The secret should be at least 32 bytes of random data in production
// (JWT_SECRET=$(openssl rand -hex 32)); anything under 16 is rejected.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock replaces the service's clock and returns the service. Test use
// only — production code never calls this.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// IssueAccess signs a new access token for userID. The email lands in the
// claims for observability; it carries no authority.
func (s *TokenService) IssueAccess(userID, email string) (string, error) {
	return s.issue(userID, email, KindAccess, s.accessTTL)
}

// IssueRefresh signs a new refresh token for userID.
func (s *TokenService) IssueRefresh(userID string) (string, error) {
	return s.issue(userID, "", KindRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID, email string, kind TokenKind, ttl time.Duration) (string, error) {
	now := s.now()

	c := Claims{
		Kind:  kind,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing %s token: %w", kind, err)
	}

	return signed, nil
}

// Validate parses and verifies a token and checks that it is of the expected
// kind.
//
// Checks performed:
//   - signature verifies against the shared secret
//   - signing algorithm is HS256 (jwt.WithValidMethods blocks the classic
//     algorithm-confusion downgrade)
//   - issuer matches, expiry claim is present and in the future
//   - the kind claim equals expected
//
// Returns ErrTokenExpired when the token's lifetime has elapsed and
// ErrTokenInvalid for every other failure, including a kind mismatch.
func (s *TokenService) Validate(tokenStr string, expected TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if c.Kind != expected {
		return nil, fmt.Errorf("%w: %s token presented where %s is required",
			ErrTokenInvalid, c.Kind, expected)
	}

	return c, nil
}
