// Package service contains the business logic layer.
//
// Services accept primitives and plain structs, enforce the business rules,
// and return domain errors from the apperror taxonomy. They know nothing
// about HTTP; handlers translate their errors to status codes. Dependencies
// are interfaces, injected by the composition root in internal/server.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/model"
	"github.com/sakif/todo-api/internal/repository"
)

// Password length bounds enforced on signup. The upper bound matches
// bcrypt's 72-byte input limit, past which bcrypt would truncate silently.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxEmailLength    = 255
)

// AuthService implements credential issuance and identity resolution:
// signup, login, token refresh, and mapping bearer tokens back to live user
// records for the middleware.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// compile-time check: AuthService is the middleware's identity resolver.
var _ auth.IdentityResolver = (*AuthService)(nil)

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// TokenPair bundles a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Signup registers a new account.
//
// The plaintext password exists only on the stack of this call: it is hashed
// immediately and never stored or logged. Failure modes: validation error
// for a malformed email or out-of-bounds password length, invalid-input for
// a confirmation mismatch, conflict for an already registered email.
func (s *AuthService) Signup(ctx context.Context, email, password, confirmPassword string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength))
	}
	if password != confirmPassword {
		return apperror.InvalidInput("passwords do not match")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}

	// The repository reports a duplicate email as a conflict via the UNIQUE
	// index, which also covers two concurrent signups racing on the same
	// address.
	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return nil
}

// Login verifies credentials and issues a token pair.
//
// An unknown email and a wrong password return the same unauthenticated
// error, so a caller can not probe which addresses are registered. A known,
// verified account that has been deactivated is a distinct forbidden error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid email or password")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthenticated("invalid email or password")
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("account is deactivated")
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair.
// Rotation is not enforced server-side: the old refresh token stays valid
// until its natural expiry, consistent with the stateless token design.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	user, err := s.ResolveRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.issuePair(user)
}

// ResolveAccessToken validates an access token and loads its user. This is
// the identity resolution behind every authenticated request; it performs
// one storage read per call and no caching, so deactivating an account takes
// effect on the next request.
func (s *AuthService) ResolveAccessToken(ctx context.Context, token string) (*model.User, error) {
	return s.resolve(ctx, token, auth.KindAccess)
}

// ResolveRefreshToken is the refresh-flow counterpart; an access token
// presented here fails the kind check.
func (s *AuthService) ResolveRefreshToken(ctx context.Context, token string) (*model.User, error) {
	return s.resolve(ctx, token, auth.KindRefresh)
}

func (s *AuthService) resolve(ctx context.Context, token string, kind auth.TokenKind) (*model.User, error) {
	claims, err := s.tokens.Validate(token, kind)
	if err != nil {
		// Expired and invalid are logged apart but both unauthenticated.
		s.logger.Debug("token rejected", slog.String("kind", string(kind)), slog.String("error", err.Error()))
		return nil, apperror.Unauthenticated("could not validate credentials")
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		// A valid signature over a non-existent subject is still a failed
		// authentication, not a 404.
		return nil, apperror.Unauthenticated("could not validate credentials")
	}

	if !user.IsActive {
		return nil, apperror.Forbidden("account is deactivated")
	}

	return user, nil
}

func (s *AuthService) issuePair(user *model.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing access token for user %s: %w", user.ID, err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing refresh token for user %s: %w", user.ID, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// normalizeEmail trims, lowercases and syntax-checks an email address.
// mail.ParseAddress accepts display-name forms ("A <a@b.c>"), so the parsed
// address must round-trip to the input to be accepted.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(email) > MaxEmailLength {
		return "", apperror.ValidationFailed("email", "a valid email address is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.ValidationFailed("email", "a valid email address is required")
	}
	return email, nil
}
