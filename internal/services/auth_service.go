package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/auth-service-be/internal/auth"
	"github.com/isdelr/auth-service-be/internal/security"
	"github.com/isdelr/auth-service-be/internal/store"
)

// ErrValidation is returned when a required field is empty.
var ErrValidation = errors.New("username and password required")

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password, so the response shape never reveals which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token    string
	UserID   int64
	Username string
}

// VerifyStatus classifies the outcome of checking an Authorization header.
type VerifyStatus int

const (
	VerifyValid VerifyStatus = iota
	VerifyMissing
	VerifyExpired
	VerifyInvalid
)

// VerifyResult carries the token's identity claims when Status is VerifyValid.
type VerifyResult struct {
	Status   VerifyStatus
	UserID   int64
	Username string
}

// AuthServiceProvider defines the interface for the auth service.
type AuthServiceProvider interface {
	Register(ctx context.Context, username, password, email string) (int64, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	VerifyHeader(authHeader string) VerifyResult
	HealthCheck(ctx context.Context) error
}

// AuthService orchestrates the password hasher, token issuer and credential
// store to implement registration, login and token verification.
type AuthService struct {
	store  store.UserStore
	hasher security.PasswordHasher
	issuer *auth.Issuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userStore store.UserStore, hasher security.PasswordHasher, issuer *auth.Issuer) *AuthService {
	return &AuthService{store: userStore, hasher: hasher, issuer: issuer}
}

// Register hashes the password and inserts a new user, returning the id the
// store assigned. A username collision surfaces as store.ErrDuplicateUsername.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (int64, error) {
	if username == "" || password == "" {
		return 0, ErrValidation
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.store.CreateUser(ctx, username, passwordHash, email)
}

// Login checks the credentials against the store and issues a token on
// success. An unknown username and a wrong password both return
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, ErrValidation
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Username)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

// VerifyHeader validates the Authorization header value. It never touches the
// store: the token is checked offline against the signing secret and its
// embedded expiry.
func (s *AuthService) VerifyHeader(authHeader string) VerifyResult {
	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenStr == "" {
		return VerifyResult{Status: VerifyMissing}
	}

	claims, status := s.issuer.Verify(tokenStr)
	switch status {
	case auth.TokenValid:
		return VerifyResult{Status: VerifyValid, UserID: claims.UserID, Username: claims.Username}
	case auth.TokenExpired:
		return VerifyResult{Status: VerifyExpired}
	default:
		return VerifyResult{Status: VerifyInvalid}
	}
}

// HealthCheck verifies the credential store is reachable.
func (s *AuthService) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}
