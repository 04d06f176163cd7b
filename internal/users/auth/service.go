// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/sec"
	"github.com/taibuivan/blango/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider mints and checks JWTs.
type TokenProvider interface {
	GenerateAccessToken(identity sec.Identity, timeToLive time.Duration) (string, error)
	GenerateRefreshToken(identity sec.Identity, timeToLive time.Duration) (string, error)
	VerifyRefreshToken(token string) (*sec.AuthClaims, error)
}

// Lifetimes configures how long issued credentials stay valid.
type Lifetimes struct {
	Access  time.Duration
	Refresh time.Duration
	Session time.Duration
}

// Service implements the identity use cases.
//
// It also resolves opaque tokens and sessions for the authentication
// middleware (see [Service.ResolveAPIToken] and [Service.ResolveSession]).
type Service struct {
	users     UserRepository
	tokens    TokenRepository
	sessions  SessionRepository
	provider  TokenProvider
	lifetimes Lifetimes
	logger    *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	tokens TokenRepository,
	sessions SessionRepository,
	provider TokenProvider,
	lifetimes Lifetimes,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		sessions:  sessions,
		provider:  provider,
		lifetimes: lifetimes,
		logger:    logger,
	}
}

// # Accounts

// CreateUserInput holds the data needed to register an account.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsStaff   bool
}

/*
CreateUser validates, hashes, and persists a new account.

Returns:
  - *User: Created entity
  - error: Validation, Conflict (email taken) or storage errors
*/
func (service *Service) CreateUser(context context.Context, input CreateUserInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email).
		MinLen(FieldPassword, input.Password, MinPasswordLen).
		MaxLen(FieldFirstName, input.FirstName, 150).
		MaxLen(FieldLastName, input.LastName, 150)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsStaff:      input.IsStaff,
		IsActive:     true,
	}
	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_created", slog.Int64("user_id", user.ID), slog.Bool("staff", user.IsStaff))
	return user, nil
}

// authenticate checks credentials. Unknown emails, wrong passwords and
// inactive accounts are indistinguishable to the caller.
func (service *Service) authenticate(context context.Context, email, password string) (*User, bool, error) {
	user, err := service.users.FindByEmail(context, strings.TrimSpace(email))
	if apperr.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !user.IsActive || !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, false, nil
	}
	return user, true, nil
}

func credentialsRequired(emailField, email, password string) error {
	validator := &validate.Validator{}
	validator.Required(emailField, email).Required(FieldPassword, password)
	return validator.Err()
}

// # Sessions

// LoginSession is an established browser session.
type LoginSession struct {
	ID        string
	ExpiresAt time.Time
	User      *User
}

/*
Login verifies credentials and opens a Redis-backed session.

Returns:
  - *LoginSession: session id for the cookie
  - error: 400 for missing fields, 401 for bad credentials
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginSession, error) {
	if err := credentialsRequired(FieldEmail, email, password); err != nil {
		return nil, err
	}

	user, ok, err := service.authenticate(context, email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	sessionID, err := sec.GenerateSecureToken(SessionIDLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_id_failed: %w", err)
	}

	data := SessionData{UserID: user.ID, Email: user.Email, IsStaff: user.IsStaff}
	if err := service.sessions.Create(context, sessionID, data, service.lifetimes.Session); err != nil {
		return nil, fmt.Errorf("auth_service_session_create_failed: %w", err)
	}

	service.logger.Info("user_logged_in", slog.Int64("user_id", user.ID))
	return &LoginSession{
		ID:        sessionID,
		ExpiresAt: time.Now().Add(service.lifetimes.Session),
		User:      user,
	}, nil
}

// Logout ends a session. Unknown sessions are ignored.
func (service *Service) Logout(context context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := service.sessions.Delete(context, sessionID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// ResolveSession maps a session cookie to claims, or (nil, nil) when the session is gone.
func (service *Service) ResolveSession(context context.Context, sessionID string) (*sec.AuthClaims, error) {
	data, err := service.sessions.Get(context, sessionID)
	if err != nil || data == nil {
		return nil, err
	}
	return &sec.AuthClaims{UserID: data.UserID, Email: data.Email, IsStaff: data.IsStaff}, nil
}

// # Opaque Tokens

/*
IssueAPIToken returns the user's API token, creating it on first use.

Description: Repeated calls return the same key.

Returns:
  - string: 40 hex characters
  - error: 400 with non_field_errors for bad credentials
*/
func (service *Service) IssueAPIToken(context context.Context, email, password string) (string, error) {
	if err := credentialsRequired(FieldUsername, email, password); err != nil {
		return "", err
	}

	user, ok, err := service.authenticate(context, email, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", validate.RequiredError(FieldNonFieldErrors, msgBadCredentials)
	}

	return service.TokenForUser(context, user)
}

// TokenForUser returns the user's API token without checking a password.
func (service *Service) TokenForUser(context context.Context, user *User) (string, error) {
	candidate, err := sec.GenerateSecureToken(APITokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}
	return service.tokens.GetOrCreate(context, user.ID, candidate)
}

// ResolveAPIToken maps an API token to claims, or (nil, nil) when the key is unknown.
func (service *Service) ResolveAPIToken(context context.Context, key string) (*sec.AuthClaims, error) {
	user, err := service.tokens.FindUser(context, key)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}
	return user.Identity().Claims(), nil
}

// # JWT

// TokenPair is the result of the JWT endpoints. Refresh is empty on refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// ObtainJWTPair verifies credentials and mints an access/refresh pair.
func (service *Service) ObtainJWTPair(context context.Context, email, password string) (*TokenPair, error) {
	if err := credentialsRequired(FieldEmail, email, password); err != nil {
		return nil, err
	}

	user, ok, err := service.authenticate(context, email, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Unauthorized(msgNoActiveAccount)
	}

	access, err := service.provider.GenerateAccessToken(user.Identity(), service.lifetimes.Access)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}
	refresh, err := service.provider.GenerateRefreshToken(user.Identity(), service.lifetimes.Refresh)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

/*
RefreshJWT exchanges a refresh token for a new access token.

Description: The user is re-read so staff changes and deactivations take
effect at the next refresh.
*/
func (service *Service) RefreshJWT(context context.Context, refresh string) (*TokenPair, error) {
	validator := &validate.Validator{}
	if err := validator.Required(FieldRefresh, refresh).Err(); err != nil {
		return nil, err
	}

	claims, err := service.provider.VerifyRefreshToken(refresh)
	if err != nil {
		return nil, apperr.Unauthorized(msgBadRefresh)
	}

	user, err := service.users.FindByID(context, claims.UserID)
	if apperr.IsNotFound(err) {
		return nil, apperr.Unauthorized(msgBadRefresh)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized(msgBadRefresh)
	}

	access, err := service.provider.GenerateAccessToken(user.Identity(), service.lifetimes.Access)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}
	return &TokenPair{Access: access}, nil
}

// FindUserByEmail exposes user lookup to the CLI.
func (service *Service) FindUserByEmail(context context.Context, email string) (*User, error) {
	return service.users.FindByEmail(context, email)
}
