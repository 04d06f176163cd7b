// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth owns user credentials and the three ways to present them.

  - Sessions: POST /auth/login stores a session in Redis and sets the
    "sessionid" cookie. Server-rendered forms use the same session.
  - Opaque tokens: POST /token-auth returns the user's single API token,
    sent back as "Authorization: Token <key>".
  - JWT: POST /jwt returns an access/refresh pair, the access token is sent
    as "Authorization: Bearer <jwt>" and renewed through POST /jwt/refresh.

All three resolve to the same [sec.AuthClaims] in the request context.
*/
package auth

import (
	"time"

	"github.com/taibuivan/blango/internal/platform/sec"
)

// User is a registered account. Users sign in with their email address.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	DateJoined   time.Time `json:"date_joined"`
}

// Identity returns what tokens and sessions carry about the user.
func (user *User) Identity() sec.Identity {
	return sec.Identity{UserID: user.ID, Email: user.Email, IsStaff: user.IsStaff}
}

// Field names used in request payloads and validation errors.
const (
	FieldEmail          = "email"
	FieldUsername       = "username"
	FieldPassword       = "password"
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldRefresh        = "refresh"
	FieldAccess         = "access"
	FieldToken          = "token"
	FieldNonFieldErrors = "non_field_errors"
)
