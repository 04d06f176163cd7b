// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository persists user accounts.
//
// Lookups return a 404 [apperr.AppError] for unknown users. Emails are
// matched case-insensitively.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// # Opaque Token Data Access

// TokenRepository stores one API token per user.
type TokenRepository interface {

	/*
		GetOrCreate returns the user's token, storing candidate when the user has none yet.

		Parameters:
		  - ctx: context.Context
		  - userID: int64
		  - candidate: a freshly generated key, used only on first issue

		Returns:
		  - string: the key now on record
		  - error: persistence failures
	*/
	GetOrCreate(ctx context.Context, userID int64, candidate string) (string, error)

	// FindUser returns the owner of key, or a 404 [apperr.AppError].
	FindUser(ctx context.Context, key string) (*User, error)
}

// # Session Data Access

// SessionData is the payload stored for a browser session.
type SessionData struct {
	UserID  int64  `json:"uid"`
	Email   string `json:"eml"`
	IsStaff bool   `json:"stf"`
}

// SessionRepository stores browser sessions with a TTL.
type SessionRepository interface {
	Create(ctx context.Context, id string, data SessionData, ttl time.Duration) error

	// Get returns (nil, nil) for unknown or expired sessions.
	Get(ctx context.Context, id string) (*SessionData, error)

	Delete(ctx context.Context, id string) error
}
