// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Shapes

const (
	// SessionIDLength is the byte length of a session id (64 hex chars).
	SessionIDLength = 32

	// APITokenLength is the byte length of an opaque API token (40 hex chars).
	APITokenLength = 20

	// MinPasswordLen is the shortest password accepted when creating users.
	MinPasswordLen = 8
)

// # Client Messages

const (
	// msgBadCredentials is returned by the session and token endpoints.
	msgBadCredentials = "Unable to log in with provided credentials."

	// msgNoActiveAccount is returned by the JWT pair endpoint.
	msgNoActiveAccount = "No active account found with the given credentials"

	// msgBadRefresh is returned when a refresh token cannot be used.
	msgBadRefresh = "Token is invalid or expired"
)
