// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account exposes the public side of user accounts.

It serves user details by email (the target of post author hyperlinks),
resolves authors for the post service and manages author profiles, the
short bio shown next to a post on the server-rendered pages.
*/
package account

import (
	"context"
)

// # Domain Entities

// UserDetail is the public representation of a user.
type UserDetail struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Profile is a user together with their author profile.
// Bio is empty for users without one.
type Profile struct {
	UserID  int64
	IsStaff bool
	UserDetail
	Bio string
}

// Field names used in request payloads and validation errors.
const (
	FieldBio = "bio"
)

// MaxBioLen bounds the author bio.
const MaxBioLen = 2000

// # Repository Contracts

// Repository reads users and writes author profiles.
type Repository interface {

	/*
		FindByEmail loads a user and their bio by email, case-insensitively.

		Returns:
		  - *Profile: Loaded profile
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*Profile, error)

	// FindByID loads a user and their bio by id.
	FindByID(context context.Context, id int64) (*Profile, error)

	// UpsertBio creates or replaces the author profile of a user.
	UpsertBio(context context.Context, userID int64, bio string) error
}
