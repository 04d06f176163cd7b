// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/permission"
	"github.com/taibuivan/blango/internal/platform/sec"
	"github.com/taibuivan/blango/internal/platform/validate"
)

// # Service Layer

// Service serves public user data and author profiles.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Lookups

/*
GetUser returns the public detail of the user with the given email.

Returns:
  - *UserDetail: first name, last name and email
  - error: 404 for unknown users
*/
func (service *Service) GetUser(context context.Context, email string) (*UserDetail, error) {
	profile, err := service.repository.FindByEmail(context, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return &profile.UserDetail, nil
}

// GetProfile returns a user with their bio.
func (service *Service) GetProfile(context context.Context, userID int64) (*Profile, error) {
	return service.repository.FindByID(context, userID)
}

// FindAuthorByEmail resolves post author references.
func (service *Service) FindAuthorByEmail(context context.Context, email string) (*post.Author, error) {
	profile, err := service.repository.FindByEmail(context, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return &post.Author{
		ID:        profile.UserID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
	}, nil
}

// # Author Profiles

/*
SetBio replaces the bio of the user with the given email.

Description: Users may edit their own profile; staff may edit anyone's.

Returns:
  - *Profile: the updated profile
  - error: 401 anonymous, 403 someone else's profile, 404 unknown user
*/
func (service *Service) SetBio(context context.Context, claims *sec.AuthClaims, email, bio string) (*Profile, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication credentials were not provided")
	}

	profile, err := service.repository.FindByEmail(context, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	check := permission.Check{Method: http.MethodPut, Viewer: claims, AuthorID: profile.UserID}
	if err := permission.Authorize(check, permission.AuthorOrReadOnly, permission.StaffOverride); err != nil {
		return nil, err
	}

	bio = strings.TrimSpace(bio)
	validator := &validate.Validator{}
	if err := validator.MaxLen(FieldBio, bio, MaxBioLen).Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpsertBio(context, profile.UserID, bio); err != nil {
		return nil, err
	}

	service.logger.Info("author_profile_updated",
		slog.Int64("user_id", profile.UserID),
		slog.Int64("editor_id", claims.UserID),
	)

	profile.Bio = bio
	return profile, nil
}
