// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blango/internal/platform/middleware"
	requestutil "github.com/taibuivan/blango/internal/platform/request"
	"github.com/taibuivan/blango/internal/platform/respond"
)

// Handler implements the user endpoints.
type Handler struct {
	accountService *Service
	readCache      func(http.Handler) http.Handler
}

// NewHandler constructs a new account [Handler]. readCache wraps the
// user detail route and may be nil.
func NewHandler(service *Service, readCache func(http.Handler) http.Handler) *Handler {
	if readCache == nil {
		readCache = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{accountService: service, readCache: readCache}
}

// RegisterRoutes mounts the routes under /users.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(handler.readCache).Get("/{email}", handler.getUser)
	router.With(middleware.RequireAuth).Put("/{email}/profile", handler.updateProfile)
}

// emailParam reads the email path segment, which clients may percent-encode.
func emailParam(request *http.Request) string {
	raw := requestutil.Param(request, "email")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

/*
GET /api/v1/users/{email}.

Response:
  - 200: UserDetail
  - 404: Unknown user
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.GetUser(request.Context(), emailParam(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

type profileRequest struct {
	Bio string `json:"bio"`
}

type profileResponse struct {
	UserDetail
	Bio string `json:"bio"`
}

/*
PUT /api/v1/users/{email}/profile.

Request:
  - body: {"bio": "..."}

Response:
  - 200: UserDetail with bio
  - 403: Not the user and not staff
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.SetBio(request.Context(), claims, emailParam(request), input.Bio)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileResponse{UserDetail: profile.UserDetail, Bio: profile.Bio})
}
