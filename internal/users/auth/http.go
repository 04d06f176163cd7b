// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blango/internal/platform/constants"
	requestutil "github.com/taibuivan/blango/internal/platform/request"
	"github.com/taibuivan/blango/internal/platform/respond"
	"github.com/taibuivan/blango/internal/platform/validate"
)

// # Definitions & Constructors

// Handler exposes the credential endpoints.
type Handler struct {
	authService  *Service
	secureCookie bool
}

// NewHandler constructs a new [Handler]. secureCookie marks the session
// cookie Secure, which production deployments behind TLS should set.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{authService: service, secureCookie: secureCookie}
}

// RegisterRoutes mounts the credential endpoints on the API router.
//
// # Endpoints
//   - POST /auth/login   : Opens a session and sets the cookie.
//   - POST /auth/logout  : Closes the session.
//   - POST /token-auth   : Returns the caller's opaque API token.
//   - POST /jwt          : Returns an access/refresh pair.
//   - POST /jwt/refresh  : Returns a fresh access token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/login", handler.login)
	router.Post("/auth/logout", handler.logout)
	router.Post("/token-auth", handler.obtainAPIToken)
	router.Post("/jwt", handler.obtainJWT)
	router.Post("/jwt/refresh", handler.refreshJWT)
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// # Sessions

/*
Login opens a browser session.

POST /api/v1/auth/login

Response:
  - 200: User: the signed-in user, with the session cookie set
  - 400: Missing fields
  - 401: Bad credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	SetSessionCookie(writer, session, handler.secureCookie)
	respond.OK(writer, session.User)
}

/*
Logout closes the caller's session, if any.

POST /api/v1/auth/logout

Response:
  - 204: Always
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	ClearSessionCookie(writer, handler.secureCookie)
	respond.NoContent(writer)
}

// SetSessionCookie writes the session cookie for session.
func SetSessionCookie(writer http.ResponseWriter, session *LoginSession, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(writer http.ResponseWriter, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// # Opaque Tokens

/*
ObtainAPIToken exchanges credentials for the caller's API token.

POST /api/v1/token-auth

Description: Accepts JSON or form-encoded "username" (the email) and "password".

Response:
  - 200: {"token": "<40 hex chars>"}
  - 400: Bad credentials, reported under non_field_errors
*/
func (handler *Handler) obtainAPIToken(writer http.ResponseWriter, request *http.Request) {
	var input tokenAuthRequest

	mediaType, _, _ := mime.ParseMediaType(request.Header.Get(constants.HeaderContentType))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := request.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
		input.Username = request.FormValue(FieldUsername)
		input.Password = request.FormValue(FieldPassword)
	default:
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	token, err := handler.authService.IssueAPIToken(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldToken: token})
}

// # JWT

/*
ObtainJWT exchanges credentials for an access/refresh pair.

POST /api/v1/jwt

Response:
  - 200: {"access": "...", "refresh": "..."}
  - 401: No active account found with the given credentials
*/
func (handler *Handler) obtainJWT(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.ObtainJWTPair(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
RefreshJWT exchanges a refresh token for a new access token.

POST /api/v1/jwt/refresh

Response:
  - 200: {"access": "..."}
  - 401: Token is invalid or expired
*/
func (handler *Handler) refreshJWT(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.RefreshJWT(request.Context(), input.Refresh)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}
