// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/constants"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	"github.com/taibuivan/blango/internal/platform/respond"
	"github.com/taibuivan/blango/internal/platform/sec"
)

// TokenVerifier verifies JWT access tokens ("Authorization: Bearer <jwt>").
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// CredentialResolver resolves opaque API tokens and browser sessions into identities.
//
// Both methods return (nil, nil) when the credential is unknown or expired and
// reserve errors for infrastructure failures.
type CredentialResolver interface {
	ResolveAPIToken(ctx context.Context, key string) (*sec.AuthClaims, error)
	ResolveSession(ctx context.Context, sessionID string) (*sec.AuthClaims, error)
}

// Authenticate identifies the caller and stores [*sec.AuthClaims] in the context.
//
// # Flow
//  1. "Authorization: Bearer <jwt>" is verified with the [TokenVerifier].
//  2. "Authorization: Token <key>" is looked up with the [CredentialResolver].
//  3. Without an Authorization header, the session cookie is tried.
//  4. Otherwise the request proceeds as anonymous.
//
// A malformed or invalid Authorization header is rejected with 401. A stale
// session cookie is ignored, the request continues anonymously.
func Authenticate(verifier TokenVerifier, resolver CredentialResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			var claims *sec.AuthClaims
			var err error

			switch {
			case authHeader != "":
				claims, err = fromAuthorizationHeader(ctx, authHeader, verifier, resolver)
				if err != nil {
					respond.Error(writer, request, err)
					return
				}
			default:
				if cookie, cookieErr := request.Cookie(constants.SessionCookieName); cookieErr == nil && cookie.Value != "" {
					claims, err = resolver.ResolveSession(ctx, cookie.Value)
					if err != nil {
						respond.Error(writer, request, apperr.Internal(err))
						return
					}
				}
			}

			if claims == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx = ctxutil.WithAuthUser(ctx, claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.Int64("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func fromAuthorizationHeader(ctx context.Context, header string, verifier TokenVerifier, resolver CredentialResolver) (*sec.AuthClaims, error) {
	scheme, credential, found := strings.Cut(header, " ")
	credential = strings.TrimSpace(credential)
	if !found || credential == "" {
		return nil, apperr.Unauthorized("Invalid authorization header")
	}

	switch {
	case strings.EqualFold(scheme, constants.SchemeBearer):
		claims, err := verifier.VerifyToken(credential)
		if err != nil {
			return nil, apperr.Unauthorized("Invalid or expired token")
		}
		return claims, nil

	case strings.EqualFold(scheme, constants.SchemeToken):
		claims, err := resolver.ResolveAPIToken(ctx, credential)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if claims == nil {
			return nil, apperr.Unauthorized("Invalid token")
		}
		return claims, nil
	}

	return nil, apperr.Unauthorized("Unsupported authorization scheme")
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication credentials were not provided"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireStaff blocks requests from anyone but staff users. It implies [RequireAuth].
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())

		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication credentials were not provided"))
			return
		}

		if !claims.Staff() {
			respond.Error(writer, request, apperr.Forbidden("You do not have permission to perform this action"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
// It returns nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
