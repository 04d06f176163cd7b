// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/blango/internal/platform/constants"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	"github.com/taibuivan/blango/internal/platform/sec"
)

// csrfTokenLength is the byte length of CSRF tokens (32 bytes = 64 hex chars).
const csrfTokenLength = 32

// CSRF provides double-submit cookie protection for the server-rendered forms.
//
// A random token is kept in a cookie and exposed to templates through
// [ctxutil.GetCSRFToken]. Unsafe requests must echo it in the X-CSRFToken
// header or the csrfmiddlewaretoken form field.
func CSRF(secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Ensure a CSRF token cookie exists
			token := ""
			if cookie, err := request.Cookie(constants.CSRFCookieName); err == nil {
				token = cookie.Value
			}

			if token == "" {
				generated, err := sec.GenerateSecureToken(csrfTokenLength)
				if err != nil {
					http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				token = generated
				http.SetCookie(writer, &http.Cookie{
					Name:     constants.CSRFCookieName,
					Value:    token,
					Path:     "/",
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}

			request = request.WithContext(ctxutil.WithCSRFToken(request.Context(), token))

			// 2. Safe methods don't need validation
			switch request.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Header first, then form field
			submitted := request.Header.Get(constants.HeaderXCSRFToken)
			if submitted == "" {
				submitted = request.FormValue(constants.CSRFFormField)
			}

			if !sec.ConstantTimeEqual(token, submitted) {
				http.Error(writer, "CSRF verification failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
