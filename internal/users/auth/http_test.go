// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blango/internal/users/auth"
)

func newRouter(fx *fixture) http.Handler {
	router := chi.NewRouter()
	router.Route("/api/v1", auth.NewHandler(fx.service, false).RegisterRoutes)
	return router
}

func post(router http.Handler, path, contentType, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", contentType)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

/*
TestHandler_SessionLifecycle logs in, checks the cookie, then logs out.
*/
func TestHandler_SessionLifecycle(t *testing.T) {
	fx := newFixture(t)
	router := newRouter(fx)

	recorder := post(router, "/api/v1/auth/login", "application/json",
		`{"email":"ann@example.com","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ann@example.com", decodeData(t, recorder)["email"])
	assert.NotContains(t, recorder.Body.String(), "password")

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sessionid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	require.Contains(t, fx.sessions.data, cookies[0].Value)

	recorder = post(router, "/api/v1/auth/logout", "application/json", "", cookies[0])
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.NotContains(t, fx.sessions.data, cookies[0].Value)

	cleared := recorder.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestHandler_LoginRejects(t *testing.T) {
	fx := newFixture(t)
	router := newRouter(fx)

	recorder := post(router, "/api/v1/auth/login", "application/json", `{"email":"ann@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())

	recorder = post(router, "/api/v1/auth/login", "application/json", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_TokenAuth accepts both JSON and form bodies.
*/
func TestHandler_TokenAuth(t *testing.T) {
	fx := newFixture(t)
	router := newRouter(fx)

	recorder := post(router, "/api/v1/token-auth", "application/json",
		`{"username":"ann@example.com","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	token, _ := decodeData(t, recorder)["token"].(string)
	assert.Len(t, token, 40)

	form := url.Values{"username": {"ann@example.com"}, "password": {password}}
	recorder = post(router, "/api/v1/token-auth", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, token, decodeData(t, recorder)["token"])

	form.Set("password", "wrong")
	recorder = post(router, "/api/v1/token-auth", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "non_field_errors")
}

/*
TestHandler_JWT obtains a pair and refreshes it over HTTP.
*/
func TestHandler_JWT(t *testing.T) {
	fx := newFixture(t)
	router := newRouter(fx)

	recorder := post(router, "/api/v1/jwt", "application/json",
		`{"email":"ann@example.com","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeData(t, recorder)
	refresh, _ := data["refresh"].(string)
	require.NotEmpty(t, refresh)
	assert.NotEmpty(t, data["access"])

	recorder = post(router, "/api/v1/jwt/refresh", "application/json", `{"refresh":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	data = decodeData(t, recorder)
	assert.NotEmpty(t, data["access"])
	assert.NotContains(t, data, "refresh")

	recorder = post(router, "/api/v1/jwt/refresh", "application/json", `{"refresh":"garbage"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
