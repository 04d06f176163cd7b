// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/blango/internal/platform/request"
	"github.com/taibuivan/blango/internal/platform/sec"
)

func withParam(request *http.Request, key, value string) *http.Request {
	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add(key, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
}

func TestInt64Param(t *testing.T) {
	request := withParam(httptest.NewRequest(http.MethodGet, "/posts/12", nil), "id", "12")
	id, err := requestutil.Int64Param(request, "id", "Post")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"abc", "0", "-3", ""} {
		request := withParam(httptest.NewRequest(http.MethodGet, "/posts/x", nil), "id", raw)
		_, err := requestutil.Int64Param(request, "id", "Post")
		appError := apperr.As(err)
		require.NotNil(t, appError, raw)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	}
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Title string `json:"title"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"T"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &target))
	assert.Equal(t, "T", target.Title)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	assert.Error(t, requestutil.DecodeJSON(request, &target))
}

func TestRequiredClaims(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := requestutil.RequiredClaims(request)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: 5})
	claims, err := requestutil.RequiredClaims(request.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
}

func TestBaseURL(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "http://blango.local/api/v1/posts", nil)
	assert.Equal(t, "http://blango.local", requestutil.BaseURL(request))

	request.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://blango.local", requestutil.BaseURL(request))
}
