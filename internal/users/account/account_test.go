// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	"github.com/taibuivan/blango/internal/platform/sec"
	"github.com/taibuivan/blango/internal/users/account"
)

type memoryRepository struct {
	mu       sync.Mutex
	profiles []*account.Profile
}

func (repository *memoryRepository) find(match func(*account.Profile) bool) (*account.Profile, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, profile := range repository.profiles {
		if match(profile) {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *memoryRepository) FindByEmail(_ context.Context, email string) (*account.Profile, error) {
	return repository.find(func(profile *account.Profile) bool { return strings.EqualFold(profile.Email, email) })
}

func (repository *memoryRepository) FindByID(_ context.Context, id int64) (*account.Profile, error) {
	return repository.find(func(profile *account.Profile) bool { return profile.UserID == id })
}

func (repository *memoryRepository) UpsertBio(_ context.Context, userID int64, bio string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, profile := range repository.profiles {
		if profile.UserID == userID {
			profile.Bio = bio
		}
	}
	return nil
}

func newService() (*account.Service, *memoryRepository) {
	repository := &memoryRepository{profiles: []*account.Profile{
		{UserID: 1, UserDetail: account.UserDetail{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}},
		{UserID: 2, UserDetail: account.UserDetail{FirstName: "Bob", Email: "bob@example.com"}},
	}}
	return account.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

func TestFindAuthorByEmail(t *testing.T) {
	service, _ := newService()

	author, err := service.FindAuthorByEmail(context.Background(), " ANN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), author.ID)
	assert.Equal(t, "Lee", author.LastName)

	_, err = service.FindAuthorByEmail(context.Background(), "ghost@example.com")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestSetBio checks that only the user or staff may edit a profile.
*/
func TestSetBio(t *testing.T) {
	service, repository := newService()
	ctx := context.Background()

	ann := &sec.AuthClaims{UserID: 1, Email: "ann@example.com"}
	bob := &sec.AuthClaims{UserID: 2, Email: "bob@example.com"}
	staff := &sec.AuthClaims{UserID: 9, IsStaff: true}

	profile, err := service.SetBio(ctx, ann, "ann@example.com", "  Writes about Go.  ")
	require.NoError(t, err)
	assert.Equal(t, "Writes about Go.", profile.Bio)
	assert.Equal(t, "Writes about Go.", repository.profiles[0].Bio)

	_, err = service.SetBio(ctx, bob, "ann@example.com", "hijacked")
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	_, err = service.SetBio(ctx, staff, "ann@example.com", "Edited by staff")
	require.NoError(t, err)

	_, err = service.SetBio(ctx, nil, "ann@example.com", "anon")
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	_, err = service.SetBio(ctx, ann, "ann@example.com", strings.Repeat("x", account.MaxBioLen+1))
	assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
}

/*
TestHandler_GetUser serves the public detail by (escaped) email.
*/
func TestHandler_GetUser(t *testing.T) {
	service, _ := newService()
	router := chi.NewRouter()
	router.Route("/api/v1/users", account.NewHandler(service, nil).RegisterRoutes)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/users/ann%40example.com", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, map[string]string{"first_name": "Ann", "last_name": "Lee", "email": "ann@example.com"}, envelope.Data)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/users/ghost@example.com", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_UpdateProfile(t *testing.T) {
	service, _ := newService()
	router := chi.NewRouter()
	router.Route("/api/v1/users", account.NewHandler(service, nil).RegisterRoutes)

	put := func(claims *sec.AuthClaims) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPut, "/api/v1/users/bob@example.com/profile", strings.NewReader(`{"bio":"Hi"}`))
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusUnauthorized, put(nil).Code)
	assert.Equal(t, http.StatusForbidden, put(&sec.AuthClaims{UserID: 1}).Code)

	recorder := put(&sec.AuthClaims{UserID: 2})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"bio":"Hi"`)
}
