// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	"github.com/taibuivan/blango/internal/platform/sec"
)

// testIdentity maps a test-only header to authenticated claims.
func testIdentity(next http.Handler) http.Handler {
	users := map[string]*sec.AuthClaims{"ann": annClaims, "bob": bobClaims, "sally": sallyClaims}
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if claims, ok := users[request.Header.Get("X-Test-User")]; ok {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		next.ServeHTTP(writer, request)
	})
}

func newRouter(fixture *fixture) http.Handler {
	handler := post.NewHandler(fixture.service, "https://media.example.com/", post.ReadCaches{})

	router := chi.NewRouter()
	router.Use(testIdentity)
	router.Route("/api/v1/posts", handler.RegisterRoutes)
	router.Get("/api/v1/tags/{id}/posts", handler.ListByTag)
	return router
}

func do(router http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	if user != "" {
		request.Header.Set("X-Test-User", user)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

type listPage struct {
	Data []post.Representation `json:"data"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

/*
TestCreatePost_Representation posts the canonical example payload and checks
the rendered tags, author hyperlink and absent hero image.
*/
func TestCreatePost_Representation(t *testing.T) {
	router := newRouter(newFixture())

	body := `{"title":"T","slug":"t","summary":"S","content":"C","tags":["News"],"published_at":"2026-03-01T00:00:00Z"}`
	recorder := do(router, http.MethodPost, "/api/v1/posts", "ann", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	assert.Equal(t, []any{"news"}, created.Data["tags"])
	assert.Equal(t, "http://example.com/api/v1/users/ann@example.com", created.Data["author"])
	assert.Nil(t, created.Data["hero_image"])
	assert.NotContains(t, created.Data, "ppoi")
	assert.Equal(t, "t", created.Data["slug"])
}

func TestCreatePost_Errors(t *testing.T) {
	router := newRouter(newFixture())

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPost, "/api/v1/posts", "", `{"title":"T"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/v1/posts", "ann", `{"title":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/v1/posts", "ann", `{"title":"T","tags":"news"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/v1/posts", "ann", `{"title":"T","published_at":"soon"}`).Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodPost, "/api/v1/posts", "ann", `{"title":"T","author":"bob@example.com"}`).Code)
}

func TestListPosts_Visibility(t *testing.T) {
	fixture := newFixture()
	router := newRouter(fixture)

	fixture.repository.seed(post.Post{AuthorID: ann.ID, Title: "Live", PublishedAt: at(-time.Hour)})
	fixture.repository.seed(post.Post{AuthorID: ann.ID, Title: "Draft"})
	fixture.repository.seed(post.Post{AuthorID: bob.ID, Title: "Bob draft"})

	count := func(user, target string) int {
		recorder := do(router, http.MethodGet, target, user, "")
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		var page listPage
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &page))
		return page.Meta.Total
	}

	assert.Equal(t, 1, count("", "/api/v1/posts"))
	assert.Equal(t, 2, count("ann", "/api/v1/posts"))
	assert.Equal(t, 3, count("sally", "/api/v1/posts"))
	assert.Equal(t, 1, count("sally", "/api/v1/posts?author_email=bob@example.com"))
	assert.Equal(t, 2, count("ann", "/api/v1/posts/mine"))

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/v1/posts/mine", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/v1/posts?ordering=secret", "", "").Code)
}

func TestByTimeRoute(t *testing.T) {
	fixture := newFixture()
	router := newRouter(fixture)
	fixture.repository.seed(post.Post{AuthorID: ann.ID, Title: "Fresh", PublishedAt: at(-10 * time.Minute)})

	recorder := do(router, http.MethodGet, "/api/v1/posts/by-time/new", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = do(router, http.MethodGet, "/api/v1/posts/by-time/fortnight", "", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Time period 'fortnight' is not valid, should be 'new', 'today' or 'week'")
}

func TestPostDetailRoutes(t *testing.T) {
	fixture := newFixture()
	router := newRouter(fixture)

	id := fixture.repository.seed(post.Post{AuthorID: ann.ID, Title: "Detail", PublishedAt: at(-time.Hour), Tags: []string{"news"}})
	_, err := fixture.comments.AddToPost(t.Context(), bob.ID, id, "nice")
	require.NoError(t, err)

	recorder := do(router, http.MethodGet, "/api/v1/posts/1", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var detail struct {
		Data post.DetailRepresentation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &detail))
	assert.Equal(t, "Detail", detail.Data.Title)
	require.Len(t, detail.Data.Comments, 1)
	assert.Equal(t, "nice", detail.Data.Comments[0].Content)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/posts/99", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/posts/abc", "", "").Code)

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPatch, "/api/v1/posts/1", "", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodPatch, "/api/v1/posts/1", "bob", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodPatch, "/api/v1/posts/1", "ann", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/api/v1/posts/1", "ann", `{"summary":"x"}`).Code)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/tags/1/posts", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/tags/7/posts", "", "").Code)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/api/v1/posts/1", "sally", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/posts/1", "", "").Code)
}

func TestPresenter_HeroImage(t *testing.T) {
	key := "hero_images/1-detail.jpg"
	presenter := post.Presenter{BaseURL: "https://blango.dev", MediaURL: "https://media.example.com"}

	representation := presenter.Present(&post.Post{
		Author:    post.Author{Email: "ann@example.com"},
		HeroImage: &key,
		PPOI:      "0.25x0.75",
	})

	require.NotNil(t, representation.HeroImage)
	assert.Equal(t, "https://media.example.com/hero_images/1-detail.jpg", representation.HeroImage.FullSize)
	assert.Contains(t, representation.HeroImage.SquareCrop, "c0-25__0-75")
	assert.Equal(t, "https://blango.dev/api/v1/users/ann@example.com", representation.Author)
	assert.Equal(t, []string{}, representation.Tags)
}
