// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web serves the server-rendered pages.

Pages share the API's authentication: the session cookie set by the login
page is the same one accepted by the JSON endpoints. Forms are protected by
the CSRF middleware.
*/
package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blango/internal/core/comment"
	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/media"
	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/constants"
	"github.com/taibuivan/blango/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/blango/internal/platform/request"
	"github.com/taibuivan/blango/internal/platform/sec"
	"github.com/taibuivan/blango/internal/users/account"
	"github.com/taibuivan/blango/internal/users/auth"
)

// pageSize caps the number of posts on the index and table pages.
const pageSize = 100

// # Contracts

// Posts is the slice of the post service the pages read from.
type Posts interface {
	List(ctx context.Context, viewer post.Viewer, filter post.Filter, limit, offset int) ([]*post.Post, int, error)
	GetBySlug(ctx context.Context, viewer post.Viewer, slug string) (*post.Detail, error)
	AddComment(ctx context.Context, claims *sec.AuthClaims, slug, content string) (*comment.Comment, error)
}

// Profiles loads author bios.
type Profiles interface {
	GetProfile(ctx context.Context, userID int64) (*account.Profile, error)
}

// Sessions opens and closes browser sessions.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*auth.LoginSession, error)
	Logout(ctx context.Context, sessionID string) error
}

// # Handler

// Handler serves the HTML pages.
type Handler struct {
	renderer     *Renderer
	posts        Posts
	profiles     Profiles
	sessions     Sessions
	mediaURL     string
	secureCookie bool
	indexCache   func(http.Handler) http.Handler
	onComment    func(http.Handler) http.Handler
}

// Options configures a [Handler].
type Options struct {
	MediaURL     string
	SecureCookie bool

	// IndexCache wraps the index page. Nil disables caching.
	IndexCache func(http.Handler) http.Handler

	// OnComment wraps the comment form POST, typically to purge cached
	// listings. Nil leaves the route unwrapped.
	OnComment func(http.Handler) http.Handler
}

// NewHandler wires the page handlers.
func NewHandler(renderer *Renderer, posts Posts, profiles Profiles, sessions Sessions, options Options) *Handler {
	identity := func(next http.Handler) http.Handler { return next }
	if options.IndexCache == nil {
		options.IndexCache = identity
	}
	if options.OnComment == nil {
		options.OnComment = identity
	}
	return &Handler{
		renderer:     renderer,
		posts:        posts,
		profiles:     profiles,
		sessions:     sessions,
		mediaURL:     options.MediaURL,
		secureCookie: options.SecureCookie,
		indexCache:   options.IndexCache,
		onComment:    options.OnComment,
	}
}

// RegisterRoutes mounts the pages. The caller applies the CSRF middleware.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(handler.indexCache).Get("/", handler.index)
	router.Get("/post/{slug}", handler.postDetail)
	router.With(handler.onComment).Post("/post/{slug}", handler.postComment)
	router.Get("/post-table", handler.postTable)
	router.Get("/accounts/login", handler.loginForm)
	router.Post("/accounts/login", handler.login)
	router.Get("/accounts/logout", handler.logout)
	router.Post("/accounts/logout", handler.logout)
}

// # Pages

// index lists published posts, whoever is asking.
func (handler *Handler) index(writer http.ResponseWriter, request *http.Request) {
	posts, _, err := handler.posts.List(request.Context(), post.Viewer{}, post.Filter{}, pageSize, 0)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "index_posts_loaded", "count", len(posts))
	handler.renderer.Render(writer, request, http.StatusOK, pageIndex, map[string]any{"Posts": posts})
}

// postTable lists what the viewer may see, with the API list URL for scripts.
func (handler *Handler) postTable(writer http.ResponseWriter, request *http.Request) {
	viewer := post.ViewerFrom(requestutil.Claims(request))
	posts, _, err := handler.posts.List(request.Context(), viewer, post.Filter{}, pageSize, 0)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, pagePostTable, map[string]any{
		"Posts":       posts,
		"PostListURL": constants.APIPrefix + "/posts/",
	})
}

func (handler *Handler) postDetail(writer http.ResponseWriter, request *http.Request) {
	handler.renderDetail(writer, request, http.StatusOK, "", "")
}

// renderDetail renders a post with its comments and the comment form.
func (handler *Handler) renderDetail(writer http.ResponseWriter, request *http.Request, status int, formError, draft string) {
	viewer := post.ViewerFrom(requestutil.Claims(request))

	detail, err := handler.posts.GetBySlug(request.Context(), viewer, requestutil.Param(request, "slug"))
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	content, err := RenderContent(detail.Post.Content)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	data := map[string]any{
		"Post":     detail.Post,
		"Content":  content,
		"Comments": detail.Comments,
		"Path":     request.URL.Path,
		"Error":    formError,
		"Draft":    draft,
	}

	if hero := detail.Post.HeroImage; hero != nil && *hero != "" {
		point, err := media.ParsePPOI(detail.Post.PPOI)
		if err != nil {
			point = media.DefaultPPOI
		}
		variants := media.URLs(handler.mediaURL, *hero, point)
		data["Hero"] = &variants
	}

	if handler.profiles != nil {
		profile, err := handler.profiles.GetProfile(request.Context(), detail.Post.AuthorID)
		switch {
		case err == nil:
			data["Bio"] = profile.Bio
		case !apperr.IsNotFound(err):
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "author_profile_unavailable", "error", err)
		}
	}

	handler.renderer.Render(writer, request, status, pagePostDetail, data)
}

// postComment adds a comment from the form, then redirects back to the post.
func (handler *Handler) postComment(writer http.ResponseWriter, request *http.Request) {
	claims := requestutil.Claims(request)
	if claims == nil {
		http.Redirect(writer, request, loginURL(request.URL.Path), http.StatusSeeOther)
		return
	}

	content := request.PostFormValue("content")
	_, err := handler.posts.AddComment(request.Context(), claims, requestutil.Param(request, "slug"), content)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusBadRequest {
			handler.renderDetail(writer, request, http.StatusBadRequest, fieldMessage(appError), content)
			return
		}
		handler.fail(writer, request, err)
		return
	}

	http.Redirect(writer, request, request.URL.Path, http.StatusSeeOther)
}

// # Accounts

func (handler *Handler) loginForm(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, pageLogin, map[string]any{
		"Next": safeNext(request.URL.Query().Get("next")),
	})
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	email := request.PostFormValue("email")
	next := safeNext(request.PostFormValue("next"))

	session, err := handler.sessions.Login(request.Context(), email, request.PostFormValue("password"))
	if err != nil {
		appError := apperr.As(err)
		if appError == nil || appError.HTTPStatus >= http.StatusInternalServerError {
			handler.fail(writer, request, err)
			return
		}
		message := appError.Message
		if len(appError.Details) > 0 {
			message = "Please enter your email and password."
		}
		handler.renderer.Render(writer, request, http.StatusOK, pageLogin, map[string]any{
			"Next":  next,
			"Email": email,
			"Error": message,
		})
		return
	}

	auth.SetSessionCookie(writer, session, handler.secureCookie)
	http.Redirect(writer, request, next, http.StatusSeeOther)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		if err := handler.sessions.Logout(request.Context(), cookie.Value); err != nil {
			handler.fail(writer, request, err)
			return
		}
	}

	auth.ClearSessionCookie(writer, handler.secureCookie)
	http.Redirect(writer, request, "/", http.StatusSeeOther)
}

// # Helpers

// fail maps errors to plain HTTP error pages.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}
	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "page_failed", "error", err)
	}
	http.Error(writer, http.StatusText(appError.HTTPStatus), appError.HTTPStatus)
}

func fieldMessage(appError *apperr.AppError) string {
	if len(appError.Details) > 0 {
		return appError.Details[0].Message
	}
	return appError.Message
}

func loginURL(next string) string {
	return "/accounts/login?" + url.Values{"next": {next}}.Encode()
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
