// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blango/internal/platform/middleware"
	requestutil "github.com/taibuivan/blango/internal/platform/request"
	"github.com/taibuivan/blango/internal/platform/respond"
	"github.com/taibuivan/blango/pkg/pagination"
)

type Handler struct {
	service    *Service
	postsByTag http.HandlerFunc
	readCache  func(http.Handler) http.Handler
}

// NewHandler wires the tag endpoints.
//
// postsByTag serves GET /tags/{id}/posts; it lives with the post handlers.
// readCache wraps the cacheable GET routes and may be nil.
func NewHandler(service *Service, postsByTag http.HandlerFunc, readCache func(http.Handler) http.Handler) *Handler {
	if readCache == nil {
		readCache = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{service: service, postsByTag: postsByTag, readCache: readCache}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.With(handler.readCache).Get("/", handler.listTags)
	router.With(handler.readCache).Get("/{id}", handler.getTag)
	router.With(handler.readCache).Get("/{id}/posts", handler.postsByTag)

	// Authenticated
	router.Group(func(authedRoute chi.Router) {
		authedRoute.Use(middleware.RequireAuth)
		authedRoute.Post("/", handler.createTag)

		// Staff only
		authedRoute.With(middleware.RequireStaff).Put("/{id}", handler.updateTag)
		authedRoute.With(middleware.RequireStaff).Delete("/{id}", handler.deleteTag)
	})
}

type tagInput struct {
	Value string `json:"value"`
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	tags, total, err := handler.service.ListTags(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tags, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.Int64Param(request, "id", resourceTag)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.GetTag(request.Context(), tagID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

/*
createTag performs a get-or-create by normalized value.

Response:
  - 201: the tag was created
  - 200: a tag with the same normalized value already existed
*/
func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var input tagInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, created, err := handler.service.CreateTag(request.Context(), input.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if created {
		respond.Created(writer, tag)
		return
	}
	respond.OK(writer, tag)
}

func (handler *Handler) updateTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.Int64Param(request, "id", resourceTag)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input tagInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.RenameTag(request.Context(), tagID, input.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.Int64Param(request, "id", resourceTag)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteTag(request.Context(), tagID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
