// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/blango/internal/media"
	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/middleware"
	requestutil "github.com/taibuivan/blango/internal/platform/request"
	"github.com/taibuivan/blango/internal/platform/respond"
	"github.com/taibuivan/blango/internal/platform/validate"
	"github.com/taibuivan/blango/pkg/pagination"
)

// ReadCaches wraps cacheable GET routes. Nil members disable caching.
type ReadCaches struct {
	List func(http.Handler) http.Handler
	Mine func(http.Handler) http.Handler
}

type Handler struct {
	service  *Service
	mediaURL string
	caches   ReadCaches
}

func NewHandler(service *Service, mediaURL string, caches ReadCaches) *Handler {
	identity := func(next http.Handler) http.Handler { return next }
	if caches.List == nil {
		caches.List = identity
	}
	if caches.Mine == nil {
		caches.Mine = identity
	}
	return &Handler{service: service, mediaURL: mediaURL, caches: caches}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public, filtered by visibility
	router.With(handler.caches.List).Get("/", handler.listPosts)
	router.With(handler.caches.Mine).Get("/mine", handler.listMine)
	router.With(handler.caches.List).Get("/by-time/{period}", handler.listByPeriod)
	router.Get("/{id}", handler.getPost)

	// Authenticated; object permissions are checked by the service
	router.Group(func(authedRoute chi.Router) {
		authedRoute.Use(middleware.RequireAuth)
		authedRoute.Post("/", handler.createPost)
		authedRoute.Put("/{id}", handler.replacePost)
		authedRoute.Patch("/{id}", handler.patchPost)
		authedRoute.Delete("/{id}", handler.deletePost)
		authedRoute.Post("/{id}/hero-image", handler.uploadHeroImage)
	})
}

func (handler *Handler) presenter(request *http.Request) Presenter {
	return Presenter{BaseURL: requestutil.BaseURL(request), MediaURL: handler.mediaURL}
}

// # Lists

type listFunc func(request *http.Request, viewer Viewer, filter Filter, limit, offset int) ([]*Post, int, error)

// serveList parses the common filters and pagination, then renders a page.
func (handler *Handler) serveList(writer http.ResponseWriter, request *http.Request, list listFunc) {
	filter, err := FilterFromQuery(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	viewer := ViewerFrom(requestutil.Claims(request))

	posts, total, err := list(request, viewer, filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, handler.presenter(request).PresentList(posts),
		pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	handler.serveList(writer, request, func(request *http.Request, viewer Viewer, filter Filter, limit, offset int) ([]*Post, int, error) {
		return handler.service.List(request.Context(), viewer, filter, limit, offset)
	})
}

func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	handler.serveList(writer, request, func(request *http.Request, viewer Viewer, filter Filter, limit, offset int) ([]*Post, int, error) {
		return handler.service.Mine(request.Context(), viewer, filter, limit, offset)
	})
}

func (handler *Handler) listByPeriod(writer http.ResponseWriter, request *http.Request) {
	period := requestutil.Param(request, "period")
	handler.serveList(writer, request, func(request *http.Request, viewer Viewer, filter Filter, limit, offset int) ([]*Post, int, error) {
		return handler.service.ByPeriod(request.Context(), viewer, period, filter, limit, offset)
	})
}

// ListByTag serves GET /tags/{id}/posts. It is mounted by the tag handler.
func (handler *Handler) ListByTag(writer http.ResponseWriter, request *http.Request) {
	tagID, err := requestutil.Int64Param(request, "id", "Tag")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.serveList(writer, request, func(request *http.Request, viewer Viewer, filter Filter, limit, offset int) ([]*Post, int, error) {
		return handler.service.ByTag(request.Context(), viewer, tagID, filter, limit, offset)
	})
}

// # Detail

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.Int64Param(request, "id", resourcePost)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.Get(request.Context(), ViewerFrom(requestutil.Claims(request)), postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.presenter(request).PresentDetail(detail))
}

func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input WriteInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.Create(request.Context(), claims, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, handler.presenter(request).Present(post))
}

func (handler *Handler) replacePost(writer http.ResponseWriter, request *http.Request) {
	handler.updatePost(writer, request, false)
}

func (handler *Handler) patchPost(writer http.ResponseWriter, request *http.Request) {
	handler.updatePost(writer, request, true)
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request, partial bool) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.Int64Param(request, "id", resourcePost)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input WriteInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.Update(request.Context(), claims, postID, input, partial)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.presenter(request).PresentDetail(detail))
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.Int64Param(request, "id", resourcePost)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), claims, postID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
uploadHeroImage accepts a multipart form.

Fields:
  - hero_image: the image file (JPEG, PNG, GIF or WebP, at most 10 MB)
  - ppoi: optional focal point "<x>x<y>", defaults to the centre
*/
func (handler *Handler) uploadHeroImage(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.Int64Param(request, "id", resourcePost)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, media.MaxUploadSize+1<<20)
	if err := request.ParseMultipartForm(media.MaxUploadSize); err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldHeroImage, "Upload a valid image of at most 10 MB"))
		return
	}

	file, _, err := request.FormFile(FieldHeroImage)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldHeroImage, "No file was submitted"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, media.MaxUploadSize+1))
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	if len(data) > media.MaxUploadSize {
		respond.Error(writer, request, validate.RequiredError(FieldHeroImage, "Upload a valid image of at most 10 MB"))
		return
	}

	post, err := handler.service.AttachHeroImage(request.Context(), claims, postID,
		http.DetectContentType(data), data, request.FormValue(FieldPPOI))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.presenter(request).Present(post))
}
