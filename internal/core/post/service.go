// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/blango/internal/core/comment"
	"github.com/taibuivan/blango/internal/core/tag"
	"github.com/taibuivan/blango/internal/media"
	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/permission"
	"github.com/taibuivan/blango/internal/platform/sec"
	"github.com/taibuivan/blango/internal/platform/validate"
	"github.com/taibuivan/blango/pkg/slug"
)

// # Collaborators

// AuthorDirectory resolves author references in write payloads.
// FindAuthorByEmail returns a 404 [apperr.AppError] for unknown emails.
type AuthorDirectory interface {
	FindAuthorByEmail(ctx stdctx.Context, email string) (*Author, error)
}

// Comments is the slice of the comment service posts depend on.
type Comments interface {
	ListForPost(ctx stdctx.Context, postID int64) ([]*comment.Comment, error)
	AddToPost(ctx stdctx.Context, creatorID, postID int64, content string) (*comment.Comment, error)
	MergeIntoPost(ctx stdctx.Context, requesterID, postID int64, inputs []comment.Input) error
	DeleteForPost(ctx stdctx.Context, postID int64) error
}

// TagFinder looks up tags for the tag posts listing.
type TagFinder interface {
	GetTag(ctx stdctx.Context, id int64) (*tag.Tag, error)
}

// ImageStore renders, stores and removes hero images.
type ImageStore interface {
	Store(ctx stdctx.Context, key, contentType string, data []byte, point media.PPOI) error
	Remove(ctx stdctx.Context, key string, point media.PPOI) error
}

// Transactor runs fn in one transaction. Repositories called with the
// context fn receives take part in it.
type Transactor interface {
	InTx(ctx stdctx.Context, fn func(ctx stdctx.Context) error) error
}

type noTransaction struct{}

func (noTransaction) InTx(ctx stdctx.Context, fn func(ctx stdctx.Context) error) error {
	return fn(ctx)
}

// # Write payloads

// OptionalTime distinguishes an absent JSON member from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

func (optional *OptionalTime) UnmarshalJSON(data []byte) error {
	optional.Set = true
	if string(data) == "null" {
		optional.Value = nil
		return nil
	}

	var value time.Time
	if err := value.UnmarshalJSON(data); err != nil {
		return validate.RequiredError(FieldPublishedAt, "Must be an RFC 3339 timestamp or null")
	}
	optional.Value = &value
	return nil
}

// WriteInput is the body of POST, PUT and PATCH on posts. Nil members are absent.
type WriteInput struct {
	Author      *string          `json:"author"`
	Title       *string          `json:"title"`
	Slug        *string          `json:"slug"`
	Summary     *string          `json:"summary"`
	Content     *string          `json:"content"`
	PublishedAt OptionalTime     `json:"published_at"`
	Tags        json.RawMessage  `json:"tags"`
	Comments    *[]comment.Input `json:"comments"`
}

// Detail is a post with its comments.
type Detail struct {
	Post     *Post
	Comments []*comment.Comment
}

// # Service

type Service struct {
	repo     Repository
	authors  AuthorDirectory
	comments Comments
	tags     TagFinder
	images   ImageStore
	tx       Transactor
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the post service. images may be nil, in which case hero
// image uploads report 503.
func NewService(repo Repository, authors AuthorDirectory, comments Comments, tags TagFinder, images ImageStore, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		authors:  authors,
		comments: comments,
		tags:     tags,
		images:   images,
		tx:       noTransaction{},
		logger:   logger,
		now:      time.Now,
	}
}

// WithTransactor makes post writes and their comment changes atomic.
func (service *Service) WithTransactor(tx Transactor) *Service {
	service.tx = tx
	return service
}

// WithClock replaces the time source. Used by tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Reads

// List returns the posts visible to viewer that match filter.
func (service *Service) List(context stdctx.Context, viewer Viewer, filter Filter, limit, offset int) ([]*Post, int, error) {
	return service.repo.List(context, ListQuery{
		Viewer: viewer,
		Filter: filter,
		Now:    service.now(),
		Limit:  limit,
		Offset: offset,
	})
}

// Mine lists the viewer's own posts, drafts included. Staff status plays no part.
func (service *Service) Mine(context stdctx.Context, viewer Viewer, filter Filter, limit, offset int) ([]*Post, int, error) {
	if viewer.Anonymous() {
		return nil, 0, apperr.Forbidden("Authentication credentials were not provided")
	}

	filter.OwnOnly = true
	return service.List(context, Viewer{UserID: viewer.UserID}, filter, limit, offset)
}

// ByPeriod lists visible posts published within a named period.
func (service *Service) ByPeriod(context stdctx.Context, viewer Viewer, period string, filter Filter, limit, offset int) ([]*Post, int, error) {
	window, err := PeriodWindow(period, service.now())
	if err != nil {
		return nil, 0, err
	}

	filter.Window = &window
	return service.List(context, viewer, filter, limit, offset)
}

// ByTag lists visible posts carrying a tag. An unknown tag is a 404.
func (service *Service) ByTag(context stdctx.Context, viewer Viewer, tagID int64, filter Filter, limit, offset int) ([]*Post, int, error) {
	if _, err := service.tags.GetTag(context, tagID); err != nil {
		return nil, 0, err
	}

	filter.TagID = tagID
	return service.List(context, viewer, filter, limit, offset)
}

// Get returns a visible post and its comments.
func (service *Service) Get(context stdctx.Context, viewer Viewer, id int64) (*Detail, error) {
	post, err := service.visiblePost(context, viewer, id)
	if err != nil {
		return nil, err
	}
	return service.withComments(context, post)
}

// GetBySlug returns a visible post and its comments by slug.
func (service *Service) GetBySlug(context stdctx.Context, viewer Viewer, postSlug string) (*Detail, error) {
	post, err := service.repo.FindBySlug(context, postSlug)
	if err != nil {
		return nil, err
	}
	if !Visible(post, viewer, service.now()) {
		return nil, apperr.NotFound(resourcePost)
	}
	return service.withComments(context, post)
}

func (service *Service) visiblePost(context stdctx.Context, viewer Viewer, id int64) (*Post, error) {
	post, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !Visible(post, viewer, service.now()) {
		return nil, apperr.NotFound(resourcePost)
	}
	return post, nil
}

func (service *Service) withComments(context stdctx.Context, post *Post) (*Detail, error) {
	comments, err := service.comments.ListForPost(context, post.ID)
	if err != nil {
		return nil, err
	}
	return &Detail{Post: post, Comments: comments}, nil
}

// # Writes

// Create stores a new post for the caller.
//
// The author defaults to the caller; only staff may name someone else. A
// missing slug is derived from the title.
func (service *Service) Create(context stdctx.Context, claims *sec.AuthClaims, input WriteInput) (*Post, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication credentials were not provided")
	}

	post := &Post{AuthorID: claims.UserID, PPOI: media.DefaultPPOI.String(), Tags: []string{}}
	if err := service.apply(context, claims, post, input, false); err != nil {
		return nil, err
	}

	if input.Comments != nil {
		if err := comment.ValidateInputs(*input.Comments); err != nil {
			return nil, err
		}
	}

	err := service.tx.InTx(context, func(ctx stdctx.Context) error {
		if err := service.repo.Create(ctx, post); err != nil {
			return err
		}
		return service.mergeComments(ctx, claims.UserID, post.ID, input.Comments)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("post_created",
		slog.Int64("post_id", post.ID),
		slog.Int64("author_id", post.AuthorID),
		slog.String("slug", post.Slug),
	)
	return service.repo.FindByID(context, post.ID)
}

// Update modifies a post. With partial set (PATCH) absent members are kept;
// otherwise (PUT) the title is required.
//
// Order of checks: payload shape, visibility (404), permission (403).
func (service *Service) Update(context stdctx.Context, claims *sec.AuthClaims, id int64, input WriteInput, partial bool) (*Detail, error) {
	if input.Comments != nil {
		if err := comment.ValidateInputs(*input.Comments); err != nil {
			return nil, err
		}
	}

	post, err := service.authorizedPost(context, claims, id, requestMethod(partial))
	if err != nil {
		return nil, err
	}

	if err := service.apply(context, claims, post, input, partial); err != nil {
		return nil, err
	}

	err = service.tx.InTx(context, func(ctx stdctx.Context) error {
		if err := service.repo.Update(ctx, post); err != nil {
			return err
		}
		return service.mergeComments(ctx, claims.UserID, post.ID, input.Comments)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("post_updated", slog.Int64("post_id", post.ID), slog.Bool("partial", partial))

	updated, err := service.repo.FindByID(context, post.ID)
	if err != nil {
		return nil, err
	}
	return service.withComments(context, updated)
}

// Delete removes a post and its comments.
func (service *Service) Delete(context stdctx.Context, claims *sec.AuthClaims, id int64) error {
	post, err := service.authorizedPost(context, claims, id, http.MethodDelete)
	if err != nil {
		return err
	}

	// Comments first, then the post
	err = service.tx.InTx(context, func(ctx stdctx.Context) error {
		if err := service.comments.DeleteForPost(ctx, post.ID); err != nil {
			return err
		}
		return service.repo.Delete(ctx, post.ID)
	})
	if err != nil {
		return err
	}

	service.logger.Info("post_deleted", slog.Int64("post_id", post.ID))
	return nil
}

// AddComment adds a comment to a visible post, identified by slug.
func (service *Service) AddComment(context stdctx.Context, claims *sec.AuthClaims, postSlug, content string) (*comment.Comment, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication credentials were not provided")
	}

	post, err := service.repo.FindBySlug(context, postSlug)
	if err != nil {
		return nil, err
	}
	if !Visible(post, ViewerFrom(claims), service.now()) {
		return nil, apperr.NotFound(resourcePost)
	}

	return service.comments.AddToPost(context, claims.UserID, post.ID, content)
}

// AttachHeroImage stores an uploaded image and its variants, then links it to the post.
func (service *Service) AttachHeroImage(context stdctx.Context, claims *sec.AuthClaims, id int64, contentType string, data []byte, rawPPOI string) (*Post, error) {
	if service.images == nil {
		return nil, apperr.ServiceUnavailable("Media storage is not configured")
	}

	point, err := media.ParsePPOI(strings.TrimSpace(rawPPOI))
	if err != nil {
		return nil, validate.RequiredError(FieldPPOI, "Must be <x>x<y> with coordinates between 0 and 1")
	}

	ext, err := media.ExtensionFor(contentType)
	if err != nil {
		return nil, validate.RequiredError(FieldHeroImage, "Upload a valid image (JPEG, PNG, GIF or WebP)")
	}

	post, err := service.authorizedPost(context, claims, id, http.MethodPost)
	if err != nil {
		return nil, err
	}

	key := media.OriginalKey(fmt.Sprintf("%d-%s%s", post.ID, post.Slug, ext))
	if err := service.images.Store(context, key, contentType, data, point); err != nil {
		if errors.Is(err, media.ErrUnsupportedFormat) {
			return nil, validate.RequiredError(FieldHeroImage, "Upload a valid image (JPEG, PNG, GIF or WebP)")
		}
		return nil, apperr.Internal(err)
	}

	if err := service.repo.SetHeroImage(context, post.ID, key, point.String()); err != nil {
		return nil, err
	}

	// A re-upload under a new extension leaves the previous objects behind
	if previous := post.HeroImage; previous != nil && *previous != key {
		service.removeImage(context, *previous, post.PPOI)
	}
	post.HeroImage = &key
	post.PPOI = point.String()

	service.logger.Info("hero_image_attached", slog.Int64("post_id", post.ID), slog.String("key", key))
	return post, nil
}

// removeImage deletes a replaced hero image. Failures only leave orphaned
// objects behind, so they are logged and swallowed.
func (service *Service) removeImage(context stdctx.Context, key, rawPPOI string) {
	point, err := media.ParsePPOI(rawPPOI)
	if err != nil {
		point = media.DefaultPPOI
	}
	if err := service.images.Remove(context, key, point); err != nil {
		service.logger.Warn("hero_image_cleanup_failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (service *Service) mergeComments(ctx stdctx.Context, requesterID, postID int64, inputs *[]comment.Input) error {
	if inputs == nil {
		return nil
	}
	return service.comments.MergeIntoPost(ctx, requesterID, postID, *inputs)
}

// authorizedPost loads a post the caller can see and may modify.
func (service *Service) authorizedPost(context stdctx.Context, claims *sec.AuthClaims, id int64, method string) (*Post, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication credentials were not provided")
	}

	post, err := service.visiblePost(context, ViewerFrom(claims), id)
	if err != nil {
		return nil, err
	}

	check := permission.Check{Method: method, Viewer: claims, AuthorID: post.AuthorID}
	if err := permission.Authorize(check, permission.AuthorOrReadOnly, permission.StaffOverride); err != nil {
		return nil, err
	}
	return post, nil
}

func requestMethod(partial bool) string {
	if partial {
		return http.MethodPatch
	}
	return http.MethodPut
}

// apply validates input and copies it onto post.
func (service *Service) apply(context stdctx.Context, claims *sec.AuthClaims, post *Post, input WriteInput, partial bool) error {
	validator := &validate.Validator{}

	// 1. Scalars
	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	switch {
	case !partial && input.Title == nil:
		validator.Required(FieldTitle, "")
	case input.Title != nil:
		validator.Required(FieldTitle, post.Title).MaxLen(FieldTitle, post.Title, MaxTitleLen)
	}

	if input.Summary != nil {
		post.Summary = *input.Summary
		validator.MaxLen(FieldSummary, post.Summary, MaxSummaryLen)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.PublishedAt.Set {
		post.PublishedAt = input.PublishedAt.Value
	}

	// 2. Slug, derived from the title when a new post has none
	switch {
	case input.Slug != nil && strings.TrimSpace(*input.Slug) != "":
		post.Slug = strings.TrimSpace(*input.Slug)
	case post.ID == 0 || !partial && input.Slug != nil:
		post.Slug = slug.From(post.Title)
	}
	if post.Title != "" || post.Slug != "" {
		validator.Required(FieldSlug, post.Slug)
		if post.Slug != "" {
			validator.Slug(FieldSlug, post.Slug).MaxLen(FieldSlug, post.Slug, slug.MaxLen)
		}
	}

	if err := validator.Err(); err != nil {
		return err
	}

	// 3. Tags
	values, err := tag.ParseValues(input.Tags)
	if err != nil {
		return err
	}
	if values != nil {
		post.Tags = values
	}

	// 4. Author
	if input.Author != nil && strings.TrimSpace(*input.Author) != "" {
		author, err := service.resolveAuthor(context, *input.Author)
		if err != nil {
			return err
		}
		if author.ID != claims.UserID && !claims.Staff() {
			return apperr.Forbidden("Only staff may assign posts to another author")
		}
		post.AuthorID = author.ID
		post.Author = *author
	}

	return nil
}

// resolveAuthor accepts a user hyperlink (".../users/<email>") or a bare email.
func (service *Service) resolveAuthor(context stdctx.Context, reference string) (*Author, error) {
	email := strings.TrimSpace(reference)
	if index := strings.LastIndex(email, "/users/"); index >= 0 {
		email = strings.Trim(email[index+len("/users/"):], "/")
		if unescaped, err := url.PathUnescape(email); err == nil {
			email = unescaped
		}
	}

	author, err := service.authors.FindAuthorByEmail(context, email)
	if apperr.IsNotFound(err) {
		return nil, validate.RequiredError(FieldAuthor, "Invalid hyperlink - Object does not exist.")
	}
	if err != nil {
		return nil, err
	}
	return author, nil
}
