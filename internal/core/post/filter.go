// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/blango/internal/core/tag"
	"github.com/taibuivan/blango/internal/platform/validate"
	"github.com/taibuivan/blango/pkg/query"
)

// Query parameter names understood by the list endpoints.
const (
	ParamAuthor        = "author"
	ParamAuthorEmail   = "author_email"
	ParamTags          = "tags"
	ParamTitle         = "title"
	ParamSlug          = "slug"
	ParamPublishedFrom = "published_from"
	ParamPublishedTo   = "published_to"
	ParamOrdering      = "ordering"
)

// dateOnly is the layout of calendar-date filter values.
const dateOnly = "2006-01-02"

// OrderField is one entry of the ordering clause.
type OrderField struct {
	Field string
	Desc  bool
}

// DefaultOrdering lists the newest publications first.
var DefaultOrdering = []OrderField{{Field: "published_at", Desc: true}}

// orderable maps public ordering names to their sort keys.
var orderable = map[string]struct{}{
	"published_at": {},
	"title":        {},
	"slug":         {},
	"author":       {},
	"created_at":   {},
}

// Filter narrows a post list after visibility has been applied.
type Filter struct {
	AuthorID      int64
	AuthorEmail   string
	Tags          []string
	TagID         int64
	TitleContains string
	Slug          string
	PublishedFrom *time.Time
	PublishedTo   *time.Time

	// OwnOnly restricts the list to the viewer's own posts.
	OwnOnly bool

	Window   *Window
	Ordering []OrderField
}

// ParseOrdering parses "ordering=-published_at,title". An empty value yields [DefaultOrdering].
func ParseOrdering(raw string) ([]OrderField, error) {
	names := query.StringSlice(raw)
	if len(names) == 0 {
		return DefaultOrdering, nil
	}

	fields := make([]OrderField, 0, len(names))
	for _, name := range names {
		field := OrderField{Field: strings.TrimPrefix(name, "-"), Desc: strings.HasPrefix(name, "-")}
		if _, ok := orderable[field.Field]; !ok {
			return nil, validate.RequiredError(FieldOrdering, fmt.Sprintf("Cannot order by '%s'", field.Field))
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// FilterFromQuery parses the list filters of a request's query string.
func FilterFromQuery(values url.Values) (Filter, error) {
	filter := Filter{
		AuthorEmail:   strings.TrimSpace(values.Get(ParamAuthorEmail)),
		TitleContains: strings.TrimSpace(values.Get(ParamTitle)),
		Slug:          strings.TrimSpace(values.Get(ParamSlug)),
	}
	validator := &validate.Validator{}

	if raw := values.Get(ParamAuthor); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		validator.Custom(ParamAuthor, err != nil || authorID <= 0, "Must be a user id")
		filter.AuthorID = authorID
	}

	for _, raw := range query.StringSlice(values.Get(ParamTags)) {
		value, err := tag.Normalize(ParamTags, raw)
		if err != nil {
			return Filter{}, err
		}
		filter.Tags = append(filter.Tags, value)
	}

	from, fromErr := parseBound(values.Get(ParamPublishedFrom), false)
	validator.Custom(ParamPublishedFrom, fromErr != nil, "Must be an RFC 3339 timestamp or YYYY-MM-DD")
	filter.PublishedFrom = from

	to, toErr := parseBound(values.Get(ParamPublishedTo), true)
	validator.Custom(ParamPublishedTo, toErr != nil, "Must be an RFC 3339 timestamp or YYYY-MM-DD")
	filter.PublishedTo = to

	ordering, err := ParseOrdering(values.Get(ParamOrdering))
	if err != nil {
		return Filter{}, err
	}
	filter.Ordering = ordering

	if err := validator.Err(); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

// parseBound parses a date filter. A bare date used as an upper bound covers
// the whole day.
func parseBound(raw string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	day, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, err
	}
	if upper {
		day = day.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &day, nil
}

// Matches applies the filter to a single post. It mirrors the SQL built by the
// Postgres repository and is used where posts are already in memory.
func (filter Filter) Matches(post *Post, viewer Viewer) bool {
	switch {
	case filter.OwnOnly && post.AuthorID != viewer.UserID:
		return false
	case filter.AuthorID != 0 && post.AuthorID != filter.AuthorID:
		return false
	case filter.AuthorEmail != "" && !strings.EqualFold(post.Author.Email, filter.AuthorEmail):
		return false
	case filter.Slug != "" && post.Slug != filter.Slug:
		return false
	case filter.TitleContains != "" && !strings.Contains(strings.ToLower(post.Title), strings.ToLower(filter.TitleContains)):
		return false
	}

	if len(filter.Tags) > 0 && !hasAnyTag(post.Tags, filter.Tags) {
		return false
	}

	if filter.Window != nil || filter.PublishedFrom != nil || filter.PublishedTo != nil {
		if post.PublishedAt == nil {
			return false
		}
		published := *post.PublishedAt
		if filter.Window != nil && !filter.Window.Contains(published) {
			return false
		}
		if filter.PublishedFrom != nil && published.Before(*filter.PublishedFrom) {
			return false
		}
		if filter.PublishedTo != nil && published.After(*filter.PublishedTo) {
			return false
		}
	}

	return true
}

func hasAnyTag(have, want []string) bool {
	for _, candidate := range want {
		for _, value := range have {
			if value == candidate {
				return true
			}
		}
	}
	return false
}
