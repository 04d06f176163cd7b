// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post is the heart of the blog: posts, their visibility rules, list
filtering, and the read/write API.

# Visibility

  - Anonymous viewers see posts whose published_at is at or before now.
  - Staff see every post.
  - Other signed-in users see published posts plus their own drafts.

Every list, detail and write lookup goes through the same rule, so a post a
viewer cannot see behaves as if it did not exist (404).
*/
package post

import (
	"time"
)

// Field names used in validation errors.
const (
	FieldTitle       = "title"
	FieldSlug        = "slug"
	FieldSummary     = "summary"
	FieldContent     = "content"
	FieldAuthor      = "author"
	FieldPublishedAt = "published_at"
	FieldHeroImage   = "hero_image"
	FieldPPOI        = "ppoi"
	FieldOrdering    = "ordering"
)

// Column limits.
const (
	MaxTitleLen   = 200
	MaxSummaryLen = 500
)

// Author is the public identity of a post's author.
type Author struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
}

// Post is a blog entry.
type Post struct {
	ID          int64
	AuthorID    int64
	Author      Author
	CreatedAt   time.Time
	ModifiedAt  time.Time
	PublishedAt *time.Time
	Title       string
	Slug        string
	Summary     string
	Content     string

	// HeroImage is the object key of the uploaded original, if any.
	HeroImage *string

	// PPOI is the focal point of the hero image ("0.5x0.5"). Never rendered.
	PPOI string

	// Tags holds normalized tag values, sorted.
	Tags []string
}

// IsPublished reports whether the post is live at now.
func (post *Post) IsPublished(now time.Time) bool {
	return post.PublishedAt != nil && !post.PublishedAt.After(now)
}
