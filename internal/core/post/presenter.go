// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/blango/internal/core/comment"
	"github.com/taibuivan/blango/internal/media"
	"github.com/taibuivan/blango/pkg/slice"
)

// UserPath is the API path users are linked under.
const UserPath = "/api/v1/users/"

// Representation is the API form of a post. The focal point is never rendered.
type Representation struct {
	ID          int64           `json:"id"`
	Author      string          `json:"author"`
	Tags        []string        `json:"tags"`
	HeroImage   *media.Variants `json:"hero_image"`
	CreatedAt   time.Time       `json:"created_at"`
	ModifiedAt  time.Time       `json:"modified_at"`
	PublishedAt *time.Time      `json:"published_at"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Summary     string          `json:"summary"`
	Content     string          `json:"content"`
}

// DetailRepresentation adds the comments to a post.
type DetailRepresentation struct {
	Representation
	Comments []*comment.Comment `json:"comments"`
}

// Presenter turns posts into their API form.
type Presenter struct {
	// BaseURL is the scheme and host of the API ("https://blango.dev").
	BaseURL string
	// MediaURL prefixes hero image object keys.
	MediaURL string
}

// AuthorURL is the hyperlink of a user's detail endpoint.
func (presenter Presenter) AuthorURL(email string) string {
	return strings.TrimRight(presenter.BaseURL, "/") + UserPath + url.PathEscape(email)
}

func (presenter Presenter) Present(post *Post) Representation {
	representation := Representation{
		ID:          post.ID,
		Author:      presenter.AuthorURL(post.Author.Email),
		Tags:        post.Tags,
		CreatedAt:   post.CreatedAt,
		ModifiedAt:  post.ModifiedAt,
		PublishedAt: post.PublishedAt,
		Title:       post.Title,
		Slug:        post.Slug,
		Summary:     post.Summary,
		Content:     post.Content,
	}
	if representation.Tags == nil {
		representation.Tags = []string{}
	}

	if post.HeroImage != nil && *post.HeroImage != "" {
		point, err := media.ParsePPOI(post.PPOI)
		if err != nil {
			point = media.DefaultPPOI
		}
		variants := media.URLs(presenter.MediaURL, *post.HeroImage, point)
		representation.HeroImage = &variants
	}

	return representation
}

func (presenter Presenter) PresentList(posts []*Post) []Representation {
	if len(posts) == 0 {
		return []Representation{}
	}
	return slice.Map(posts, presenter.Present)
}

func (presenter Presenter) PresentDetail(detail *Detail) DetailRepresentation {
	comments := detail.Comments
	if comments == nil {
		comments = []*comment.Comment{}
	}
	return DetailRepresentation{Representation: presenter.Present(detail.Post), Comments: comments}
}
