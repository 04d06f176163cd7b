// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"fmt"
	"time"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/sec"
)

// Viewer is the identity a post query runs for.
type Viewer struct {
	UserID int64
	Staff  bool
}

// ViewerFrom builds a [Viewer] from request claims. nil claims yield an anonymous viewer.
func ViewerFrom(claims *sec.AuthClaims) Viewer {
	if claims == nil {
		return Viewer{}
	}
	return Viewer{UserID: claims.UserID, Staff: claims.IsStaff}
}

// Anonymous reports whether the viewer is signed out.
func (viewer Viewer) Anonymous() bool {
	return viewer.UserID == 0
}

// Visible applies the visibility rule to a single post.
func Visible(post *Post, viewer Viewer, now time.Time) bool {
	switch {
	case viewer.Staff:
		return true
	case post.IsPublished(now):
		return true
	case !viewer.Anonymous() && post.AuthorID == viewer.UserID:
		return true
	}
	return false
}

// # Time periods

// Period tokens accepted by /posts/by-time/{period}.
const (
	PeriodNew   = "new"
	PeriodToday = "today"
	PeriodWeek  = "week"
)

// Window narrows a list to posts published between From and Until.
//
// From is inclusive. Until is inclusive unless OpenEnd is set.
type Window struct {
	From    time.Time
	Until   time.Time
	OpenEnd bool
}

// Contains reports whether t falls inside the window.
func (window Window) Contains(t time.Time) bool {
	if t.Before(window.From) {
		return false
	}
	if window.OpenEnd {
		return t.Before(window.Until)
	}
	return !t.After(window.Until)
}

// PeriodWindow resolves a period token relative to now.
//
//   - new: the last hour.
//   - today: the current UTC calendar day.
//   - week: the last seven days.
//
// Any other token is a 404 naming the valid values.
func PeriodWindow(token string, now time.Time) (Window, error) {
	now = now.UTC()

	switch token {
	case PeriodNew:
		return Window{From: now.Add(-time.Hour), Until: now}, nil
	case PeriodToday:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return Window{From: midnight, Until: midnight.AddDate(0, 0, 1), OpenEnd: true}, nil
	case PeriodWeek:
		return Window{From: now.AddDate(0, 0, -7), Until: now}, nil
	}

	return Window{}, apperr.NotFoundMessage(fmt.Sprintf(
		"Time period '%s' is not valid, should be '%s', '%s' or '%s'",
		token, PeriodNew, PeriodToday, PeriodWeek,
	))
}
