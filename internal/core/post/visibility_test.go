// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/sec"
)

var now = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := now.Add(offset)
	return &t
}

/*
TestVisible walks the viewer x publication matrix.
*/
func TestVisible(t *testing.T) {
	published := &post.Post{AuthorID: 1, PublishedAt: at(-time.Hour)}
	exactlyNow := &post.Post{AuthorID: 1, PublishedAt: at(0)}
	scheduled := &post.Post{AuthorID: 1, PublishedAt: at(time.Hour)}
	draft := &post.Post{AuthorID: 1}

	anonymous := post.Viewer{}
	author := post.Viewer{UserID: 1}
	other := post.Viewer{UserID: 2}
	staff := post.Viewer{UserID: 3, Staff: true}

	tests := []struct {
		name   string
		post   *post.Post
		viewer post.Viewer
		want   bool
	}{
		{"anonymous_published", published, anonymous, true},
		{"anonymous_published_now", exactlyNow, anonymous, true},
		{"anonymous_scheduled", scheduled, anonymous, false},
		{"anonymous_draft", draft, anonymous, false},
		{"author_draft", draft, author, true},
		{"author_scheduled", scheduled, author, true},
		{"other_draft", draft, other, false},
		{"other_published", published, other, true},
		{"staff_draft", draft, staff, true},
		{"staff_scheduled", scheduled, staff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, post.Visible(tt.post, tt.viewer, now))
		})
	}
}

func TestViewerFrom(t *testing.T) {
	assert.True(t, post.ViewerFrom(nil).Anonymous())

	viewer := post.ViewerFrom(&sec.AuthClaims{UserID: 4, IsStaff: true})
	assert.Equal(t, post.Viewer{UserID: 4, Staff: true}, viewer)
	assert.False(t, viewer.Anonymous())
}

func TestPeriodWindow(t *testing.T) {
	t.Run("new", func(t *testing.T) {
		window, err := post.PeriodWindow(post.PeriodNew, now)
		require.NoError(t, err)
		assert.True(t, window.Contains(now.Add(-59*time.Minute)))
		assert.True(t, window.Contains(now))
		assert.False(t, window.Contains(now.Add(-61*time.Minute)))
		assert.False(t, window.Contains(now.Add(time.Second)))
	})

	t.Run("today", func(t *testing.T) {
		window, err := post.PeriodWindow(post.PeriodToday, now)
		require.NoError(t, err)
		midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, midnight, window.From)
		assert.True(t, window.Contains(midnight))
		assert.True(t, window.Contains(midnight.Add(23*time.Hour+59*time.Minute)))
		assert.False(t, window.Contains(midnight.AddDate(0, 0, 1)))
		assert.False(t, window.Contains(midnight.Add(-time.Second)))
	})

	t.Run("week", func(t *testing.T) {
		window, err := post.PeriodWindow(post.PeriodWeek, now)
		require.NoError(t, err)
		assert.True(t, window.Contains(now.AddDate(0, 0, -7)))
		assert.True(t, window.Contains(now.AddDate(0, 0, -6)))
		assert.False(t, window.Contains(now.AddDate(0, 0, -8)))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := post.PeriodWindow("month", now)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
		assert.Equal(t, "Time period 'month' is not valid, should be 'new', 'today' or 'week'", appError.Message)
	})
}
