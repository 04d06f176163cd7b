// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/permission"
	"github.com/taibuivan/blango/internal/platform/sec"
)

/*
TestAuthorize walks the author/staff matrix for safe and unsafe methods.
*/
func TestAuthorize(t *testing.T) {
	author := &sec.AuthClaims{UserID: 10}
	stranger := &sec.AuthClaims{UserID: 11}
	staff := &sec.AuthClaims{UserID: 12, IsStaff: true}

	tests := []struct {
		name    string
		method  string
		viewer  *sec.AuthClaims
		allowed bool
	}{
		{"anonymous_read", http.MethodGet, nil, true},
		{"anonymous_write", http.MethodPut, nil, false},
		{"author_write", http.MethodPatch, author, true},
		{"author_delete", http.MethodDelete, author, true},
		{"stranger_read", http.MethodHead, stranger, true},
		{"stranger_write", http.MethodPut, stranger, false},
		{"staff_write", http.MethodDelete, staff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := permission.Check{Method: tt.method, Viewer: tt.viewer, AuthorID: author.UserID}
			err := permission.Authorize(check, permission.AuthorOrReadOnly, permission.StaffOverride)

			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			appError := apperr.As(err)
			if assert.NotNil(t, appError) {
				assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
			}
		})
	}
}

func TestAuthorize_NoPredicatesDenies(t *testing.T) {
	assert.Error(t, permission.Authorize(permission.Check{Method: http.MethodGet}))
}
