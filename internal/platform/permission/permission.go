// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package permission holds object-level access rules for write operations.

Route guards in the middleware package decide whether a caller may reach an
endpoint at all. The predicates here decide whether that caller may act on a
specific object once it has been loaded.

Rules:

  - Safe methods (GET, HEAD, OPTIONS) are always allowed.
  - [AuthorOrReadOnly] lets the object's author write it.
  - [StaffOverride] lets staff write anything.
*/
package permission

import (
	"net/http"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/sec"
)

// Check describes one access attempt on an owned object.
type Check struct {
	Method   string
	Viewer   *sec.AuthClaims
	AuthorID int64
}

// Predicate reports whether a [Check] is allowed.
type Predicate func(check Check) bool

// IsSafe reports whether the method cannot modify state.
func IsSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AuthorOrReadOnly allows safe methods, and writes by the object's author.
func AuthorOrReadOnly(check Check) bool {
	if IsSafe(check.Method) {
		return true
	}
	return check.Viewer != nil && check.Viewer.UserID == check.AuthorID
}

// StaffOverride allows every method for staff users.
func StaffOverride(check Check) bool {
	return check.Viewer.Staff()
}

// Any combines predicates with a logical OR.
func Any(predicates ...Predicate) Predicate {
	return func(check Check) bool {
		for _, predicate := range predicates {
			if predicate(check) {
				return true
			}
		}
		return false
	}
}

// Authorize returns a 403 [apperr.AppError] unless at least one predicate allows the check.
func Authorize(check Check, predicates ...Predicate) error {
	if Any(predicates...)(check) {
		return nil
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
