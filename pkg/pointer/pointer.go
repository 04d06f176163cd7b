// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional values.

Partial updates (PATCH) decode into pointer fields so that "absent" and
"zero" can be told apart.
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}
