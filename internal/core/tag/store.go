// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository persists tags.
type Repository interface {
	List(context context.Context, limit, offset int) ([]*Tag, int, error)
	FindByID(context context.Context, id int64) (*Tag, error)

	// GetOrCreate returns the tag with value, creating it if needed.
	// created reports whether a new row was inserted.
	GetOrCreate(context context.Context, value string) (tag *Tag, created bool, err error)

	Update(context context.Context, tag *Tag) error
	Delete(context context.Context, id int64) error
}
