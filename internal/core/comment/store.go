// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// Repository persists comments.
type Repository interface {
	// ListFor returns the comments of a target, oldest first, with creators populated.
	ListFor(context context.Context, contentType string, objectID int64) ([]*Comment, error)
	FindByID(context context.Context, id int64) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	UpdateContent(context context.Context, id int64, content string) error
	DeleteFor(context context.Context, contentType string, objectID int64) error
}
