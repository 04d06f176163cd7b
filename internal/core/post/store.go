// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
)

// Repository persists posts together with their tag links.
//
// Create and Update replace the post's tag set with post.Tags, creating
// missing tags on the way. Visibility is applied by List only; single-row
// lookups return the post regardless and leave the rule to the service.
type Repository interface {
	List(ctx context.Context, query ListQuery) ([]*Post, int, error)
	FindByID(ctx context.Context, id int64) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
	SetHeroImage(ctx context.Context, id int64, key, ppoi string) error
}
