// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/blango/internal/platform/database/schema"
)

// ListQuery is everything a post list needs: who is asking, what they asked
// for, and which page.
type ListQuery struct {
	Viewer Viewer
	Filter Filter
	Now    time.Time
	Limit  int
	Offset int
}

// sortColumns maps public ordering names to qualified columns.
var sortColumns = map[string]string{
	"published_at": "p." + schema.Post.PublishedAt,
	"title":        "p." + schema.Post.Title,
	"slug":         "p." + schema.Post.Slug,
	"author":       "p." + schema.Post.AuthorID,
	"created_at":   "p." + schema.Post.CreatedAt,
}

// selectPost is the projection shared by every post read. Tags are folded
// into a sorted array so one row carries the whole post.
var selectPost = fmt.Sprintf(`
	SELECT p.%s, p.%s, u.%s, u.%s, u.%s,
	       p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
	       ARRAY(
	           SELECT t.%s FROM %s pt
	           JOIN %s t ON t.%s = pt.%s
	           WHERE pt.%s = p.%s
	           ORDER BY t.%s
	       ) AS tags
	FROM %s p
	JOIN %s u ON u.%s = p.%s`,
	schema.Post.ID, schema.Post.AuthorID, schema.User.Email, schema.User.FirstName, schema.User.LastName,
	schema.Post.CreatedAt, schema.Post.ModifiedAt, schema.Post.PublishedAt, schema.Post.Title,
	schema.Post.Slug, schema.Post.Summary, schema.Post.Content, schema.Post.HeroImage, schema.Post.PPOI,
	schema.Tag.Value, schema.PostTags.Table,
	schema.Tag.Table, schema.Tag.ID, schema.PostTags.TagID,
	schema.PostTags.PostID, schema.Post.ID,
	schema.Tag.Value,
	schema.Post.Table,
	schema.User.Table, schema.User.ID, schema.Post.AuthorID,
)

// whereBuilder accumulates conditions and their positional arguments.
type whereBuilder struct {
	conditions []string
	args       []any
}

// arg registers a value and returns its placeholder.
func (builder *whereBuilder) arg(value any) string {
	builder.args = append(builder.args, value)
	return fmt.Sprintf("$%d", len(builder.args))
}

func (builder *whereBuilder) add(condition string) {
	builder.conditions = append(builder.conditions, condition)
}

func (builder *whereBuilder) clause() string {
	if len(builder.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(builder.conditions, " AND ")
}

// buildWhere translates visibility and filters into SQL.
func buildWhere(listQuery ListQuery) *whereBuilder {
	builder := &whereBuilder{}
	filter := listQuery.Filter
	viewer := listQuery.Viewer
	published := "p." + schema.Post.PublishedAt
	author := "p." + schema.Post.AuthorID

	// 1. Visibility
	switch {
	case viewer.Staff:
	case viewer.Anonymous():
		builder.add(fmt.Sprintf("%s <= %s", published, builder.arg(listQuery.Now)))
	default:
		builder.add(fmt.Sprintf("(%s <= %s OR %s = %s)",
			published, builder.arg(listQuery.Now), author, builder.arg(viewer.UserID)))
	}

	if filter.OwnOnly {
		builder.add(fmt.Sprintf("%s = %s", author, builder.arg(viewer.UserID)))
	}

	// 2. Field filters
	if filter.AuthorID != 0 {
		builder.add(fmt.Sprintf("%s = %s", author, builder.arg(filter.AuthorID)))
	}
	if filter.AuthorEmail != "" {
		builder.add(fmt.Sprintf("LOWER(u.%s) = LOWER(%s)", schema.User.Email, builder.arg(filter.AuthorEmail)))
	}
	if filter.Slug != "" {
		builder.add(fmt.Sprintf("p.%s = %s", schema.Post.Slug, builder.arg(filter.Slug)))
	}
	if filter.TitleContains != "" {
		builder.add(fmt.Sprintf(`p.%s ILIKE %s ESCAPE '\'`, schema.Post.Title,
			builder.arg("%"+escapeLike(filter.TitleContains)+"%")))
	}
	if len(filter.Tags) > 0 {
		builder.add(fmt.Sprintf(`EXISTS (
			SELECT 1 FROM %s ft JOIN %s tv ON tv.%s = ft.%s
			WHERE ft.%s = p.%s AND tv.%s = ANY(%s))`,
			schema.PostTags.Table, schema.Tag.Table, schema.Tag.ID, schema.PostTags.TagID,
			schema.PostTags.PostID, schema.Post.ID, schema.Tag.Value, builder.arg(filter.Tags)))
	}
	if filter.TagID != 0 {
		builder.add(fmt.Sprintf(`EXISTS (SELECT 1 FROM %s ft WHERE ft.%s = p.%s AND ft.%s = %s)`,
			schema.PostTags.Table, schema.PostTags.PostID, schema.Post.ID, schema.PostTags.TagID,
			builder.arg(filter.TagID)))
	}

	// 3. Publication bounds
	if window := filter.Window; window != nil {
		builder.add(fmt.Sprintf("%s >= %s", published, builder.arg(window.From)))
		upper := "<="
		if window.OpenEnd {
			upper = "<"
		}
		builder.add(fmt.Sprintf("%s %s %s", published, upper, builder.arg(window.Until)))
	}
	if filter.PublishedFrom != nil {
		builder.add(fmt.Sprintf("%s >= %s", published, builder.arg(*filter.PublishedFrom)))
	}
	if filter.PublishedTo != nil {
		builder.add(fmt.Sprintf("%s <= %s", published, builder.arg(*filter.PublishedTo)))
	}

	return builder
}

// orderClause renders the ordering with nulls last and a stable id tiebreak.
func orderClause(fields []OrderField) string {
	if len(fields) == 0 {
		fields = DefaultOrdering
	}

	parts := make([]string, 0, len(fields)+1)
	for _, field := range fields {
		column, ok := sortColumns[field.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if field.Desc {
			direction = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s NULLS LAST", column, direction))
	}
	parts = append(parts, "p."+schema.Post.ID+" DESC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

// buildList returns the page query and the count query with their arguments.
func buildList(listQuery ListQuery) (listSQL string, listArgs []any, countSQL string, countArgs []any) {
	builder := buildWhere(listQuery)
	where := builder.clause()

	countArgs = append([]any(nil), builder.args...)
	countSQL = fmt.Sprintf(`SELECT COUNT(*) FROM %s p JOIN %s u ON u.%s = p.%s%s`,
		schema.Post.Table, schema.User.Table, schema.User.ID, schema.Post.AuthorID, where)

	limit := builder.arg(listQuery.Limit)
	offset := builder.arg(listQuery.Offset)
	listSQL = selectPost + where + orderClause(listQuery.Filter.Ordering) +
		fmt.Sprintf(" LIMIT %s OFFSET %s", limit, offset)

	return listSQL, builder.args, countSQL, countArgs
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
