// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var queryNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestBuildWhere_Visibility(t *testing.T) {
	anonymous := buildWhere(ListQuery{Now: queryNow})
	assert.Equal(t, " WHERE p.publishedat <= $1", anonymous.clause())
	assert.Equal(t, []any{queryNow}, anonymous.args)

	member := buildWhere(ListQuery{Viewer: Viewer{UserID: 9}, Now: queryNow})
	assert.Equal(t, " WHERE (p.publishedat <= $1 OR p.authorid = $2)", member.clause())
	assert.Equal(t, []any{queryNow, int64(9)}, member.args)

	staff := buildWhere(ListQuery{Viewer: Viewer{UserID: 1, Staff: true}, Now: queryNow})
	assert.Empty(t, staff.clause())
	assert.Empty(t, staff.args)
}

func TestBuildWhere_Filters(t *testing.T) {
	window := Window{From: queryNow.Add(-time.Hour), Until: queryNow.Add(time.Hour), OpenEnd: true}
	builder := buildWhere(ListQuery{
		Viewer: Viewer{Staff: true},
		Now:    queryNow,
		Filter: Filter{
			AuthorEmail:   "ann@example.com",
			TitleContains: "50%_off",
			Tags:          []string{"go"},
			Window:        &window,
		},
	})

	clause := builder.clause()
	assert.Contains(t, clause, "LOWER(u.email) = LOWER($1)")
	assert.Contains(t, clause, `p.title ILIKE $2 ESCAPE '\'`)
	assert.Contains(t, clause, "tv.value = ANY($3)")
	assert.Contains(t, clause, "p.publishedat >= $4")
	assert.Contains(t, clause, "p.publishedat < $5")

	assert.Equal(t, `%50\%\_off%`, builder.args[1])
	assert.Equal(t, []string{"go"}, builder.args[2])
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, " ORDER BY p.publishedat DESC NULLS LAST, p.id DESC", orderClause(nil))
	assert.Equal(t,
		" ORDER BY p.title ASC NULLS LAST, p.authorid DESC NULLS LAST, p.id DESC",
		orderClause([]OrderField{{Field: "title"}, {Field: "author", Desc: true}}),
	)
}

func TestBuildList_Placeholders(t *testing.T) {
	listSQL, listArgs, countSQL, countArgs := buildList(ListQuery{
		Viewer: Viewer{UserID: 3},
		Now:    queryNow,
		Limit:  20,
		Offset: 40,
	})

	assert.True(t, strings.HasSuffix(listSQL, "LIMIT $3 OFFSET $4"))
	assert.Equal(t, []any{queryNow, int64(3), 20, 40}, listArgs)
	assert.Contains(t, countSQL, "SELECT COUNT(*)")
	assert.Len(t, countArgs, 2)
}
