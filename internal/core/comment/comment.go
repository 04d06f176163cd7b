// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment stores comments attached to other objects.

A comment targets any object through a (content type, object id) pair. Only
posts ("blog.post") carry comments today.
*/
package comment

import "time"

// ContentTypePost identifies posts as comment targets.
const ContentTypePost = "blog.post"

// Field names used in validation errors.
const (
	FieldComments = "comments"
	FieldContent  = "content"
)

// Creator is the public view of the user who wrote a comment.
type Creator struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Comment is a piece of user text attached to a target object.
type Comment struct {
	ID          int64     `json:"id"`
	CreatorID   int64     `json:"-"`
	Creator     Creator   `json:"creator"`
	Content     string    `json:"content"`
	ContentType string    `json:"-"`
	ObjectID    int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// Input is one entry of the "comments" member of a post write.
//
// An entry with an ID edits that comment; an entry without one adds a new comment.
type Input struct {
	ID      *int64 `json:"id,omitempty"`
	Content string `json:"content"`
}
