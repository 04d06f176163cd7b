package schema

// CommentTable represents the 'blango.comment' table.
//
// Comments attach to any object through (ContentType, ObjectID).
type CommentTable struct {
	Table       string
	ID          string
	CreatorID   string
	Content     string
	ContentType string
	ObjectID    string
	CreatedAt   string
	ModifiedAt  string
}

// Comment is the schema definition for blango.comment
var Comment = CommentTable{
	Table:       "blango.comment",
	ID:          "id",
	CreatorID:   "creatorid",
	Content:     "content",
	ContentType: "contenttype",
	ObjectID:    "objectid",
	CreatedAt:   "createdat",
	ModifiedAt:  "modifiedat",
}
