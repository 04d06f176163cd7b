package schema

// PostTable represents the 'blango.post' table
type PostTable struct {
	Table       string
	ID          string
	AuthorID    string
	CreatedAt   string
	ModifiedAt  string
	PublishedAt string
	Title       string
	Slug        string
	Summary     string
	Content     string
	HeroImage   string
	PPOI        string
}

// Post is the schema definition for blango.post
var Post = PostTable{
	Table:       "blango.post",
	ID:          "id",
	AuthorID:    "authorid",
	CreatedAt:   "createdat",
	ModifiedAt:  "modifiedat",
	PublishedAt: "publishedat",
	Title:       "title",
	Slug:        "slug",
	Summary:     "summary",
	Content:     "content",
	HeroImage:   "heroimage",
	PPOI:        "ppoi",
}

// Columns returns all standard column names
func (t PostTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.CreatedAt, t.ModifiedAt, t.PublishedAt,
		t.Title, t.Slug, t.Summary, t.Content, t.HeroImage, t.PPOI,
	}
}

// PostTagsTable represents the 'blango.post_tags' join table
type PostTagsTable struct {
	Table  string
	PostID string
	TagID  string
}

// PostTags is the schema definition for blango.post_tags
var PostTags = PostTagsTable{
	Table:  "blango.post_tags",
	PostID: "postid",
	TagID:  "tagid",
}
