package schema

// AuthorProfileTable represents the 'blango.authorprofile' table
type AuthorProfileTable struct {
	Table  string
	ID     string
	UserID string
	Bio    string
}

// AuthorProfile is the schema definition for blango.authorprofile
var AuthorProfile = AuthorProfileTable{
	Table:  "blango.authorprofile",
	ID:     "id",
	UserID: "userid",
	Bio:    "bio",
}
