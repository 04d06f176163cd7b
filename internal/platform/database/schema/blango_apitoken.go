package schema

// APITokenTable represents the 'blango.apitoken' table
type APITokenTable struct {
	Table     string
	Key       string
	UserID    string
	CreatedAt string
}

// APIToken is the schema definition for blango.apitoken
var APIToken = APITokenTable{
	Table:     "blango.apitoken",
	Key:       "key",
	UserID:    "userid",
	CreatedAt: "createdat",
}
