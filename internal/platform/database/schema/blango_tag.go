package schema

// TagTable represents the 'blango.tag' table
type TagTable struct {
	Table string
	ID    string
	Value string
}

// Tag is the schema definition for blango.tag
var Tag = TagTable{
	Table: "blango.tag",
	ID:    "id",
	Value: "value",
}
