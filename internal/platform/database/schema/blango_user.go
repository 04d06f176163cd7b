package schema

// UserTable represents the 'blango.user' table
type UserTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      string
	IsActive     string
	DateJoined   string
}

// User is the schema definition for blango.user.
//
// The table name is quoted because "user" is a reserved word in PostgreSQL.
var User = UserTable{
	Table:        `blango."user"`,
	ID:           "id",
	Email:        "email",
	PasswordHash: "passwordhash",
	FirstName:    "firstname",
	LastName:     "lastname",
	IsStaff:      "isstaff",
	IsActive:     "isactive",
	DateJoined:   "datejoined",
}

// Columns returns all standard column names
func (t UserTable) Columns() []string {
	return []string{t.ID, t.Email, t.PasswordHash, t.FirstName, t.LastName, t.IsStaff, t.IsActive, t.DateJoined}
}
