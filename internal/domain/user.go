package domain

// User represents a chat participant bound to a single live connection.
// It exists only between a successful join and the connection's teardown;
// there is no identity beyond the connection itself.
type User struct {
	ConnID   string `json:"-"` // assigned by the transport, never serialized
	Username string `json:"username"`
	Room     string `json:"room"` // display casing as supplied at join
}

// NewUser creates a User for the given connection
func NewUser(connID, username, room string) *User {
	return &User{
		ConnID:   connID,
		Username: username,
		Room:     room,
	}
}
