package user

// User represents a registered account.
type User struct {
	ID        int64  // ID is the unique identifier for the user
	Email     string // Email is the unique login address of the user
	Password  string // Password is the bcrypt hash, never the plain text
	FirstName string // FirstName is the display name
}
