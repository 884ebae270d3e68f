package auth

// SignUpRequest represents the sign-up form.
// Field order matters: the first failing field decides the message.
type SignUpRequest struct {
	Email     string `validate:"min=4,max=150"`
	FirstName string `validate:"min=2,max=150"`
	Password1 string `validate:"eqfield=Password2,min=7,max=150"`
	Password2 string
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Email    string
	Password string
}

// AuthResponse is returned by a successful sign-up or login.
type AuthResponse struct {
	User      User
	SessionID string
	Message   string
}

// User is the public view of an account.
type User struct {
	ID        int64
	Email     string
	FirstName string
}
