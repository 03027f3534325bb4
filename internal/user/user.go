package user

import "errors"

// ErrNotFound is returned when no user exists for the requested username.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned when registering a username that is
// already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// User is a registered API user. Password holds the bcrypt hash and never
// leaves the server.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"-"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
}
