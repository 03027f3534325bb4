package user

import "context"

// Repository is the persistence contract for users. GetByUsername returns
// ErrNotFound for unknown usernames; Create returns ErrDuplicateUsername
// when the username is taken.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
}
