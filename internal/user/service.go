package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Service handles user registration, listing and credential checks.
type Service struct {
	repo Repository
}

// NewService creates a user service on top of a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register hashes the password and stores a new user. Roles default to USER
// when none are given.
func (s *Service) Register(ctx context.Context, u User, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Password = string(hash)

	if len(u.Roles) == 0 {
		u.Roles = []string{"USER"}
	}

	if err := s.repo.Create(ctx, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// List returns every registered user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

// Authenticate looks the username up and compares the password against the
// stored bcrypt hash. Unknown users and wrong passwords are both just
// ok=false.
func (s *Service) Authenticate(ctx context.Context, username, password string) (role string, ok bool, err error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", false, nil
	}

	role = "USER"
	if len(u.Roles) > 0 {
		role = u.Roles[0]
	}
	return role, true, nil
}
