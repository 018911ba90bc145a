package auth

import (
	"context"
	"errors"
	"fmt"

	"StreamingMusical/model"
	"StreamingMusical/repository"
)

// Service registers and authenticates users against a UserRepository.
type Service struct {
	users repository.UserRepository
}

// NewService creates a Service.
func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Register hashes password and stores a new user. Emails are not checked for
// uniqueness; Authenticate resolves duplicates to the oldest account.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user owning email when password matches. An
// unknown email and a wrong password both yield (nil, nil).
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}
