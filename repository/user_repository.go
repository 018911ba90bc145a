package repository

import (
	"context"
	"fmt"

	"StreamingMusical/model"
)

// CreateUser adds a new user to the database.
func (s *GormStore) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// GetUserByID retrieves a user by their ID.
func (s *GormStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id_usuario = ?", id).First(&user).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound(KindUser, id)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves the oldest user registered with email.
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Order("id_usuario").First(&user).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}
