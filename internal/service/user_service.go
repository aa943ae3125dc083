package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/failure"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	users  domain.UserRepository
	logger *zerolog.Logger
}

func NewUserService(users domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return getUser(ctx, s.users, id)
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.checkEmail(ctx, user.Email, 0); err != nil {
		return nil, err
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, failure.Conflict("email already exists: %s", user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("User created")
	return user, nil
}

// Update applies a partial update. A blank name or a nil email leaves the field as is.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := getUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(patch.Name) != "" {
		user.Name = patch.Name
	}
	if patch.Email != nil && *patch.Email != user.Email {
		if err := s.checkEmail(ctx, *patch.Email, id); err != nil {
			return nil, err
		}
		user.Email = *patch.Email
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, failure.Conflict("email already exists: %s", user.Email)
		}
		return nil, storeErr(err, "update user", "user not found: %d", id)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return storeErr(err, "delete user", "user not found: %d", id)
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

func (s *UserService) checkEmail(ctx context.Context, email string, exceptID int64) error {
	taken, err := s.users.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return failure.Conflict("email already exists: %s", email)
	}
	return nil
}
