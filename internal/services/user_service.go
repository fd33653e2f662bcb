package services

import (
	"context"
	"strings"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
	"github.com/mroshb/daymate/internal/security"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
)

type UserService struct {
	repos  *repositories.Repositories
	limits Limits
}

func NewUserService(repos *repositories.Repositories, limits Limits) *UserService {
	return &UserService{repos: repos, limits: limits}
}

// Register creates a user. displayName may be empty.
func (s *UserService) Register(ctx context.Context, username, displayName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := models.ValidateUsername(username); err != nil {
		return nil, err
	}

	name, err := cleanOptional(displayName, s.limits.DisplayNameMax, "display name")
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, DisplayName: name}
	if err := s.repos.Users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repos.Users.GetUserByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repos.Users.GetUserByUsername(ctx, strings.TrimSpace(username))
}

// UpdateMeetingPolicy lets a user restrict meeting proposals to friends.
func (s *UserService) UpdateMeetingPolicy(ctx context.Context, actorID string, friendOnly bool) (*models.User, error) {
	if err := s.repos.Users.UpdateMeetingPolicy(ctx, actorID, friendOnly); err != nil {
		return nil, err
	}
	return s.repos.Users.GetUserByID(ctx, actorID)
}

// UpdateProfile replaces display name and bio. Blank values clear them.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, displayName, bio string) (*models.User, error) {
	name, err := cleanOptional(displayName, s.limits.DisplayNameMax, "display name")
	if err != nil {
		return nil, err
	}
	about, err := cleanOptional(bio, s.limits.BioMax, "bio")
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users.UpdateProfile(ctx, actorID, name, about); err != nil {
		return nil, err
	}
	return s.repos.Users.GetUserByID(ctx, actorID)
}

// cleanOptional sanitizes free text; an empty result is stored as NULL.
func cleanOptional(value string, max int, field string) (*string, error) {
	cleaned := security.CleanText(value)
	if cleaned == "" {
		return nil, nil
	}
	if security.TooLong(cleaned, max) {
		return nil, errors.New(errors.ErrCodeValidation, field+" is too long")
	}
	return &cleaned, nil
}
