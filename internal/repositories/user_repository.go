package repositories

import (
	"context"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// CreateUser inserts a new user
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return errors.New(errors.ErrCodeAlreadyExists, "username already taken")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by id
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "user not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user")
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "user not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get user")
	}
	return &user, nil
}

// UpdateMeetingPolicy sets whether only friends may propose meetings to the user
func (r *UserRepository) UpdateMeetingPolicy(ctx context.Context, userID string, friendOnly bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("friend_only_for_meeting_requests", friendOnly)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update meeting policy")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}

// UpdateProfile replaces display name and bio
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, displayName, bio *string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"display_name": displayName,
			"bio":          bio,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update profile")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}
