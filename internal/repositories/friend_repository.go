package repositories

import (
	"context"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

func (r *FriendRepository) WithTx(tx *gorm.DB) *FriendRepository {
	return &FriendRepository{db: tx}
}

// FindBetween returns the friendship between two users in either direction,
// or nil when there is none.
func (r *FriendRepository) FindBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("pair_key = ?", models.PairKey(userA, userB)).
		First(&friendship).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to check existing friendship")
	}
	return &friendship, nil
}

// CreateRequest inserts a pending request. A second row for the same pair
// fails with ErrCodeAlreadyExists.
func (r *FriendRepository) CreateRequest(ctx context.Context, requesterID, receiverID string) (*models.Friendship, error) {
	friendship := &models.Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.FriendshipStatusPending,
	}

	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if isDuplicate(err) {
			return nil, errors.Wrap(err, errors.ErrCodeAlreadyExists, "friendship already exists")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request")
	}
	return friendship, nil
}

// GetByID retrieves a friendship by id
func (r *FriendRepository) GetByID(ctx context.Context, id string) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&friendship).Error; err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "friend request not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friend request")
	}
	return &friendship, nil
}

// AcceptFriendRequest accepts a pending friend request
func (r *FriendRepository) AcceptFriendRequest(ctx context.Context, requestID string) error {
	result := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("id = ? AND status = ?", requestID, models.FriendshipStatusPending).
		Update("status", models.FriendshipStatusAccepted)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to accept friend request")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidTransition, "friend request already processed")
	}

	return nil
}

// RejectFriendRequest deletes a pending friend request so the pair can start
// over.
func (r *FriendRepository) RejectFriendRequest(ctx context.Context, requestID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", requestID, models.FriendshipStatusPending).
		Delete(&models.Friendship{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to reject friend request")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidTransition, "friend request already processed")
	}

	return nil
}

// GetFriends retrieves list of user's friends
func (r *FriendRepository) GetFriends(ctx context.Context, userID string) ([]models.User, error) {
	var friends []models.User

	err := r.db.WithContext(ctx).Table("users").
		Select("users.*").
		Joins("JOIN friendships ON (friendships.requester_id = users.id OR friendships.receiver_id = users.id)").
		Where("(friendships.requester_id = ? OR friendships.receiver_id = ?) AND friendships.status = ? AND users.id != ?",
			userID, userID, models.FriendshipStatusAccepted, userID).
		Order("users.username ASC").
		Find(&friends).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	return friends, nil
}

// GetFriendIDs retrieves the ids of a user's accepted friends
func (r *FriendRepository) GetFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var friendships []models.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.FriendshipStatusAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.Other(userID))
	}
	return ids, nil
}

// GetPendingRequests retrieves pending friend requests addressed to a user
func (r *FriendRepository) GetPendingRequests(ctx context.Context, userID string) ([]models.Friendship, error) {
	var requests []models.Friendship

	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("Requester").
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get pending requests")
	}

	return requests, nil
}

// GetSentRequests retrieves pending friend requests a user has sent
func (r *FriendRepository) GetSentRequests(ctx context.Context, userID string) ([]models.Friendship, error) {
	var requests []models.Friendship

	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("Receiver").
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get sent requests")
	}

	return requests, nil
}

// RemoveFriend removes an accepted friendship
func (r *FriendRepository) RemoveFriend(ctx context.Context, user1ID, user2ID string) error {
	result := r.db.WithContext(ctx).
		Where("pair_key = ? AND status = ?", models.PairKey(user1ID, user2ID), models.FriendshipStatusAccepted).
		Delete(&models.Friendship{})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to remove friend")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "friendship not found")
	}

	return nil
}

// AreFriends checks if two users are friends
func (r *FriendRepository) AreFriends(ctx context.Context, user1ID, user2ID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("pair_key = ? AND status = ?", models.PairKey(user1ID, user2ID), models.FriendshipStatusAccepted).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check friendship")
	}

	return count > 0, nil
}
