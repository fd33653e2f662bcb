package repositories

import (
	"context"
	"time"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) WithTx(tx *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: tx}
}

// Ensure returns the conversation between two users, creating it if absent.
// Both orderings map to the same canonical row, and the insert is guarded by
// the pair's unique index.
func (r *ConversationRepository) Ensure(ctx context.Context, userA, userB string, now time.Time) (*models.Conversation, error) {
	first, second := models.CanonicalPair(userA, userB)

	conversation := &models.Conversation{
		UserAID:       first,
		UserBID:       second,
		LastMessageAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
			DoNothing: true,
		}).
		Create(conversation).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to ensure conversation")
	}

	return r.FindBetween(ctx, first, second)
}

// FindBetween retrieves the conversation of a pair in either order
func (r *ConversationRepository) FindBetween(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	first, second := models.CanonicalPair(userA, userB)

	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", first, second).
		First(&conversation).Error
	if err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "conversation not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get conversation")
	}
	return &conversation, nil
}

// GetConversationByID retrieves a conversation by id
func (r *ConversationRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error; err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "conversation not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get conversation")
	}
	return &conversation, nil
}

// Touch records the time of the latest message
func (r *ConversationRepository) Touch(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update conversation")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "conversation not found")
	}
	return nil
}

// ListForUser retrieves a user's conversations, most recently active first
func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Preload("UserA").
		Preload("UserB").
		Order("last_message_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list conversations")
	}
	return conversations, nil
}
