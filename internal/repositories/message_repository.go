package repositories

import (
	"context"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// CreateMessage appends a message
func (r *MessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create message")
	}
	return nil
}

// ListForConversation retrieves all messages in chronological order
func (r *MessageRepository) ListForConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Preload("RelatedMeetingProposal").
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list messages")
	}
	return messages, nil
}

// Latest retrieves the newest message of a conversation, or nil when empty
func (r *MessageRepository) Latest(ctx context.Context, conversationID string) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Order("id DESC").
		First(&message).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get latest message")
	}
	return &message, nil
}
