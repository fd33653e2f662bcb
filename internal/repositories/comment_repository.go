package repositories

import (
	"context"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

// CreateComment inserts a comment on a day entry
func (r *CommentRepository) CreateComment(ctx context.Context, comment *models.DayComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create comment")
	}
	return nil
}

// ListForDayEntry retrieves comments oldest first
func (r *CommentRepository) ListForDayEntry(ctx context.Context, dayEntryID string) ([]models.DayComment, error) {
	var comments []models.DayComment
	err := r.db.WithContext(ctx).
		Where("day_entry_id = ?", dayEntryID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list comments")
	}
	return comments, nil
}
