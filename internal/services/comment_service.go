package services

import (
	"context"

	"github.com/mroshb/daymate/internal/calendar"
	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
	"github.com/mroshb/daymate/internal/security"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
)

type CommentService struct {
	repos  *repositories.Repositories
	limits Limits
}

func NewCommentService(repos *repositories.Repositories, limits Limits) *CommentService {
	return &CommentService{repos: repos, limits: limits}
}

// AddComment leaves a comment on another user's day, creating the day entry
// if nobody has touched that day yet.
func (s *CommentService) AddComment(ctx context.Context, authorID, ownerUsername, dateKey, content string) (*models.DayComment, error) {
	owner, err := s.repos.Users.GetUserByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}
	author, err := s.repos.Users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	day, err := calendar.ParseDay(dateKey)
	if err != nil {
		return nil, err
	}

	content = security.CleanText(content)
	if content == "" {
		return nil, errors.New(errors.ErrCodeValidation, "comment is required")
	}
	if security.TooLong(content, s.limits.CommentMax) {
		return nil, errors.New(errors.ErrCodeValidation, "comment is too long")
	}

	entry, err := s.repos.DayEntries.Ensure(ctx, owner.ID, day)
	if err != nil {
		return nil, err
	}

	comment := &models.DayComment{
		DayEntryID: entry.ID,
		AuthorID:   author.ID,
		Content:    content,
	}
	if err := s.repos.Comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author

	logger.Debug("comment added", "comment_id", comment.ID, "day_entry_id", entry.ID, "author_id", author.ID)
	return comment, nil
}
