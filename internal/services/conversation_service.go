package services

import (
	"context"
	"strings"
	"time"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
	"github.com/mroshb/daymate/internal/security"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
	"gorm.io/gorm"
)

// ConversationSummary is one row of a user's inbox.
type ConversationSummary struct {
	Conversation models.Conversation
	Other        models.User
	LastMessage  *models.Message
}

type ConversationService struct {
	db     *gorm.DB
	repos  *repositories.Repositories
	limits Limits
	now    func() time.Time
}

func NewConversationService(db *gorm.DB, repos *repositories.Repositories, limits Limits) *ConversationService {
	return &ConversationService{db: db, repos: repos, limits: limits, now: time.Now}
}

// EnsureConversation returns the single conversation of the pair, creating
// it on first use. Argument order does not matter.
func (s *ConversationService) EnsureConversation(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if userA == userB {
		return nil, errors.New(errors.ErrCodeSelfTarget, "you cannot message yourself")
	}
	for _, id := range []string{userA, userB} {
		if _, err := s.repos.Users.GetUserByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.repos.Conversations.Ensure(ctx, userA, userB, s.now())
}

// StartConversation opens the actor's conversation with otherUsername.
func (s *ConversationService) StartConversation(ctx context.Context, actorID, otherUsername string) (*models.Conversation, error) {
	other, err := s.repos.Users.GetUserByUsername(ctx, otherUsername)
	if err != nil {
		return nil, err
	}
	return s.EnsureConversation(ctx, actorID, other.ID)
}

// PostMessage appends a message from a participant. Blank TEXT content is
// ignored and returns a nil message with no error. System messages are
// stored as given.
func (s *ConversationService) PostMessage(ctx context.Context, conversationID, senderID, content string, kind models.MessageType, relatedProposalID *string) (*models.Message, error) {
	if !kind.Valid() {
		return nil, errors.New(errors.ErrCodeValidation, "invalid message type")
	}

	conversation, err := s.repos.Conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(senderID) {
		return nil, errors.New(errors.ErrCodeForbidden, "you are not part of this conversation")
	}

	if !kind.IsSystem() {
		content = security.CleanText(content)
		if strings.TrimSpace(content) == "" {
			return nil, nil
		}
		if security.TooLong(content, s.limits.MessageMax) {
			return nil, errors.New(errors.ErrCodeValidation, "message is too long")
		}
	}

	var message *models.Message
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		message, txErr = appendMessage(ctx, s.repos.WithTx(tx), conversation.ID, senderID, content, kind, relatedProposalID, s.now())
		return txErr
	})
	if err != nil {
		logger.Error("failed to post message", "conversation_id", conversation.ID, "error", err)
		return nil, err
	}
	return message, nil
}

// ListConversations returns the user's conversations, most recently active
// first, each with its latest message.
func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]ConversationSummary, error) {
	conversations, err := s.repos.Conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		latest, err := s.repos.Messages.Latest(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		other := c.UserA
		if c.UserAID == userID {
			other = c.UserB
		}
		summaries = append(summaries, ConversationSummary{
			Conversation: c,
			Other:        other,
			LastMessage:  latest,
		})
	}
	return summaries, nil
}

// ListMessages returns the whole thread oldest first. Only participants may
// read it.
func (s *ConversationService) ListMessages(ctx context.Context, viewerID, conversationID string) ([]models.Message, error) {
	conversation, err := s.repos.Conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(viewerID) {
		return nil, errors.New(errors.ErrCodeForbidden, "you are not part of this conversation")
	}
	return s.repos.Messages.ListForConversation(ctx, conversation.ID)
}

// appendMessage stores a message and bumps the conversation's activity time.
// repos is expected to be bound to a transaction.
func appendMessage(ctx context.Context, repos *repositories.Repositories, conversationID, senderID, content string, kind models.MessageType, relatedProposalID *string, at time.Time) (*models.Message, error) {
	message := &models.Message{
		ConversationID:           conversationID,
		SenderID:                 senderID,
		Content:                  content,
		MessageType:              kind,
		RelatedMeetingProposalID: relatedProposalID,
		CreatedAt:                at,
	}
	if err := repos.Messages.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	if err := repos.Conversations.Touch(ctx, conversationID, at); err != nil {
		return nil, err
	}
	return message, nil
}
