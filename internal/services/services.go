// Package services holds the scheduling rules: availability, friendships,
// meeting proposals and the conversation ledger. Every operation takes the
// acting user's id explicitly; nothing reads ambient request state.
package services

import (
	"time"

	"github.com/mroshb/daymate/internal/config"
	"github.com/mroshb/daymate/internal/repositories"
	"gorm.io/gorm"
)

// Limits caps the length of user-typed text, in characters.
type Limits struct {
	ProposalMessageMax int
	CommentMax         int
	MessageMax         int
	NoteMax            int
	DisplayNameMax     int
	BioMax             int
}

func DefaultLimits() Limits {
	return Limits{
		ProposalMessageMax: 200,
		CommentMax:         240,
		MessageMax:         1000,
		NoteMax:            500,
		DisplayNameMax:     60,
		BioMax:             280,
	}
}

func LimitsFromConfig(cfg *config.Config) Limits {
	limits := DefaultLimits()
	limits.ProposalMessageMax = cfg.ProposalMessageMax
	limits.CommentMax = cfg.CommentMax
	limits.MessageMax = cfg.MessageMax
	limits.NoteMax = cfg.NoteMax
	return limits
}

// Services wires every service over one database.
type Services struct {
	Users         *UserService
	Availability  *AvailabilityService
	Friends       *FriendshipService
	Proposals     *ProposalService
	Conversations *ConversationService
	Comments      *CommentService
	Feed          *FeedService
}

func New(db *gorm.DB, limits Limits) *Services {
	repos := repositories.New(db)

	users := NewUserService(repos, limits)
	availability := NewAvailabilityService(repos, limits)
	friends := NewFriendshipService(repos)
	conversations := NewConversationService(db, repos, limits)

	return &Services{
		Users:         users,
		Availability:  availability,
		Friends:       friends,
		Proposals:     NewProposalService(db, repos, limits),
		Conversations: conversations,
		Comments:      NewCommentService(repos, limits),
		Feed:          NewFeedService(repos),
	}
}

// SetClock replaces the time source of every service that stamps rows.
func (s *Services) SetClock(now func() time.Time) {
	s.Proposals.now = now
	s.Conversations.now = now
}
