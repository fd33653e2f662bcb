package repositories

import (
	stderrors "errors"

	"gorm.io/gorm"
)

func isNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate reports a unique-index violation. The connection is opened with
// TranslateError, so every driver reports it as gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}

// Repositories bundles every repository over one connection so a service can
// rebind all of them to a transaction at once.
type Repositories struct {
	Users         *UserRepository
	DayEntries    *DayEntryRepository
	Comments      *CommentRepository
	Friends       *FriendRepository
	Proposals     *ProposalRepository
	Conversations *ConversationRepository
	Messages      *MessageRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		DayEntries:    NewDayEntryRepository(db),
		Comments:      NewCommentRepository(db),
		Friends:       NewFriendRepository(db),
		Proposals:     NewProposalRepository(db),
		Conversations: NewConversationRepository(db),
		Messages:      NewMessageRepository(db),
	}
}

// WithTx returns a bundle whose repositories all run inside tx.
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return New(tx)
}
