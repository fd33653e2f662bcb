package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mroshb/daymate/internal/calendar"
	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
	"gorm.io/gorm"
)

// System message templates: actor name, day key.
const (
	proposedTemplate  = "%s proposed to meet on %s."
	acceptedTemplate  = "%s accepted the meeting on %s."
	declinedTemplate  = "%s declined the meeting on %s."
	cancelledTemplate = "%s cancelled the meeting proposal for %s."
)

// ProposalService runs the meeting proposal lifecycle. A proposal starts
// PENDING; the receiver may accept or decline it and the proposer may cancel
// it. Every outcome is final.
type ProposalService struct {
	db     *gorm.DB
	repos  *repositories.Repositories
	limits Limits
	now    func() time.Time
}

func NewProposalService(db *gorm.DB, repos *repositories.Repositories, limits Limits) *ProposalService {
	return &ProposalService{db: db, repos: repos, limits: limits, now: time.Now}
}

// Propose asks receiverUsername to meet on dateKey. The proposal targets the
// receiver's day entry and is announced in the pair's conversation. All
// checks run before anything is written; the writes commit together.
func (s *ProposalService) Propose(ctx context.Context, proposerID, receiverUsername, dateKey, message string) (*models.MeetingProposal, error) {
	receiver, err := s.repos.Users.GetUserByUsername(ctx, receiverUsername)
	if err != nil {
		return nil, err
	}
	if receiver.ID == proposerID {
		return nil, errors.New(errors.ErrCodeSelfTarget, "you cannot propose a meeting to yourself")
	}
	proposer, err := s.repos.Users.GetUserByID(ctx, proposerID)
	if err != nil {
		return nil, err
	}

	if receiver.FriendOnlyForMeetingRequests {
		friends, err := s.repos.Friends.AreFriends(ctx, proposer.ID, receiver.ID)
		if err != nil {
			return nil, err
		}
		if !friends {
			return nil, errors.New(errors.ErrCodeForbidden, "this user only accepts meeting proposals from friends")
		}
	}

	day, err := calendar.ParseDay(dateKey)
	if err != nil {
		return nil, err
	}
	note, err := cleanOptional(message, s.limits.ProposalMessageMax, "message")
	if err != nil {
		return nil, err
	}

	now := s.now()
	var proposal *models.MeetingProposal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		entry, err := repos.DayEntries.Ensure(ctx, receiver.ID, day)
		if err != nil {
			return err
		}

		proposal = &models.MeetingProposal{
			ProposerID: proposer.ID,
			ReceiverID: receiver.ID,
			DayEntryID: entry.ID,
			Message:    note,
			Status:     models.ProposalStatusPending,
			CreatedAt:  now,
		}
		if err := repos.Proposals.CreateProposal(ctx, proposal); err != nil {
			return err
		}

		conversation, err := repos.Conversations.Ensure(ctx, proposer.ID, receiver.ID, now)
		if err != nil {
			return err
		}

		content := fmt.Sprintf(proposedTemplate, proposer.Name(), day)
		_, err = appendMessage(ctx, repos, conversation.ID, proposer.ID, content, models.MessageTypeSystem, &proposal.ID, now)
		return err
	})
	if err != nil {
		logger.Error("failed to create proposal", "proposer_id", proposer.ID, "receiver_id", receiver.ID, "date", day, "error", err)
		return nil, err
	}

	logger.Info("proposal created", "proposal_id", proposal.ID, "proposer_id", proposer.ID, "receiver_id", receiver.ID, "date", day)
	return s.repos.Proposals.GetProposalByID(ctx, proposal.ID)
}

// Respond moves a pending proposal to a final status. The receiver may
// accept or decline; the proposer may cancel. Accepting marks the day BUSY on
// both calendars. The status change, calendar updates and the conversation
// notice commit together.
func (s *ProposalService) Respond(ctx context.Context, responderID, proposalID string, status models.ProposalStatus) (*models.MeetingProposal, error) {
	if !status.IsTerminal() {
		return nil, errors.New(errors.ErrCodeValidation, "invalid proposal status")
	}

	proposal, err := s.repos.Proposals.GetProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	responder := &proposal.Receiver
	if status == models.ProposalStatusCancelled {
		responder = &proposal.Proposer
	}
	if responder.ID != responderID {
		return nil, errors.New(errors.ErrCodeUnauthorized, "you cannot change this proposal")
	}
	if proposal.Status.IsTerminal() {
		return nil, errors.New(errors.ErrCodeInvalidTransition, "proposal has already been answered")
	}

	day := proposal.DayEntry.Date
	now := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		if err := repos.Proposals.TransitionFromPending(ctx, proposal.ID, status, now); err != nil {
			return err
		}

		if status == models.ProposalStatusAccepted {
			if _, err := repos.DayEntries.ForceBusy(ctx, proposal.ReceiverID, day); err != nil {
				return err
			}
			if _, err := repos.DayEntries.ForceBusy(ctx, proposal.ProposerID, day); err != nil {
				return err
			}
		}

		conversation, err := repos.Conversations.Ensure(ctx, proposal.ProposerID, proposal.ReceiverID, now)
		if err != nil {
			return err
		}

		content := fmt.Sprintf(outcomeTemplate(status), responder.Name(), day)
		_, err = appendMessage(ctx, repos, conversation.ID, responder.ID, content, models.MessageTypeSystem, &proposal.ID, now)
		return err
	})
	if err != nil {
		if !errors.IsUserFacing(err) {
			logger.Error("failed to respond to proposal", "proposal_id", proposal.ID, "status", status, "error", err)
		}
		return nil, err
	}

	logger.Info("proposal responded", "proposal_id", proposal.ID, "status", status, "responder_id", responder.ID)
	return s.repos.Proposals.GetProposalByID(ctx, proposal.ID)
}

func outcomeTemplate(status models.ProposalStatus) string {
	switch status {
	case models.ProposalStatusAccepted:
		return acceptedTemplate
	case models.ProposalStatusDeclined:
		return declinedTemplate
	default:
		return cancelledTemplate
	}
}

// ListPendingForReceiver returns proposals waiting for userID's answer.
func (s *ProposalService) ListPendingForReceiver(ctx context.Context, userID string) ([]models.MeetingProposal, error) {
	return s.repos.Proposals.ListPendingForReceiver(ctx, userID)
}

// ListForUser returns the latest proposals the user sent or received.
func (s *ProposalService) ListForUser(ctx context.Context, userID string, limit int) ([]models.MeetingProposal, error) {
	return s.repos.Proposals.ListRecentInvolving(ctx, []string{userID}, limit)
}
