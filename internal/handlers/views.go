package handlers

import (
	"time"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/services"
)

type userView struct {
	ID                           string  `json:"id"`
	Username                     string  `json:"username"`
	DisplayName                  *string `json:"display_name,omitempty"`
	Bio                          *string `json:"bio,omitempty"`
	FriendOnlyForMeetingRequests bool    `json:"friend_only_for_meeting_requests"`
}

func newUserView(u *models.User) *userView {
	if u == nil || u.ID == "" {
		return nil
	}
	return &userView{
		ID:                           u.ID,
		Username:                     u.Username,
		DisplayName:                  u.DisplayName,
		Bio:                          u.Bio,
		FriendOnlyForMeetingRequests: u.FriendOnlyForMeetingRequests,
	}
}

type dayEntryView struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	User               *userView `json:"user,omitempty"`
	Date               string    `json:"date"`
	AvailabilityStatus string    `json:"availability_status"`
	PersonalNote       *string   `json:"personal_note,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newDayEntryView(e *models.DayEntry) *dayEntryView {
	if e == nil || e.ID == "" {
		return nil
	}
	return &dayEntryView{
		ID:                 e.ID,
		UserID:             e.UserID,
		User:               newUserView(&e.User),
		Date:               e.Date,
		AvailabilityStatus: string(e.AvailabilityStatus),
		PersonalNote:       e.PersonalNote,
		UpdatedAt:          e.UpdatedAt,
	}
}

type commentView struct {
	ID        string    `json:"id"`
	Author    *userView `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentView(c *models.DayComment) commentView {
	return commentView{
		ID:        c.ID,
		Author:    newUserView(&c.Author),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

type proposalView struct {
	ID          string     `json:"id"`
	Proposer    *userView  `json:"proposer,omitempty"`
	ProposerID  string     `json:"proposer_id"`
	Receiver    *userView  `json:"receiver,omitempty"`
	ReceiverID  string     `json:"receiver_id"`
	Date        string     `json:"date,omitempty"`
	DayEntryID  string     `json:"day_entry_id"`
	Message     *string    `json:"message,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func newProposalView(p *models.MeetingProposal) proposalView {
	return proposalView{
		ID:          p.ID,
		Proposer:    newUserView(&p.Proposer),
		ProposerID:  p.ProposerID,
		Receiver:    newUserView(&p.Receiver),
		ReceiverID:  p.ReceiverID,
		Date:        p.DayEntry.Date,
		DayEntryID:  p.DayEntryID,
		Message:     p.Message,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		RespondedAt: p.RespondedAt,
	}
}

type friendshipView struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requester_id"`
	Requester   *userView `json:"requester,omitempty"`
	ReceiverID  string    `json:"receiver_id"`
	Receiver    *userView `json:"receiver,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func newFriendshipView(f *models.Friendship) friendshipView {
	return friendshipView{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		Requester:   newUserView(&f.Requester),
		ReceiverID:  f.ReceiverID,
		Receiver:    newUserView(&f.Receiver),
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}

type messageView struct {
	ID                       string    `json:"id"`
	ConversationID           string    `json:"conversation_id"`
	SenderID                 string    `json:"sender_id"`
	Content                  string    `json:"content"`
	MessageType              string    `json:"message_type"`
	RelatedMeetingProposalID *string   `json:"related_meeting_proposal_id,omitempty"`
	ProposalStatus           string    `json:"proposal_status,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
}

func newMessageView(m *models.Message) messageView {
	v := messageView{
		ID:                       m.ID,
		ConversationID:           m.ConversationID,
		SenderID:                 m.SenderID,
		Content:                  m.Content,
		MessageType:              string(m.MessageType),
		RelatedMeetingProposalID: m.RelatedMeetingProposalID,
		CreatedAt:                m.CreatedAt,
	}
	if m.RelatedMeetingProposal != nil {
		v.ProposalStatus = string(m.RelatedMeetingProposal.Status)
	}
	return v
}

type conversationView struct {
	ID            string       `json:"id"`
	Other         *userView    `json:"other"`
	LastMessageAt time.Time    `json:"last_message_at"`
	LastMessage   *messageView `json:"last_message,omitempty"`
}

func newConversationView(s *services.ConversationSummary) conversationView {
	v := conversationView{
		ID:            s.Conversation.ID,
		Other:         newUserView(&s.Other),
		LastMessageAt: s.Conversation.LastMessageAt,
	}
	if s.LastMessage != nil {
		m := newMessageView(s.LastMessage)
		v.LastMessage = &m
	}
	return v
}

type feedItemView struct {
	Kind     string        `json:"kind"`
	At       time.Time     `json:"at"`
	DayEntry *dayEntryView `json:"day_entry,omitempty"`
	Proposal *proposalView `json:"proposal,omitempty"`
}

func newFeedItemView(item *services.FeedItem) feedItemView {
	v := feedItemView{Kind: string(item.Kind), At: item.At}
	if item.DayEntry != nil {
		v.DayEntry = newDayEntryView(item.DayEntry)
	}
	if item.Proposal != nil {
		p := newProposalView(item.Proposal)
		v.Proposal = &p
	}
	return v
}
