package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

// Message type constants
const (
	MessageTypeText            MessageType = "TEXT"
	MessageTypeMeetingProposal MessageType = "MEETING_PROPOSAL"
	MessageTypeSystem          MessageType = "SYSTEM"
)

// IsSystem reports whether the message is engine generated rather than typed
// by a user.
func (t MessageType) IsSystem() bool {
	return t == MessageTypeSystem || t == MessageTypeMeetingProposal
}

func (t MessageType) Valid() bool {
	return t == MessageTypeText || t.IsSystem()
}

// Conversation is the single thread shared by an unordered pair of users.
// UserAID is always the lexicographically smaller id.
type Conversation struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	UserAID       string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_conversation_pair,priority:1"`
	UserA         User      `gorm:"foreignKey:UserAID;constraint:OnDelete:CASCADE"`
	UserBID       string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_conversation_pair,priority:2;index"`
	UserB         User      `gorm:"foreignKey:UserBID;constraint:OnDelete:CASCADE"`
	LastMessageAt time.Time `gorm:"index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UserAID, c.UserBID = CanonicalPair(c.UserAID, c.UserBID)
	return nil
}

// HasParticipant reports whether userID is one of the two users.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message is append-only.
type Message struct {
	ID                       string           `gorm:"primaryKey;type:varchar(36)"`
	ConversationID           string           `gorm:"type:varchar(36);not null;index:idx_message_conversation_created,priority:1"`
	Conversation             Conversation     `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	SenderID                 string           `gorm:"type:varchar(36);not null"`
	Sender                   User             `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Content                  string           `gorm:"type:text;not null"`
	MessageType              MessageType      `gorm:"type:varchar(20);not null;default:'TEXT'"`
	RelatedMeetingProposalID *string          `gorm:"type:varchar(36);index"`
	RelatedMeetingProposal   *MeetingProposal `gorm:"foreignKey:RelatedMeetingProposalID;constraint:OnDelete:SET NULL"`
	CreatedAt                time.Time        `gorm:"index:idx_message_conversation_created,priority:2"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.MessageType == "" {
		m.MessageType = MessageTypeText
	}
	return nil
}

func (Message) TableName() string {
	return "messages"
}
