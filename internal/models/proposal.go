package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

type ProposalStatus string

// Proposal status constants
const (
	ProposalStatusPending   ProposalStatus = "PENDING"
	ProposalStatusAccepted  ProposalStatus = "ACCEPTED"
	ProposalStatusDeclined  ProposalStatus = "DECLINED"
	ProposalStatusCancelled ProposalStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed.
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusDeclined || s == ProposalStatusCancelled
}

// ParseResponseStatus validates the status a responder asks for. Only
// terminal states can be requested.
func ParseResponseStatus(value string) (ProposalStatus, error) {
	status := ProposalStatus(value)
	if !status.IsTerminal() {
		return "", errors.New(errors.ErrCodeValidation, "invalid proposal status")
	}
	return status, nil
}

type MeetingProposal struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)"`
	ProposerID  string         `gorm:"type:varchar(36);not null;index"`
	Proposer    User           `gorm:"foreignKey:ProposerID;constraint:OnDelete:CASCADE"`
	ReceiverID  string         `gorm:"type:varchar(36);not null;index:idx_proposal_receiver_status,priority:1"`
	Receiver    User           `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	DayEntryID  string         `gorm:"type:varchar(36);not null;index"`
	DayEntry    DayEntry       `gorm:"foreignKey:DayEntryID;constraint:OnDelete:CASCADE"`
	Message     *string        `gorm:"type:varchar(500)"`
	Status      ProposalStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_proposal_receiver_status,priority:2"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
	RespondedAt *time.Time
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (p *MeetingProposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = ProposalStatusPending
	}
	return nil
}

func (MeetingProposal) TableName() string {
	return "meeting_proposals"
}
