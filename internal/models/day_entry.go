package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

type AvailabilityStatus string

// Availability status constants
const (
	AvailabilityNone   AvailabilityStatus = "NONE"
	AvailabilityOpen   AvailabilityStatus = "OPEN"
	AvailabilityBusy   AvailabilityStatus = "BUSY"
	AvailabilityClosed AvailabilityStatus = "CLOSED"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityNone, AvailabilityOpen, AvailabilityBusy, AvailabilityClosed:
		return true
	}
	return false
}

// ParseAvailabilityStatus validates a caller-supplied status.
func ParseAvailabilityStatus(value string) (AvailabilityStatus, error) {
	status := AvailabilityStatus(value)
	if !status.Valid() {
		return "", errors.New(errors.ErrCodeValidation, "invalid availability status")
	}
	return status, nil
}

// DayEntry is one user's availability for one calendar day. Date holds the
// normalized day key, see package calendar.
type DayEntry struct {
	ID                 string             `gorm:"primaryKey;type:varchar(36)"`
	UserID             string             `gorm:"type:varchar(36);not null;uniqueIndex:idx_day_entry_user_date,priority:1"`
	User               User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Date               string             `gorm:"type:char(10);not null;uniqueIndex:idx_day_entry_user_date,priority:2"`
	AvailabilityStatus AvailabilityStatus `gorm:"type:varchar(10);not null;default:'NONE'"`
	PersonalNote       *string            `gorm:"type:text"`
	CreatedAt          time.Time          `gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime;index"`
}

func (e *DayEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.AvailabilityStatus == "" {
		e.AvailabilityStatus = AvailabilityNone
	}
	return nil
}

func (DayEntry) TableName() string {
	return "day_entries"
}

type DayComment struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	DayEntryID string    `gorm:"type:varchar(36);not null;index"`
	DayEntry   DayEntry  `gorm:"foreignKey:DayEntryID;constraint:OnDelete:CASCADE"`
	AuthorID   string    `gorm:"type:varchar(36);not null;index"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (c *DayComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (DayComment) TableName() string {
	return "day_comments"
}
