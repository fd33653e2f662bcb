package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

type User struct {
	ID                           string    `gorm:"primaryKey;type:varchar(36)"`
	Username                     string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	DisplayName                  *string   `gorm:"type:varchar(60)"`
	Bio                          *string   `gorm:"type:varchar(280)"`
	FriendOnlyForMeetingRequests bool      `gorm:"not null;default:false"`
	CreatedAt                    time.Time `gorm:"autoCreateTime"`
	UpdatedAt                    time.Time `gorm:"autoUpdateTime"`
}

// Name is what other users see: the display name when set, otherwise the
// username.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

// BeforeCreate assigns a UUID when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ValidateUsername enforces 3-32 characters of letters, digits and underscore.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return errors.New(errors.ErrCodeValidation, "username must be at least 3 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New(errors.ErrCodeValidation, "username may only contain letters, digits and underscore")
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
