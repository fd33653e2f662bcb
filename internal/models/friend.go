package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendshipStatus string

// Friendship status constants. A rejected request is deleted, so there is no
// rejected state.
const (
	FriendshipStatusPending  FriendshipStatus = "PENDING"
	FriendshipStatusAccepted FriendshipStatus = "ACCEPTED"
)

type Friendship struct {
	ID          string           `gorm:"primaryKey;type:varchar(36)"`
	RequesterID string           `gorm:"type:varchar(36);not null;index"`
	Requester   User             `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	ReceiverID  string           `gorm:"type:varchar(36);not null;index"`
	Receiver    User             `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	PairKey     string           `gorm:"type:varchar(80);not null;uniqueIndex"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
}

// BeforeCreate derives the unordered pair key so the unique index rejects a
// second row for the same two users in either direction.
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.PairKey = PairKey(f.RequesterID, f.ReceiverID)
	if f.Status == "" {
		f.Status = FriendshipStatusPending
	}
	return nil
}

// Other returns the id of the participant that is not userID.
func (f *Friendship) Other(userID string) string {
	if f.RequesterID == userID {
		return f.ReceiverID
	}
	return f.RequesterID
}

func (Friendship) TableName() string {
	return "friendships"
}

// CanonicalPair orders two user ids so that the smaller one comes first.
func CanonicalPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// PairKey is the order-independent key for a pair of users.
func PairKey(a, b string) string {
	first, second := CanonicalPair(a, b)
	return first + ":" + second
}
