package models

import (
	"testing"

	"github.com/mroshb/daymate/pkg/errors"
)

func TestParseAvailabilityStatus(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    AvailabilityStatus
		wantErr bool
	}{
		{name: "None", value: "NONE", want: AvailabilityNone},
		{name: "Open", value: "OPEN", want: AvailabilityOpen},
		{name: "Busy", value: "BUSY", want: AvailabilityBusy},
		{name: "Closed", value: "CLOSED", want: AvailabilityClosed},
		{name: "Lower case", value: "open", wantErr: true},
		{name: "Empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAvailabilityStatus(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAvailabilityStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeValidation) {
				t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.ErrCodeValidation)
			}
			if got != tt.want {
				t.Errorf("ParseAvailabilityStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseResponseStatus(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "ACCEPTED"},
		{value: "DECLINED"},
		{value: "CANCELLED"},
		{value: "PENDING", wantErr: true},
		{value: "REJECTED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := ParseResponseStatus(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseResponseStatus(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestProposalStatus_IsTerminal(t *testing.T) {
	if ProposalStatusPending.IsTerminal() {
		t.Error("PENDING must not be terminal")
	}
	for _, s := range []ProposalStatus{ProposalStatusAccepted, ProposalStatusDeclined, ProposalStatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestMessageType_IsSystem(t *testing.T) {
	if MessageTypeText.IsSystem() {
		t.Error("TEXT must not be a system message")
	}
	if !MessageTypeSystem.IsSystem() || !MessageTypeMeetingProposal.IsSystem() {
		t.Error("SYSTEM and MEETING_PROPOSAL must be system messages")
	}
	if MessageType("VOICE").Valid() {
		t.Error("unknown type must be invalid")
	}
}

func TestPairKey_IsOrderIndependent(t *testing.T) {
	if PairKey("b", "a") != PairKey("a", "b") {
		t.Error("PairKey must not depend on argument order")
	}
	if PairKey("a", "b") != "a:b" {
		t.Errorf("PairKey() = %q, want %q", PairKey("a", "b"), "a:b")
	}
}

func TestConversation_BeforeCreate_Canonicalizes(t *testing.T) {
	c := &Conversation{UserAID: "zed", UserBID: "amy"}
	if err := c.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}
	if c.UserAID != "amy" || c.UserBID != "zed" {
		t.Errorf("pair = (%s, %s), want (amy, zed)", c.UserAID, c.UserBID)
	}
	if c.ID == "" {
		t.Error("BeforeCreate() must assign an id")
	}
	if c.Other("amy") != "zed" || !c.HasParticipant("zed") || c.HasParticipant("bob") {
		t.Error("participant helpers disagree with the stored pair")
	}
}

func TestFriendship_BeforeCreate(t *testing.T) {
	f := &Friendship{RequesterID: "u2", ReceiverID: "u1"}
	if err := f.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}
	if f.PairKey != "u1:u2" {
		t.Errorf("PairKey = %q, want %q", f.PairKey, "u1:u2")
	}
	if f.Status != FriendshipStatusPending {
		t.Errorf("Status = %q, want %q", f.Status, FriendshipStatusPending)
	}
	if f.Other("u2") != "u1" {
		t.Errorf("Other(u2) = %q, want u1", f.Other("u2"))
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		wantErr  bool
	}{
		{username: "alice"},
		{username: "bob_99"},
		{username: "ab", wantErr: true},
		{username: "with space", wantErr: true},
		{username: "dash-ed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestUser_Name(t *testing.T) {
	u := &User{Username: "alice"}
	if u.Name() != "alice" {
		t.Errorf("Name() = %q, want alice", u.Name())
	}
	display := "Alice K."
	u.DisplayName = &display
	if u.Name() != "Alice K." {
		t.Errorf("Name() = %q, want %q", u.Name(), display)
	}
}

func TestTableNames(t *testing.T) {
	tables := map[string]string{
		User{}.TableName():            "users",
		DayEntry{}.TableName():        "day_entries",
		DayComment{}.TableName():      "day_comments",
		Friendship{}.TableName():      "friendships",
		MeetingProposal{}.TableName(): "meeting_proposals",
		Conversation{}.TableName():    "conversations",
		Message{}.TableName():         "messages",
	}
	for got, want := range tables {
		if got != want {
			t.Errorf("TableName() = %q, want %q", got, want)
		}
	}
}
