package services

import (
	"context"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
)

type RelationState string

// Relation states, seen from the viewer
const (
	RelationSelf     RelationState = "SELF"
	RelationNone     RelationState = "NONE"
	RelationFriends  RelationState = "FRIENDS"
	RelationOutgoing RelationState = "OUTGOING_PENDING"
	RelationIncoming RelationState = "INCOMING_PENDING"
)

// Relation describes how a viewer stands toward another user's profile.
type Relation struct {
	Owner        *models.User
	State        RelationState
	FriendshipID string
	CanPropose   bool
}

type FriendshipService struct {
	repos *repositories.Repositories
}

func NewFriendshipService(repos *repositories.Repositories) *FriendshipService {
	return &FriendshipService{repos: repos}
}

// SendRequest asks targetUsername to become the requester's friend. Only a
// pair with no friendship row at all can start a new request.
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, targetUsername string) (*models.Friendship, error) {
	target, err := s.repos.Users.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target.ID == requesterID {
		return nil, errors.New(errors.ErrCodeSelfTarget, "you cannot befriend yourself")
	}

	existing, err := s.repos.Friends.FindBetween(ctx, requesterID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, existingFriendshipError(existing)
	}

	friendship, err := s.repos.Friends.CreateRequest(ctx, requesterID, target.ID)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeAlreadyExists) {
			return nil, err
		}
		// Lost a race with a request for the same pair.
		existing, findErr := s.repos.Friends.FindBetween(ctx, requesterID, target.ID)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, errors.New(errors.ErrCodeDuplicateRequest, "a friend request is already pending")
		}
		return nil, existingFriendshipError(existing)
	}

	logger.Info("friend request sent", "friendship_id", friendship.ID, "requester_id", requesterID, "receiver_id", target.ID)
	return friendship, nil
}

func existingFriendshipError(f *models.Friendship) error {
	if f.Status == models.FriendshipStatusAccepted {
		return errors.New(errors.ErrCodeAlreadyFriends, "you are already friends")
	}
	return errors.New(errors.ErrCodeDuplicateRequest, "a friend request is already pending")
}

// Respond accepts or rejects a pending request addressed to actorID. A
// rejected request is deleted and nil is returned.
func (s *FriendshipService) Respond(ctx context.Context, actorID, friendshipID string, accept bool) (*models.Friendship, error) {
	friendship, err := s.repos.Friends.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.ReceiverID != actorID {
		return nil, errors.New(errors.ErrCodeUnauthorized, "only the receiver can answer this request")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, errors.New(errors.ErrCodeInvalidTransition, "friend request already processed")
	}

	if !accept {
		if err := s.repos.Friends.RejectFriendRequest(ctx, friendship.ID); err != nil {
			return nil, err
		}
		logger.Info("friend request rejected", "friendship_id", friendship.ID)
		return nil, nil
	}

	if err := s.repos.Friends.AcceptFriendRequest(ctx, friendship.ID); err != nil {
		return nil, err
	}
	logger.Info("friend request accepted", "friendship_id", friendship.ID)
	return s.repos.Friends.GetByID(ctx, friendship.ID)
}

// AreFriends reports an accepted friendship in either direction.
func (s *FriendshipService) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	return s.repos.Friends.AreFriends(ctx, userA, userB)
}

// Relation resolves ownerUsername and reports how viewerID relates to them.
func (s *FriendshipService) Relation(ctx context.Context, viewerID, ownerUsername string) (*Relation, error) {
	owner, err := s.repos.Users.GetUserByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}

	rel := &Relation{Owner: owner, State: RelationNone}
	if owner.ID == viewerID {
		rel.State = RelationSelf
		return rel, nil
	}

	friendship, err := s.repos.Friends.FindBetween(ctx, viewerID, owner.ID)
	if err != nil {
		return nil, err
	}
	if friendship != nil {
		rel.FriendshipID = friendship.ID
		switch {
		case friendship.Status == models.FriendshipStatusAccepted:
			rel.State = RelationFriends
		case friendship.RequesterID == viewerID:
			rel.State = RelationOutgoing
		default:
			rel.State = RelationIncoming
		}
	}

	rel.CanPropose = !owner.FriendOnlyForMeetingRequests || rel.State == RelationFriends
	return rel, nil
}

func (s *FriendshipService) ListFriends(ctx context.Context, userID string) ([]models.User, error) {
	return s.repos.Friends.GetFriends(ctx, userID)
}

func (s *FriendshipService) ListIncoming(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.repos.Friends.GetPendingRequests(ctx, userID)
}

func (s *FriendshipService) ListOutgoing(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.repos.Friends.GetSentRequests(ctx, userID)
}

// Remove ends an accepted friendship. Either side may do it.
func (s *FriendshipService) Remove(ctx context.Context, actorID, friendUsername string) error {
	friend, err := s.repos.Users.GetUserByUsername(ctx, friendUsername)
	if err != nil {
		return err
	}
	if err := s.repos.Friends.RemoveFriend(ctx, actorID, friend.ID); err != nil {
		return err
	}
	logger.Info("friendship removed", "user_id", actorID, "friend_id", friend.ID)
	return nil
}
