package services

import (
	"context"
	"slices"
	"time"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
)

const feedSourceLimit = 10

type FeedKind string

const (
	FeedKindDay      FeedKind = "DAY"
	FeedKindProposal FeedKind = "PROPOSAL"
)

// FeedItem is either a day entry update or a proposal.
type FeedItem struct {
	Kind     FeedKind
	At       time.Time
	DayEntry *models.DayEntry
	Proposal *models.MeetingProposal
}

type FeedService struct {
	repos *repositories.Repositories
}

func NewFeedService(repos *repositories.Repositories) *FeedService {
	return &FeedService{repos: repos}
}

// Recent merges the latest calendar updates and proposals of the viewer and
// their friends, newest first.
func (s *FeedService) Recent(ctx context.Context, viewerID string) ([]FeedItem, error) {
	friendIDs, err := s.repos.Friends.GetFriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	scope := append([]string{viewerID}, friendIDs...)

	entries, err := s.repos.DayEntries.ListRecentlyUpdated(ctx, scope, feedSourceLimit)
	if err != nil {
		return nil, err
	}
	proposals, err := s.repos.Proposals.ListRecentInvolving(ctx, scope, feedSourceLimit)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(entries)+len(proposals))
	for i := range entries {
		items = append(items, FeedItem{Kind: FeedKindDay, At: entries[i].UpdatedAt, DayEntry: &entries[i]})
	}
	for i := range proposals {
		items = append(items, FeedItem{Kind: FeedKindProposal, At: proposals[i].CreatedAt, Proposal: &proposals[i]})
	}

	slices.SortStableFunc(items, func(a, b FeedItem) int {
		return b.At.Compare(a.At)
	})
	return items, nil
}
