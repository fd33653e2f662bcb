package services

import (
	"context"

	"github.com/mroshb/daymate/internal/calendar"
	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/internal/repositories"
	"github.com/mroshb/daymate/pkg/errors"
	"github.com/mroshb/daymate/pkg/logger"
)

type AvailabilityService struct {
	repos  *repositories.Repositories
	limits Limits
}

func NewAvailabilityService(repos *repositories.Repositories, limits Limits) *AvailabilityService {
	return &AvailabilityService{repos: repos, limits: limits}
}

// DayView is one user's day: the entry if it exists, its comments oldest
// first and the proposals made for it newest first.
type DayView struct {
	Owner     *models.User
	Date      string
	Entry     *models.DayEntry
	Comments  []models.DayComment
	Proposals []models.MeetingProposal
}

// SetAvailability writes the owner's status and note for one day. Repeated
// calls for the same day keep a single entry holding the latest values.
func (s *AvailabilityService) SetAvailability(ctx context.Context, actorID, ownerUsername, dateKey, status, note string) (*models.DayEntry, error) {
	owner, err := s.repos.Users.GetUserByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}
	if owner.ID != actorID {
		return nil, errors.New(errors.ErrCodeUnauthorized, "only the owner can edit this day")
	}

	day, err := calendar.ParseDay(dateKey)
	if err != nil {
		return nil, err
	}
	availability, err := models.ParseAvailabilityStatus(status)
	if err != nil {
		return nil, err
	}
	personalNote, err := cleanOptional(note, s.limits.NoteMax, "note")
	if err != nil {
		return nil, err
	}

	entry, err := s.repos.DayEntries.Upsert(ctx, owner.ID, day, availability, personalNote)
	if err != nil {
		logger.Error("failed to save availability", "user_id", owner.ID, "date", day, "error", err)
		return nil, err
	}

	logger.Debug("availability saved", "user_id", owner.ID, "date", day, "status", availability)
	return entry, nil
}

// EnsureDayEntry returns the user's entry for the day, creating it with
// status NONE if needed. Concurrent callers all get the same row.
func (s *AvailabilityService) EnsureDayEntry(ctx context.Context, userID, dateKey string) (*models.DayEntry, error) {
	day, err := calendar.ParseDay(dateKey)
	if err != nil {
		return nil, err
	}
	return s.repos.DayEntries.Ensure(ctx, userID, day)
}

// ApplyConfirmedBusy marks the day BUSY over any previous status, CLOSED
// included. The personal note is kept.
func (s *AvailabilityService) ApplyConfirmedBusy(ctx context.Context, userID, dateKey string) (*models.DayEntry, error) {
	day, err := calendar.ParseDay(dateKey)
	if err != nil {
		return nil, err
	}
	return s.repos.DayEntries.ForceBusy(ctx, userID, day)
}

// GetDay loads a user's day. It never creates an entry.
func (s *AvailabilityService) GetDay(ctx context.Context, ownerUsername, dateKey string) (*DayView, error) {
	owner, err := s.repos.Users.GetUserByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}
	day, err := calendar.ParseDay(dateKey)
	if err != nil {
		return nil, err
	}

	view := &DayView{Owner: owner, Date: day}

	entry, err := s.repos.DayEntries.Get(ctx, owner.ID, day)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return view, nil
		}
		return nil, err
	}
	view.Entry = entry

	if view.Comments, err = s.repos.Comments.ListForDayEntry(ctx, entry.ID); err != nil {
		return nil, err
	}
	if view.Proposals, err = s.repos.Proposals.ListForDayEntry(ctx, entry.ID); err != nil {
		return nil, err
	}
	return view, nil
}

// ListMonth returns the user's entries in the month containing dateKey.
func (s *AvailabilityService) ListMonth(ctx context.Context, ownerUsername, dateKey string) (*models.User, []models.DayEntry, error) {
	owner, err := s.repos.Users.GetUserByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, nil, err
	}
	start, next, err := calendar.MonthRange(dateKey)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.repos.DayEntries.ListRange(ctx, owner.ID, start, next)
	if err != nil {
		return nil, nil, err
	}
	return owner, entries, nil
}
