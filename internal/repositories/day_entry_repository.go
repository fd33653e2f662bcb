package repositories

import (
	"context"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var dayEntryKey = []clause.Column{{Name: "user_id"}, {Name: "date"}}

type DayEntryRepository struct {
	db *gorm.DB
}

func NewDayEntryRepository(db *gorm.DB) *DayEntryRepository {
	return &DayEntryRepository{db: db}
}

func (r *DayEntryRepository) WithTx(tx *gorm.DB) *DayEntryRepository {
	return &DayEntryRepository{db: tx}
}

// Ensure returns the entry for (userID, date), creating it with status NONE
// if absent. The insert is conflict-guarded, so a concurrent caller that
// loses the race reads the winner's row instead of failing.
func (r *DayEntryRepository) Ensure(ctx context.Context, userID, date string) (*models.DayEntry, error) {
	entry := &models.DayEntry{
		UserID:             userID,
		Date:               date,
		AvailabilityStatus: models.AvailabilityNone,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: dayEntryKey, DoNothing: true}).
		Create(entry).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to ensure day entry")
	}

	return r.Get(ctx, userID, date)
}

// Upsert writes status and note for (userID, date), keeping a single row.
func (r *DayEntryRepository) Upsert(ctx context.Context, userID, date string, status models.AvailabilityStatus, note *string) (*models.DayEntry, error) {
	entry := &models.DayEntry{
		UserID:             userID,
		Date:               date,
		AvailabilityStatus: status,
		PersonalNote:       note,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   dayEntryKey,
			DoUpdates: clause.AssignmentColumns([]string{"availability_status", "personal_note", "updated_at"}),
		}).
		Create(entry).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to save day entry")
	}

	return r.Get(ctx, userID, date)
}

// ForceBusy marks (userID, date) BUSY whatever it was before, creating the
// entry when needed. The note is left untouched.
func (r *DayEntryRepository) ForceBusy(ctx context.Context, userID, date string) (*models.DayEntry, error) {
	entry := &models.DayEntry{
		UserID:             userID,
		Date:               date,
		AvailabilityStatus: models.AvailabilityBusy,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   dayEntryKey,
			DoUpdates: clause.AssignmentColumns([]string{"availability_status", "updated_at"}),
		}).
		Create(entry).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to mark day busy")
	}

	return r.Get(ctx, userID, date)
}

// Get retrieves the entry for (userID, date)
func (r *DayEntryRepository) Get(ctx context.Context, userID, date string) (*models.DayEntry, error) {
	var entry models.DayEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&entry).Error
	if err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "day entry not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get day entry")
	}
	return &entry, nil
}

// ListRange retrieves a user's entries with from <= date < to
func (r *DayEntryRepository) ListRange(ctx context.Context, userID, from, to string) ([]models.DayEntry, error) {
	var entries []models.DayEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list day entries")
	}
	return entries, nil
}

// ListRecentlyUpdated retrieves the latest touched entries of the given users
func (r *DayEntryRepository) ListRecentlyUpdated(ctx context.Context, userIDs []string, limit int) ([]models.DayEntry, error) {
	var entries []models.DayEntry
	if len(userIDs) == 0 {
		return entries, nil
	}

	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Preload("User").
		Order("updated_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list recent day entries")
	}
	return entries, nil
}
