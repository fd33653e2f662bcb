package repositories

import (
	"context"
	"time"

	"github.com/mroshb/daymate/internal/models"
	"github.com/mroshb/daymate/pkg/errors"
	"gorm.io/gorm"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) WithTx(tx *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: tx}
}

// CreateProposal inserts a new pending proposal
func (r *ProposalRepository) CreateProposal(ctx context.Context, proposal *models.MeetingProposal) error {
	if err := r.db.WithContext(ctx).Create(proposal).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create proposal")
	}
	return nil
}

// GetProposalByID retrieves a proposal with its day entry and both users
func (r *ProposalRepository) GetProposalByID(ctx context.Context, id string) (*models.MeetingProposal, error) {
	var proposal models.MeetingProposal
	err := r.db.WithContext(ctx).
		Preload("DayEntry").
		Preload("Proposer").
		Preload("Receiver").
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "proposal not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get proposal")
	}
	return &proposal, nil
}

// TransitionFromPending moves a pending proposal to status. It is a
// compare-and-set: when the proposal is no longer pending nothing changes and
// ErrCodeInvalidTransition is returned.
func (r *ProposalRepository) TransitionFromPending(ctx context.Context, id string, status models.ProposalStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.MeetingProposal{}).
		Where("id = ? AND status = ?", id, models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": at,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update proposal")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInvalidTransition, "proposal has already been answered")
	}
	return nil
}

// ListPendingForReceiver retrieves proposals waiting for a user's answer
func (r *ProposalRepository) ListPendingForReceiver(ctx context.Context, receiverID string) ([]models.MeetingProposal, error) {
	var proposals []models.MeetingProposal
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, models.ProposalStatusPending).
		Preload("Proposer").
		Preload("DayEntry").
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list pending proposals")
	}
	return proposals, nil
}

// ListForDayEntry retrieves proposals targeting one day entry, newest first
func (r *ProposalRepository) ListForDayEntry(ctx context.Context, dayEntryID string) ([]models.MeetingProposal, error) {
	var proposals []models.MeetingProposal
	err := r.db.WithContext(ctx).
		Where("day_entry_id = ?", dayEntryID).
		Preload("Proposer").
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list proposals")
	}
	return proposals, nil
}

// ListRecentInvolving retrieves the latest proposals where any of userIDs is
// proposer or receiver
func (r *ProposalRepository) ListRecentInvolving(ctx context.Context, userIDs []string, limit int) ([]models.MeetingProposal, error) {
	var proposals []models.MeetingProposal
	if len(userIDs) == 0 {
		return proposals, nil
	}

	err := r.db.WithContext(ctx).
		Where("proposer_id IN ? OR receiver_id IN ?", userIDs, userIDs).
		Preload("Proposer").
		Preload("Receiver").
		Preload("DayEntry").
		Order("created_at DESC").
		Limit(limit).
		Find(&proposals).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list recent proposals")
	}
	return proposals, nil
}
