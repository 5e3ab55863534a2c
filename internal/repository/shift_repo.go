package repository

import (
	"time"

	"banban-schedule-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(shift *model.Shift) error
	Update(shift *model.Shift) error
	FindByID(id uuid.UUID) (*model.Shift, error)

	// Duplicate-date detection for support request validation
	FindScheduledByUserAndDate(userID uuid.UUID, date time.Time) ([]model.Shift, error)

	// Scheduled support shifts a store will receive on a date
	FindSupportByStoreAndDate(storeID uuid.UUID, date time.Time) ([]model.Shift, error)

	// Scheduled support shifts for a user within an inclusive date range
	FindSupportByUserAndRange(userID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error)

	// Completed shifts for work-hour aggregation; the range is inclusive
	FindCompletedHomeShifts(userID, storeID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error)
	FindCompletedSupportShifts(userID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error)

	UpdateStatus(id uuid.UUID, status model.ShiftStatus, updatedBy string) error

	// CompleteThrough flips every scheduled shift dated strictly before the
	// cutoff to completed. Driven by the nightly sweep, not by user requests.
	CompleteThrough(cutoff time.Time) (int64, error)
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) Create(shift *model.Shift) error {
	return r.db.Create(shift).Error
}

func (r *shiftRepo) Update(shift *model.Shift) error {
	return r.db.Save(shift).Error
}

func (r *shiftRepo) FindByID(id uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.Preload("User").Preload("Store").First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindScheduledByUserAndDate(userID uuid.UUID, date time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	if err := r.db.
		Where("user_id = ? AND date = ? AND status = ?", userID, date, model.ShiftScheduled).
		Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) FindSupportByStoreAndDate(storeID uuid.UUID, date time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	if err := r.db.Preload("User").
		Where("target_store_id = ? AND date = ? AND is_support_shift = ? AND status = ?",
			storeID, date, true, model.ShiftScheduled).
		Order("start_time ASC").
		Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) FindSupportByUserAndRange(userID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	if err := r.db.Preload("Store").
		Where("user_id = ? AND date >= ? AND date <= ? AND is_support_shift = ? AND status = ?",
			userID, startDate, endDate, true, model.ShiftScheduled).
		Order("date ASC, start_time ASC").
		Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) FindCompletedHomeShifts(userID, storeID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	if err := r.db.
		Where("user_id = ? AND store_id = ? AND date >= ? AND date <= ? AND is_support_shift = ? AND status = ?",
			userID, storeID, startDate, endDate, false, model.ShiftCompleted).
		Order("date ASC").
		Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) FindCompletedSupportShifts(userID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	if err := r.db.
		Where("user_id = ? AND date >= ? AND date <= ? AND is_support_shift = ? AND status = ?",
			userID, startDate, endDate, true, model.ShiftCompleted).
		Order("date ASC").
		Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *shiftRepo) UpdateStatus(id uuid.UUID, status model.ShiftStatus, updatedBy string) error {
	return r.db.Model(&model.Shift{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_by": updatedBy,
	}).Error
}

func (r *shiftRepo) CompleteThrough(cutoff time.Time) (int64, error) {
	result := r.db.Model(&model.Shift{}).
		Where("status = ? AND date < ?", model.ShiftScheduled, cutoff).
		Updates(map[string]interface{}{
			"status":     model.ShiftCompleted,
			"updated_by": "scheduler",
		})
	return result.RowsAffected, result.Error
}
