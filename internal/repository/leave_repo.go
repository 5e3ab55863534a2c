package repository

import (
	"banban-schedule-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRepository interface {
	Create(req *model.LeaveRequest) error
	Update(req *model.LeaveRequest) error
	FindByID(id uuid.UUID) (*model.LeaveRequest, error)
	FindByUserID(userID uuid.UUID) ([]model.LeaveRequest, error)
	FindPendingByStore(storeID uuid.UUID) ([]model.LeaveRequest, error)
}

type leaveRepo struct {
	db *gorm.DB
}

func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db}
}

func (r *leaveRepo) Create(req *model.LeaveRequest) error {
	return r.db.Create(req).Error
}

func (r *leaveRepo) Update(req *model.LeaveRequest) error {
	return r.db.Save(req).Error
}

func (r *leaveRepo) FindByID(id uuid.UUID) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	if err := r.db.Preload("User").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRepo) FindByUserID(userID uuid.UUID) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	if err := r.db.
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *leaveRepo) FindPendingByStore(storeID uuid.UUID) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	if err := r.db.Preload("User").
		Where("store_id = ? AND status = ?", storeID, model.LeavePending).
		Order("start_date ASC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}
