package repository

import (
	"time"

	"banban-schedule-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityTagRepository interface {
	Create(tag *model.ActivityTag) error
	Update(tag *model.ActivityTag) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.ActivityTag, error)
	FindByStoreAndRange(storeID uuid.UUID, startDate, endDate time.Time) ([]model.ActivityTag, error)
}

type activityTagRepo struct {
	db *gorm.DB
}

func NewActivityTagRepo(db *gorm.DB) ActivityTagRepository {
	return &activityTagRepo{db}
}

func (r *activityTagRepo) Create(tag *model.ActivityTag) error {
	return r.db.Create(tag).Error
}

func (r *activityTagRepo) Update(tag *model.ActivityTag) error {
	return r.db.Save(tag).Error
}

func (r *activityTagRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.ActivityTag{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("NOW()"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *activityTagRepo) FindByID(id uuid.UUID) (*model.ActivityTag, error) {
	var tag model.ActivityTag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *activityTagRepo) FindByStoreAndRange(storeID uuid.UUID, startDate, endDate time.Time) ([]model.ActivityTag, error) {
	var tags []model.ActivityTag
	if err := r.db.
		Where("store_id = ? AND date >= ? AND date <= ?", storeID, startDate, endDate).
		Order("date ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
