package repository

import (
	"banban-schedule-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	FindByID(id uuid.UUID) (*model.Store, error)
	FindByCode(code string) (*model.Store, error)
	FindAll() ([]model.Store, error)
	FindByAreaID(areaID uuid.UUID) ([]model.Store, error)
	Create(store *model.Store) error
	Update(store *model.Store) error
	// CountActiveUsers derives the employee count of a store
	CountActiveUsers(storeID uuid.UUID) (int64, error)
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) FindByID(id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := r.db.Preload("Area").Preload("Company").First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) FindByCode(code string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Preload("Area").Preload("Company").Where("code = ?", code).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) FindAll() ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.Preload("Area").Preload("Company").Order("code ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepo) FindByAreaID(areaID uuid.UUID) ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.Preload("Area").Where("area_id = ?", areaID).Order("code ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepo) Create(store *model.Store) error {
	return r.db.Create(store).Error
}

func (r *storeRepo) Update(store *model.Store) error {
	return r.db.Save(store).Error
}

func (r *storeRepo) CountActiveUsers(storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Count(&count).Error
	return count, err
}
