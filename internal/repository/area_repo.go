package repository

import (
	"banban-schedule-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AreaRepository interface {
	FindByID(id uuid.UUID) (*model.Area, error)
	FindAll() ([]model.Area, error)
	Create(area *model.Area) error
	Update(area *model.Area) error
}

type areaRepo struct {
	db *gorm.DB
}

func NewAreaRepo(db *gorm.DB) AreaRepository {
	return &areaRepo{db}
}

func (r *areaRepo) FindByID(id uuid.UUID) (*model.Area, error) {
	var area model.Area
	if err := r.db.First(&area, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *areaRepo) FindAll() ([]model.Area, error) {
	var areas []model.Area
	if err := r.db.Order("name ASC").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *areaRepo) Create(area *model.Area) error {
	return r.db.Create(area).Error
}

func (r *areaRepo) Update(area *model.Area) error {
	return r.db.Save(area).Error
}

type CompanyRepository interface {
	FindByID(id uuid.UUID) (*model.Company, error)
	FindAll() ([]model.Company, error)
	Create(company *model.Company) error
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db}
}

func (r *companyRepo) FindByID(id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) FindAll() ([]model.Company, error) {
	var companies []model.Company
	if err := r.db.Order("name ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepo) Create(company *model.Company) error {
	return r.db.Create(company).Error
}
