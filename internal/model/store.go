package model

import "github.com/google/uuid"

// Company owns areas and stores (e.g. a brand operating concession counters
// across several department stores).
type Company struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

func (Company) TableName() string {
	return "companies"
}

// Store is a concession counter inside a department store.
type Store struct {
	BaseModel
	Name      string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Code      string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	AreaID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"area_id" validate:"uuid_required"`
	Area      *Area      `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Company   *Company   `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Address   string     `gorm:"type:varchar(255)" json:"address"`
	Phone     string     `gorm:"type:varchar(20)" json:"phone"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
}

func (Store) TableName() string {
	return "stores"
}

// StoreResponse for API responses. EmployeeCount is derived from active user
// rows at read time, never persisted.
type StoreResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Code          string     `json:"code"`
	AreaID        uuid.UUID  `json:"area_id"`
	AreaName      string     `json:"area_name,omitempty"`
	CompanyID     *uuid.UUID `json:"company_id,omitempty"`
	CompanyName   string     `json:"company_name,omitempty"`
	Address       string     `json:"address,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	IsActive      bool       `json:"is_active"`
	EmployeeCount int        `json:"employee_count"`
}

// ToResponse converts Store to StoreResponse
func (s *Store) ToResponse() StoreResponse {
	resp := StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		AreaID:    s.AreaID,
		CompanyID: s.CompanyID,
		Address:   s.Address,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
	}
	if s.Area != nil {
		resp.AreaName = s.Area.Name
	}
	if s.Company != nil {
		resp.CompanyName = s.Company.Name
	}
	return resp
}
