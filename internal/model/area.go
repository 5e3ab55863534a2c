package model

import "github.com/google/uuid"

// Area groups stores by region. Store membership is derived from
// Store.AreaID; the area row never keeps its own store list.
type Area struct {
	BaseModel
	Name      string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index" json:"manager_id,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
}

func (Area) TableName() string {
	return "areas"
}

// AreaResponse for API responses, with the derived store list attached.
type AreaResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	ManagerID *uuid.UUID      `json:"manager_id,omitempty"`
	IsActive  bool            `json:"is_active"`
	Stores    []StoreResponse `json:"stores,omitempty"`
}

// ToResponse converts Area to AreaResponse
func (a *Area) ToResponse() AreaResponse {
	return AreaResponse{
		ID:        a.ID,
		Name:      a.Name,
		ManagerID: a.ManagerID,
		IsActive:  a.IsActive,
	}
}
