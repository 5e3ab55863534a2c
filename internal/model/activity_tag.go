package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityTag marks a calendar date with a store event (anniversary sale,
// department-store promotion). Tagged dates can restrict leave and demand a
// minimum headcount.
type ActivityTag struct {
	BaseModel
	StoreID           uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id" validate:"uuid_required"`
	Date              time.Time `gorm:"type:date;not null;index" json:"date" validate:"required"`
	TagName           string    `gorm:"type:varchar(100);not null" json:"tag_name" validate:"required"`
	IsLeaveRestricted bool      `gorm:"default:false" json:"is_leave_restricted"`
	MinStaffRequired  int       `gorm:"not null;default:0" json:"min_staff_required"`
}

// TableName specifies the table name for GORM
func (ActivityTag) TableName() string {
	return "activity_tags"
}
