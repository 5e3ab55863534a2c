package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShiftType tags a shift with one of the fixed daily patterns.
type ShiftType string

const (
	ShiftTypeMorning ShiftType = "morning"
	ShiftTypeEvening ShiftType = "evening"
	ShiftTypeFull    ShiftType = "full"
)

// ShiftPreset carries the nominal times for a shift type, used when the
// caller does not override them explicitly.
type ShiftPreset struct {
	StartTime  string
	EndTime    string
	BreakHours float64
}

var shiftPresets = map[ShiftType]ShiftPreset{
	ShiftTypeMorning: {StartTime: "09:00", EndTime: "13:00", BreakHours: 0.5},
	ShiftTypeEvening: {StartTime: "14:00", EndTime: "18:00", BreakHours: 0.5},
	ShiftTypeFull:    {StartTime: "09:00", EndTime: "18:00", BreakHours: 1.5},
}

// PresetFor returns the nominal times for a shift type.
func PresetFor(t ShiftType) (ShiftPreset, bool) {
	p, ok := shiftPresets[t]
	return p, ok
}

// ShiftStatus is the shift lifecycle state. Scheduled shifts become
// completed (time-based) or cancelled (explicit); both are terminal.
type ShiftStatus string

const (
	ShiftScheduled ShiftStatus = "scheduled"
	ShiftCompleted ShiftStatus = "completed"
	ShiftCancelled ShiftStatus = "cancelled"
)

// Shift represents one day of work for a user at a store.
// For a support shift the user works at a store other than their home store:
// StoreID equals TargetStoreID and OriginalStoreID snapshots the home store
// at assignment time (it is never recomputed later).
// Supports overnight shifts (e.g. 22:00 - 06:00 next day).
type Shift struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User    *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StoreID uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id" validate:"uuid_required"` // Acting-at store
	Store   *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`

	Date      time.Time `gorm:"type:date;not null;index" json:"date" validate:"required"`
	ShiftType ShiftType `gorm:"type:varchar(10);not null" json:"shift_type" validate:"required"`

	// Time specification (HH:MM, stored as string for minute precision).
	// For overnight shifts StartTime > EndTime.
	StartTime  string  `gorm:"type:varchar(5);not null" json:"start_time" validate:"required"`
	EndTime    string  `gorm:"type:varchar(5);not null" json:"end_time" validate:"required"`
	BreakHours float64 `gorm:"not null" json:"break_hours"`

	// Calculated on save, summed as-is by the work-hour aggregator
	ActualHours float64 `gorm:"not null" json:"actual_hours"`

	IsSupportShift  bool        `gorm:"default:false;index" json:"is_support_shift"`
	OriginalStoreID *uuid.UUID  `gorm:"type:uuid" json:"original_store_id,omitempty"`
	TargetStoreID   *uuid.UUID  `gorm:"type:uuid;index" json:"target_store_id,omitempty"`
	Status          ShiftStatus `gorm:"type:varchar(10);not null;default:'scheduled';index" json:"status"`
}

// TableName specifies the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// ComputeActualHours derives worked hours from a HH:MM time pair and a break
// duration. The span wraps across midnight when end < start, and the result
// is clamped to zero so an oversized break never yields negative hours.
func ComputeActualHours(startTime, endTime string, breakHours float64) float64 {
	start := TimeToMinutes(startTime)
	end := TimeToMinutes(endTime)
	if end < start {
		end += 24 * 60
	}
	hours := float64(end-start)/60.0 - breakHours
	if hours < 0 {
		return 0
	}
	return hours
}

// TimeToMinutes converts HH:MM to minutes since midnight
func TimeToMinutes(timeStr string) int {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

// ShiftResponse for API responses
type ShiftResponse struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	User            *UserResponse `json:"user,omitempty"`
	StoreID         uuid.UUID     `json:"store_id"`
	Date            string        `json:"date"`
	ShiftType       ShiftType     `json:"shift_type"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	BreakHours      float64       `json:"break_hours"`
	ActualHours     float64       `json:"actual_hours"`
	IsSupportShift  bool          `json:"is_support_shift"`
	OriginalStoreID *uuid.UUID    `json:"original_store_id,omitempty"`
	TargetStoreID   *uuid.UUID    `json:"target_store_id,omitempty"`
	Status          ShiftStatus   `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	CreatedBy       string        `json:"created_by"`
	UpdatedBy       string        `json:"updated_by"`
}

// ToResponse converts Shift to ShiftResponse
func (s *Shift) ToResponse() ShiftResponse {
	response := ShiftResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		StoreID:         s.StoreID,
		Date:            s.Date.Format("2006-01-02"),
		ShiftType:       s.ShiftType,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		BreakHours:      s.BreakHours,
		ActualHours:     s.ActualHours,
		IsSupportShift:  s.IsSupportShift,
		OriginalStoreID: s.OriginalStoreID,
		TargetStoreID:   s.TargetStoreID,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		CreatedBy:       s.CreatedBy,
		UpdatedBy:       s.UpdatedBy,
	}

	if s.User != nil {
		userResp := s.User.ToResponse()
		response.User = &userResp
	}

	return response
}
