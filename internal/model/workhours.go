package model

import "github.com/google/uuid"

// WorkHourStats is the derived per-user, per-period hour summary. It is
// computed on demand from completed shifts and never persisted.
type WorkHourStats struct {
	UserID   uuid.UUID  `json:"user_id"`
	UserName string     `json:"user_name"`
	StoreID  *uuid.UUID `json:"store_id,omitempty"` // Home store
	Period   string     `json:"period"`             // Calendar month, YYYY-MM

	RegularHours float64 `json:"regular_hours"` // Completed home-store shifts
	SupportHours float64 `json:"support_hours"` // Completed support shifts
	TotalHours   float64 `json:"total_hours"`

	// One entry per distinct target store with nonzero hours; stores without
	// matching shifts are omitted, not zero-filled.
	SupportDetails []SupportDetail `json:"support_details"`
}

// SupportDetail breaks support hours out by target store.
type SupportDetail struct {
	TargetStoreID   uuid.UUID `json:"target_store_id"`
	TargetStoreName string    `json:"target_store_name"`
	Hours           float64   `json:"hours"`
}

// StoreWorkHours rolls WorkHourStats up over every user whose home store is
// the queried store. StaffCount counts the users considered, whether or not
// they worked any hours in the period.
type StoreWorkHours struct {
	StoreID      uuid.UUID `json:"store_id"`
	StoreName    string    `json:"store_name"`
	Period       string    `json:"period"`
	RegularHours float64   `json:"regular_hours"`
	SupportHours float64   `json:"support_hours"`
	TotalHours   float64   `json:"total_hours"`
	StaffCount   int       `json:"staff_count"`
}
