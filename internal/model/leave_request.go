package model

import (
	"time"

	"github.com/google/uuid"
)

// LeaveType classifies a leave request.
type LeaveType string

const (
	LeaveAnnual    LeaveType = "annual"
	LeaveSick      LeaveType = "sick"
	LeavePersonal  LeaveType = "personal"
	LeaveMaternity LeaveType = "maternity"
	LeaveOther     LeaveType = "other"
)

// LeaveStatus is the request lifecycle state. Approved and rejected are terminal.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is a staff member's request for time off. Requests walk an
// approval chain: each approval raises ApprovalLevel, and only reaching
// MaxApprovalLevel marks the request approved.
type LeaveRequest struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User    *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StoreID uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`

	LeaveType LeaveType `gorm:"type:varchar(10);not null" json:"leave_type" validate:"required"`
	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date" validate:"required"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date" validate:"required"`
	Reason    string    `gorm:"type:text" json:"reason"`

	Status           LeaveStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	ApproverID       *uuid.UUID  `gorm:"type:uuid" json:"approver_id,omitempty"`
	ApprovalLevel    int         `gorm:"not null;default:0" json:"approval_level"`
	MaxApprovalLevel int         `gorm:"not null;default:1" json:"max_approval_level"`
}

// TableName specifies the table name for GORM
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveRequestResponse for API responses
type LeaveRequestResponse struct {
	ID               uuid.UUID     `json:"id"`
	UserID           uuid.UUID     `json:"user_id"`
	User             *UserResponse `json:"user,omitempty"`
	StoreID          uuid.UUID     `json:"store_id"`
	LeaveType        LeaveType     `json:"leave_type"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	Reason           string        `json:"reason"`
	Status           LeaveStatus   `json:"status"`
	ApproverID       *uuid.UUID    `json:"approver_id,omitempty"`
	ApprovalLevel    int           `json:"approval_level"`
	MaxApprovalLevel int           `json:"max_approval_level"`
	CreatedAt        time.Time     `json:"created_at"`
}

// ToResponse converts LeaveRequest to LeaveRequestResponse
func (l *LeaveRequest) ToResponse() LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:               l.ID,
		UserID:           l.UserID,
		StoreID:          l.StoreID,
		LeaveType:        l.LeaveType,
		StartDate:        l.StartDate.Format("2006-01-02"),
		EndDate:          l.EndDate.Format("2006-01-02"),
		Reason:           l.Reason,
		Status:           l.Status,
		ApproverID:       l.ApproverID,
		ApprovalLevel:    l.ApprovalLevel,
		MaxApprovalLevel: l.MaxApprovalLevel,
		CreatedAt:        l.CreatedAt,
	}
	if l.User != nil {
		userResp := l.User.ToResponse()
		resp.User = &userResp
	}
	return resp
}
