package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents a staff member or manager in the scheduling system.
// Users are provisioned on first sight of a LINE identity and are never
// hard-deleted, only deactivated.
type User struct {
	BaseModel
	LineUserID  string     `gorm:"type:varchar(64);uniqueIndex" json:"line_user_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email       string     `gorm:"type:varchar(255);index" json:"email"`
	Password    string     `gorm:"type:varchar(255)" json:"-"` // Empty for LINE-only users
	PhoneNumber string     `gorm:"type:varchar(20)" json:"phone_number"`
	Role        Role       `gorm:"type:varchar(32);not null;default:'staff'" json:"role"`
	StoreID     *uuid.UUID `gorm:"type:uuid;index" json:"store_id,omitempty"` // Home store
	Store       *Store     `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	AreaID      *uuid.UUID `gorm:"type:uuid;index" json:"area_id,omitempty"` // Area managers and above
	IsActive    bool       `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID      `json:"id"`
	LineUserID  string         `json:"line_user_id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	PhoneNumber string         `json:"phone_number"`
	Role        Role           `json:"role"`
	StoreID     *uuid.UUID     `json:"store_id,omitempty"`
	Store       *StoreResponse `json:"store,omitempty"`
	AreaID      *uuid.UUID     `json:"area_id,omitempty"`
	IsActive    bool           `json:"is_active"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		LineUserID:  u.LineUserID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		StoreID:     u.StoreID,
		AreaID:      u.AreaID,
		IsActive:    u.IsActive,
	}
	if u.Store != nil {
		storeResp := u.Store.ToResponse()
		resp.Store = &storeResp
	}
	return resp
}
