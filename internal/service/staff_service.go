package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/pkg/validator"
)

var ErrEmailTaken = errors.New("email already registered")

// StaffService manages the staff roster: accounts, role assignment and home
// store placement. All mutations are gated by the assign_permissions grant.
type StaffService interface {
	CreateStaff(actor *model.User, req *CreateStaffRequest) (*model.User, error)
	UpdateStaff(actor *model.User, id uuid.UUID, req *UpdateStaffRequest) (*model.User, error)
	DeactivateStaff(actor *model.User, id uuid.UUID) error
	GetStaffByID(id uuid.UUID) (*model.UserResponse, error)
	GetStaffByStore(storeID uuid.UUID) ([]model.UserResponse, error)
	GetAllStaff() ([]model.UserResponse, error)
}

type CreateStaffRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Password    string  `json:"password" validate:"omitempty,min=8"`
	PhoneNumber string  `json:"phone_number"`
	LineUserID  string  `json:"line_user_id"`
	Role        string  `json:"role" validate:"required"`
	StoreID     *string `json:"store_id"`
	AreaID      *string `json:"area_id"`
}

type UpdateStaffRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
	StoreID     *string `json:"store_id"`
	AreaID      *string `json:"area_id"`
	IsActive    *bool   `json:"is_active"`
}

type staffService struct {
	az        *authz.Authorizer
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
}

func NewStaffService(az *authz.Authorizer, userRepo repository.UserRepository, storeRepo repository.StoreRepository) StaffService {
	return &staffService{az: az, userRepo: userRepo, storeRepo: storeRepo}
}

func (s *staffService) CreateStaff(actor *model.User, req *CreateStaffRequest) (*model.User, error) {
	if !s.az.HasPermission(actor, model.PermAssignPermissions) {
		return nil, authz.ErrUnauthorized
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", authz.ErrInvalidRole, role)
	}

	if req.Email != "" {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailTaken
		}
	}

	user := &model.User{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		LineUserID:  req.LineUserID,
		Role:        role,
		IsActive:    true,
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}
	if req.StoreID != nil {
		storeID, err := s.resolveStoreID(*req.StoreID)
		if err != nil {
			return nil, err
		}
		user.StoreID = storeID
	}
	if req.AreaID != nil {
		areaID, err := uuid.Parse(*req.AreaID)
		if err != nil {
			return nil, errors.New("invalid area ID format")
		}
		user.AreaID = &areaID
	}
	user.CreatedBy = actor.ID.String()
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(user.ID)
}

func (s *staffService) UpdateStaff(actor *model.User, id uuid.UUID, req *UpdateStaffRequest) (*model.User, error) {
	if !s.az.HasPermission(actor, model.PermAssignPermissions) {
		return nil, authz.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(*req.Email); existing != nil {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", authz.ErrInvalidRole, role)
		}
		user.Role = role
	}
	if req.StoreID != nil {
		// Empty string clears the home store assignment
		if *req.StoreID == "" {
			user.StoreID = nil
		} else {
			storeID, err := s.resolveStoreID(*req.StoreID)
			if err != nil {
				return nil, err
			}
			user.StoreID = storeID
		}
	}
	if req.AreaID != nil {
		if *req.AreaID == "" {
			user.AreaID = nil
		} else {
			areaID, err := uuid.Parse(*req.AreaID)
			if err != nil {
				return nil, errors.New("invalid area ID format")
			}
			user.AreaID = &areaID
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(user.ID)
}

func (s *staffService) DeactivateStaff(actor *model.User, id uuid.UUID) error {
	if !s.az.HasPermission(actor, model.PermAssignPermissions) {
		return authz.ErrUnauthorized
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		return ErrUserNotFound
	}
	return s.userRepo.Deactivate(id, actor.ID.String())
}

func (s *staffService) GetStaffByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *staffService) GetStaffByStore(storeID uuid.UUID) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindByStoreID(storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *staffService) GetAllStaff() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *staffService) resolveStoreID(raw string) (*uuid.UUID, error) {
	storeID, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New("invalid store ID format")
	}
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		return nil, ErrStoreNotFound
	}
	return &storeID, nil
}
