package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/pkg/jwt"
	"banban-schedule-api/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
)

type IdentityService interface {
	// ResolveIdentity maps a stable LINE user id onto a local user,
	// provisioning a staff account on first sight.
	ResolveIdentity(req *ResolveIdentityRequest) (*LoginResponse, error)
	Login(email, password string) (*LoginResponse, error)
	// SwitchRole issues a token evaluated as another role. Tester affordance,
	// gated by the switch_roles permission.
	SwitchRole(actor *model.User, target model.Role) (*LoginResponse, error)
}

type ResolveIdentityRequest struct {
	LineUserID  string `json:"line_user_id" validate:"required"`
	DisplayName string `json:"display_name"`
}

type LoginResponse struct {
	Token       string             `json:"token"`
	User        model.UserResponse `json:"user"`
	Role        model.Role         `json:"role"`
	Permissions []string           `json:"permissions"` // Flat array for the frontend gate checks
}

type identityService struct {
	az       *authz.Authorizer
	userRepo repository.UserRepository
}

func NewIdentityService(az *authz.Authorizer, userRepo repository.UserRepository) IdentityService {
	return &identityService{az: az, userRepo: userRepo}
}

func (s *identityService) ResolveIdentity(req *ResolveIdentityRequest) (*LoginResponse, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByLineUserID(req.LineUserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		// First sight of this identity: provision with the default role
		name := req.DisplayName
		if name == "" {
			name = req.LineUserID
		}
		user = &model.User{
			LineUserID: req.LineUserID,
			Name:       name,
			Role:       model.RoleStaff,
			IsActive:   true,
		}
		user.CreatedBy = "identity"
		user.UpdatedBy = "identity"
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.loginResponse(user, user.Role)
}

func (s *identityService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.loginResponse(user, user.Role)
}

func (s *identityService) SwitchRole(actor *model.User, target model.Role) (*LoginResponse, error) {
	if !s.az.HasPermission(actor, model.PermSwitchRoles) {
		return nil, authz.ErrUnauthorized
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", authz.ErrInvalidRole, target)
	}

	// The override lives in the issued token only; the stored role is
	// untouched and no process-wide state changes.
	return s.loginResponse(actor, target)
}

func (s *identityService) loginResponse(user *model.User, role model.Role) (*LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, user.LineUserID, user.Name, string(role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	permissions, err := s.az.Permissions(role)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:       token,
		User:        user.ToResponse(),
		Role:        role,
		Permissions: permissions,
	}, nil
}
