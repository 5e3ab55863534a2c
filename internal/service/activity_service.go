package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/pkg/validator"
)

var ErrActivityTagNotFound = errors.New("activity tag not found")

// ActivityService manages per-date store activity tags. Tags feed the leave
// restriction check in the leave workflow.
type ActivityService interface {
	CreateTag(actor *model.User, req *CreateActivityTagRequest) (*model.ActivityTag, error)
	UpdateTag(actor *model.User, id uuid.UUID, req *UpdateActivityTagRequest) (*model.ActivityTag, error)
	DeleteTag(actor *model.User, id uuid.UUID) error
	GetTagsByStore(storeID uuid.UUID, startDate, endDate time.Time) ([]model.ActivityTag, error)
}

type CreateActivityTagRequest struct {
	StoreID           string `json:"store_id" validate:"required"`
	Date              string `json:"date" validate:"required,dateformat"` // YYYY-MM-DD
	TagName           string `json:"tag_name" validate:"required"`
	IsLeaveRestricted bool   `json:"is_leave_restricted"`
	MinStaffRequired  int    `json:"min_staff_required" validate:"min=0"`
}

type UpdateActivityTagRequest struct {
	TagName           *string `json:"tag_name"`
	IsLeaveRestricted *bool   `json:"is_leave_restricted"`
	MinStaffRequired  *int    `json:"min_staff_required"`
}

type activityService struct {
	az        *authz.Authorizer
	tagRepo   repository.ActivityTagRepository
	storeRepo repository.StoreRepository
}

func NewActivityService(az *authz.Authorizer, tagRepo repository.ActivityTagRepository, storeRepo repository.StoreRepository) ActivityService {
	return &activityService{az: az, tagRepo: tagRepo, storeRepo: storeRepo}
}

func (s *activityService) CreateTag(actor *model.User, req *CreateActivityTagRequest) (*model.ActivityTag, error) {
	if !s.az.HasPermission(actor, model.PermSetStoreActivities) {
		return nil, authz.ErrUnauthorized
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, requestError(errs[0])
	}

	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, errors.New("invalid store ID format")
	}
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		return nil, ErrStoreNotFound
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	tag := &model.ActivityTag{
		StoreID:           storeID,
		Date:              date,
		TagName:           req.TagName,
		IsLeaveRestricted: req.IsLeaveRestricted,
		MinStaffRequired:  req.MinStaffRequired,
	}
	tag.CreatedBy = actor.ID.String()
	tag.UpdatedBy = actor.ID.String()

	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *activityService) UpdateTag(actor *model.User, id uuid.UUID, req *UpdateActivityTagRequest) (*model.ActivityTag, error) {
	if !s.az.HasPermission(actor, model.PermSetStoreActivities) {
		return nil, authz.ErrUnauthorized
	}

	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		return nil, ErrActivityTagNotFound
	}

	if req.TagName != nil {
		tag.TagName = *req.TagName
	}
	if req.IsLeaveRestricted != nil {
		tag.IsLeaveRestricted = *req.IsLeaveRestricted
	}
	if req.MinStaffRequired != nil {
		if *req.MinStaffRequired < 0 {
			return nil, errors.New("minimum staff cannot be negative")
		}
		tag.MinStaffRequired = *req.MinStaffRequired
	}
	tag.UpdatedBy = actor.ID.String()

	if err := s.tagRepo.Update(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *activityService) DeleteTag(actor *model.User, id uuid.UUID) error {
	if !s.az.HasPermission(actor, model.PermSetStoreActivities) {
		return authz.ErrUnauthorized
	}

	if _, err := s.tagRepo.FindByID(id); err != nil {
		return ErrActivityTagNotFound
	}
	return s.tagRepo.Delete(id, actor.ID.String())
}

func (s *activityService) GetTagsByStore(storeID uuid.UUID, startDate, endDate time.Time) ([]model.ActivityTag, error) {
	return s.tagRepo.FindByStoreAndRange(storeID, startDate, endDate)
}
