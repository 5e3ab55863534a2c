package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/internal/ws"
	"banban-schedule-api/pkg/validator"
)

var (
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrLeaveNotPending  = errors.New("leave request has already been decided")
	ErrEndBeforeStart   = errors.New("end date cannot be before start date")
	ErrInvalidLeaveType = errors.New("invalid leave type")
)

type LeaveService interface {
	SubmitLeaveRequest(actor *model.User, req *SubmitLeaveRequest) (*model.LeaveRequest, error)
	ApproveLeaveRequest(actor *model.User, id uuid.UUID) (*model.LeaveRequest, error)
	RejectLeaveRequest(actor *model.User, id uuid.UUID) (*model.LeaveRequest, error)
	GetLeaveRequestsByUser(userID uuid.UUID) ([]model.LeaveRequestResponse, error)
	GetPendingForStore(actor *model.User, storeID uuid.UUID) ([]model.LeaveRequestResponse, error)
}

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" validate:"required"`
	StartDate string `json:"start_date" validate:"required,dateformat"` // YYYY-MM-DD
	EndDate   string `json:"end_date" validate:"required,dateformat"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
}

var validLeaveTypes = map[model.LeaveType]bool{
	model.LeaveAnnual:    true,
	model.LeaveSick:      true,
	model.LeavePersonal:  true,
	model.LeaveMaternity: true,
	model.LeaveOther:     true,
}

type leaveService struct {
	az        *authz.Authorizer
	leaveRepo repository.LeaveRepository
	tagRepo   repository.ActivityTagRepository
	wsHub     *ws.Hub
	logger    *zap.Logger
}

func NewLeaveService(
	az *authz.Authorizer,
	leaveRepo repository.LeaveRepository,
	tagRepo repository.ActivityTagRepository,
	hub *ws.Hub,
	logger *zap.Logger,
) LeaveService {
	return &leaveService{az: az, leaveRepo: leaveRepo, tagRepo: tagRepo, wsHub: hub, logger: logger}
}

func (s *leaveService) SubmitLeaveRequest(actor *model.User, req *SubmitLeaveRequest) (*model.LeaveRequest, error) {
	if !s.az.HasPermission(actor, model.PermRequestLeave) {
		return nil, authz.ErrUnauthorized
	}
	if actor.StoreID == nil {
		return nil, ErrNoHomeStore
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, requestError(errs[0])
	}

	leaveType := model.LeaveType(req.LeaveType)
	if !validLeaveTypes[leaveType] {
		return nil, ErrInvalidLeaveType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, ErrEndBeforeStart
	}

	// Activity days can forbid leave outright (anniversary sales etc.)
	tags, err := s.tagRepo.FindByStoreAndRange(*actor.StoreID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for _, tag := range tags {
		if tag.IsLeaveRestricted {
			return nil, &ValidationError{
				Message: fmt.Sprintf("leave restricted on %s (%s)", tag.Date.Format("2006-01-02"), tag.TagName),
			}
		}
	}

	// Manager leave escalates to the area level; staff leave is decided by
	// the counter manager alone.
	maxLevel := 1
	if s.az.CanActAsRole(actor, model.RoleStoreManager) {
		maxLevel = 2
	}

	request := &model.LeaveRequest{
		UserID:           actor.ID,
		StoreID:          *actor.StoreID,
		LeaveType:        leaveType,
		StartDate:        startDate,
		EndDate:          endDate,
		Reason:           req.Reason,
		Status:           model.LeavePending,
		MaxApprovalLevel: maxLevel,
	}
	request.CreatedBy = actor.ID.String()
	request.UpdatedBy = actor.ID.String()

	if err := s.leaveRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *leaveService) ApproveLeaveRequest(actor *model.User, id uuid.UUID) (*model.LeaveRequest, error) {
	request, err := s.authorizeDecision(actor, id)
	if err != nil {
		return nil, err
	}

	request.ApprovalLevel++
	if request.ApprovalLevel >= request.MaxApprovalLevel {
		request.Status = model.LeaveApproved
		approverID := actor.ID
		request.ApproverID = &approverID
	}
	request.UpdatedBy = actor.ID.String()

	if err := s.leaveRepo.Update(request); err != nil {
		return nil, err
	}

	if request.Status == model.LeaveApproved {
		go s.notifyDecision(request, "leave_approved", "Your leave request has been approved")
	}
	return request, nil
}

func (s *leaveService) RejectLeaveRequest(actor *model.User, id uuid.UUID) (*model.LeaveRequest, error) {
	request, err := s.authorizeDecision(actor, id)
	if err != nil {
		return nil, err
	}

	request.Status = model.LeaveRejected
	approverID := actor.ID
	request.ApproverID = &approverID
	request.UpdatedBy = actor.ID.String()

	if err := s.leaveRepo.Update(request); err != nil {
		return nil, err
	}

	go s.notifyDecision(request, "leave_rejected", "Your leave request has been rejected")
	return request, nil
}

// authorizeDecision loads a pending request and checks the approver's
// permission: same-store approvers need approve_staff_leave for the first
// level; any decision beyond level one belongs to the area scope and needs
// the cross-store grant even from the requester's own store. Nobody decides
// their own request.
func (s *leaveService) authorizeDecision(actor *model.User, id uuid.UUID) (*model.LeaveRequest, error) {
	request, err := s.leaveRepo.FindByID(id)
	if err != nil {
		return nil, ErrLeaveNotFound
	}

	if actor == nil || actor.ID == request.UserID {
		return nil, authz.ErrUnauthorized
	}

	sameStore := actor.StoreID != nil && *actor.StoreID == request.StoreID
	if sameStore && request.ApprovalLevel < 1 {
		if !s.az.HasPermission(actor, model.PermApproveStaffLeave) {
			return nil, authz.ErrUnauthorized
		}
	} else {
		if !s.az.HasPermission(actor, model.PermApproveCrossStoreLeave) {
			return nil, authz.ErrUnauthorized
		}
	}

	if request.Status != model.LeavePending {
		return nil, ErrLeaveNotPending
	}
	return request, nil
}

func (s *leaveService) GetLeaveRequestsByUser(userID uuid.UUID) ([]model.LeaveRequestResponse, error) {
	requests, err := s.leaveRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.LeaveRequestResponse, len(requests))
	for i, request := range requests {
		responses[i] = request.ToResponse()
	}
	return responses, nil
}

func (s *leaveService) GetPendingForStore(actor *model.User, storeID uuid.UUID) ([]model.LeaveRequestResponse, error) {
	if !s.az.HasPermission(actor, model.PermApproveStaffLeave) &&
		!s.az.HasPermission(actor, model.PermApproveCrossStoreLeave) {
		return nil, authz.ErrUnauthorized
	}

	requests, err := s.leaveRepo.FindPendingByStore(storeID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.LeaveRequestResponse, len(requests))
	for i, request := range requests {
		responses[i] = request.ToResponse()
	}
	return responses, nil
}

func (s *leaveService) notifyDecision(request *model.LeaveRequest, action, message string) {
	if s.wsHub == nil {
		return
	}

	text := fmt.Sprintf("%s (%s to %s)", message,
		request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"))
	payload := map[string]interface{}{
		"type":    "leave_notification",
		"action":  action,
		"message": text,
		"request": request.ToResponse(),
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to encode leave notification", zap.Error(err))
		return
	}

	s.wsHub.SendToUsers([]string{request.UserID.String()}, msg)
}
