package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/cache"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/internal/ws"
	"banban-schedule-api/pkg/validator"
)

// Error definitions
var (
	ErrShiftNotFound         = errors.New("shift not found")
	ErrStoreNotFound         = errors.New("store not found")
	ErrInvalidTimeFormat     = errors.New("invalid time format, use HH:MM (e.g., 08:30, 17:59)")
	ErrInvalidDateFormat     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidShiftType      = errors.New("invalid shift type, use morning, evening or full")
	ErrUserNotActive         = errors.New("cannot assign a shift to an inactive user")
	ErrNoHomeStore           = errors.New("staff member has no home store assigned")
	ErrShiftNotEditable      = errors.New("only scheduled shifts can be updated")
	ErrShiftAlreadyCompleted = errors.New("cannot cancel a completed shift")
)

// Validation messages returned as values, never as errors, so forms can
// render them field-level.
const (
	msgSameStore     = "cannot request support at home store"
	msgDuplicateDate = "date already scheduled"
	msgTargetMissing = "target store not found"
)

// ValidationResult is the structured outcome of a support request pre-check.
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

// ValidationError carries a validation message through an error return, used
// when CreateSupportShift re-runs the validation chain itself.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type SupportService interface {
	ValidateSupportRequest(userID uuid.UUID, date time.Time, targetStoreID uuid.UUID) (ValidationResult, error)
	CreateSupportShift(actor *model.User, req *CreateSupportShiftRequest) (*model.Shift, error)
	UpdateSupportShift(actor *model.User, shiftID uuid.UUID, req *UpdateSupportShiftRequest) (*model.Shift, error)
	CancelSupportShift(actor *model.User, shiftID uuid.UUID) (*model.Shift, error)
	GetSupportShiftsForStore(storeID uuid.UUID, date time.Time) ([]model.ShiftResponse, error)
	GetSupportShiftsByUser(userID uuid.UUID, startDate, endDate time.Time) ([]model.ShiftResponse, error)
}

type CreateSupportShiftRequest struct {
	UserID        string   `json:"user_id" validate:"required"`
	TargetStoreID string   `json:"target_store_id" validate:"required"`
	Date          string   `json:"date" validate:"required,dateformat"` // YYYY-MM-DD
	ShiftType     string   `json:"shift_type" validate:"required"`      // morning/evening/full
	StartTime     *string  `json:"start_time" validate:"omitempty,hhmm"`
	EndTime       *string  `json:"end_time" validate:"omitempty,hhmm"`
	BreakHours    *float64 `json:"break_hours"`
}

type UpdateSupportShiftRequest struct {
	Date       *string  `json:"date"`       // YYYY-MM-DD
	ShiftType  *string  `json:"shift_type"` // morning/evening/full
	StartTime  *string  `json:"start_time"` // HH:MM
	EndTime    *string  `json:"end_time"`
	BreakHours *float64 `json:"break_hours"`
}

type supportService struct {
	az        *authz.Authorizer
	shiftRepo repository.ShiftRepository
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	wsHub     *ws.Hub
	reports   *cache.ReportCache
	logger    *zap.Logger
}

func NewSupportService(
	az *authz.Authorizer,
	shiftRepo repository.ShiftRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	hub *ws.Hub,
	reports *cache.ReportCache,
	logger *zap.Logger,
) SupportService {
	return &supportService{
		az:        az,
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
		storeRepo: storeRepo,
		wsHub:     hub,
		reports:   reports,
		logger:    logger,
	}
}

// validateTimeFormat validates HH:MM format (00:00 - 23:59)
func validateTimeFormat(timeStr string) error {
	if !validator.HHMM(timeStr) {
		return ErrInvalidTimeFormat
	}
	return nil
}

// parseDate validates YYYY-MM-DD format and returns the parsed date
func parseDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return parsed, nil
}

// requestError maps a struct-validation failure onto the service sentinels so
// the error surface stays stable for callers that match on them.
func requestError(e *validator.ErrorResponse) error {
	switch e.Tag {
	case "hhmm":
		return ErrInvalidTimeFormat
	case "dateformat":
		return ErrInvalidDateFormat
	}
	return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", e.FailedField, e.Tag)
}

// ValidateSupportRequest runs the support pre-checks in a fixed order, first
// failing rule wins:
//  1. same-store: supporting the home store is never valid
//  2. duplicate-date: a scheduled shift on that date, support or not, blocks
//  3. target-existence: the target store must resolve in the directory
func (s *supportService) ValidateSupportRequest(userID uuid.UUID, date time.Time, targetStoreID uuid.UUID) (ValidationResult, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ValidationResult{}, ErrUserNotFound
	}

	if user.StoreID != nil && *user.StoreID == targetStoreID {
		return ValidationResult{IsValid: false, Error: msgSameStore}, nil
	}

	existing, err := s.shiftRepo.FindScheduledByUserAndDate(userID, date)
	if err != nil {
		return ValidationResult{}, err
	}
	if len(existing) > 0 {
		return ValidationResult{IsValid: false, Error: msgDuplicateDate}, nil
	}

	if _, err := s.storeRepo.FindByID(targetStoreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ValidationResult{IsValid: false, Error: msgTargetMissing}, nil
		}
		return ValidationResult{}, err
	}

	return ValidationResult{IsValid: true}, nil
}

func (s *supportService) CreateSupportShift(actor *model.User, req *CreateSupportShiftRequest) (*model.Shift, error) {
	// Permission check runs before anything else touches the store
	if !s.az.HasPermission(actor, model.PermManageStoreSchedule) {
		return nil, authz.ErrUnauthorized
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, requestError(errs[0])
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.New("invalid user ID format")
	}
	targetStoreID, err := uuid.Parse(req.TargetStoreID)
	if err != nil {
		return nil, errors.New("invalid target store ID format")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserNotActive
	}
	if user.StoreID == nil {
		return nil, ErrNoHomeStore
	}

	// The request is validated again here rather than trusting the caller to
	// have run the pre-flight check.
	result, err := s.ValidateSupportRequest(userID, date, targetStoreID)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		return nil, &ValidationError{Message: result.Error}
	}

	startTime, endTime, breakHours, shiftType, err := resolveShiftTimes(req.ShiftType, req.StartTime, req.EndTime, req.BreakHours)
	if err != nil {
		return nil, err
	}

	// Home store is captured at assignment time, never recomputed later
	originalStoreID := *user.StoreID

	shift := &model.Shift{
		UserID:          userID,
		StoreID:         targetStoreID,
		Date:            date,
		ShiftType:       shiftType,
		StartTime:       startTime,
		EndTime:         endTime,
		BreakHours:      breakHours,
		ActualHours:     model.ComputeActualHours(startTime, endTime, breakHours),
		IsSupportShift:  true,
		OriginalStoreID: &originalStoreID,
		TargetStoreID:   &targetStoreID,
		Status:          model.ShiftScheduled,
	}
	shift.CreatedBy = actor.ID.String()
	shift.UpdatedBy = actor.ID.String()

	if err := s.shiftRepo.Create(shift); err != nil {
		return nil, err
	}

	shift, err = s.shiftRepo.FindByID(shift.ID)
	if err != nil {
		return nil, err
	}

	s.reports.Invalidate(context.Background(), userID, date.Format("2006-01"))
	go s.notifySupportShift(shift, "support_shift_created",
		fmt.Sprintf("You have been assigned a support shift on %s (%s - %s)",
			shift.Date.Format("2006-01-02"), shift.StartTime, shift.EndTime))

	return shift, nil
}

func (s *supportService) UpdateSupportShift(actor *model.User, shiftID uuid.UUID, req *UpdateSupportShiftRequest) (*model.Shift, error) {
	if !s.az.HasPermission(actor, model.PermManageStoreSchedule) {
		return nil, authz.ErrUnauthorized
	}

	shift, err := s.shiftRepo.FindByID(shiftID)
	if err != nil {
		return nil, ErrShiftNotFound
	}
	if shift.Status != model.ShiftScheduled {
		return nil, ErrShiftNotEditable
	}

	oldPeriod := shift.Date.Format("2006-01")

	// Merge provided fields with existing values. The support identity
	// fields (IsSupportShift, OriginalStoreID, TargetStoreID) never change.
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		shift.Date = parsed
	}
	if req.ShiftType != nil {
		t := model.ShiftType(*req.ShiftType)
		preset, ok := model.PresetFor(t)
		if !ok {
			return nil, ErrInvalidShiftType
		}
		shift.ShiftType = t
		// Changing the type resets the times to its preset unless the same
		// request overrides them below.
		shift.StartTime = preset.StartTime
		shift.EndTime = preset.EndTime
		shift.BreakHours = preset.BreakHours
	}
	if req.StartTime != nil {
		if err := validateTimeFormat(*req.StartTime); err != nil {
			return nil, err
		}
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if err := validateTimeFormat(*req.EndTime); err != nil {
			return nil, err
		}
		shift.EndTime = *req.EndTime
	}
	if req.BreakHours != nil {
		if *req.BreakHours < 0 {
			return nil, errors.New("break hours cannot be negative")
		}
		shift.BreakHours = *req.BreakHours
	}

	shift.ActualHours = model.ComputeActualHours(shift.StartTime, shift.EndTime, shift.BreakHours)
	shift.UpdatedBy = actor.ID.String()

	if err := s.shiftRepo.Update(shift); err != nil {
		return nil, err
	}

	shift, err = s.shiftRepo.FindByID(shift.ID)
	if err != nil {
		return nil, err
	}

	s.reports.Invalidate(context.Background(), shift.UserID, oldPeriod)
	s.reports.Invalidate(context.Background(), shift.UserID, shift.Date.Format("2006-01"))
	go s.notifySupportShift(shift, "support_shift_updated",
		fmt.Sprintf("Your support shift has been updated: %s (%s - %s)",
			shift.Date.Format("2006-01-02"), shift.StartTime, shift.EndTime))

	return shift, nil
}

// CancelSupportShift moves a scheduled shift to cancelled. Cancelling an
// already-cancelled shift is a no-op; a completed shift cannot be cancelled.
func (s *supportService) CancelSupportShift(actor *model.User, shiftID uuid.UUID) (*model.Shift, error) {
	if !s.az.HasPermission(actor, model.PermManageStoreSchedule) {
		return nil, authz.ErrUnauthorized
	}

	shift, err := s.shiftRepo.FindByID(shiftID)
	if err != nil {
		return nil, ErrShiftNotFound
	}

	switch shift.Status {
	case model.ShiftCancelled:
		return shift, nil
	case model.ShiftCompleted:
		return nil, ErrShiftAlreadyCompleted
	}

	if err := s.shiftRepo.UpdateStatus(shiftID, model.ShiftCancelled, actor.ID.String()); err != nil {
		return nil, err
	}
	shift.Status = model.ShiftCancelled

	s.reports.Invalidate(context.Background(), shift.UserID, shift.Date.Format("2006-01"))
	go s.notifySupportShift(shift, "support_shift_cancelled",
		fmt.Sprintf("Your support shift on %s has been cancelled", shift.Date.Format("2006-01-02")))

	return shift, nil
}

func (s *supportService) GetSupportShiftsForStore(storeID uuid.UUID, date time.Time) ([]model.ShiftResponse, error) {
	shifts, err := s.shiftRepo.FindSupportByStoreAndDate(storeID, date)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		responses[i] = shift.ToResponse()
	}
	return responses, nil
}

func (s *supportService) GetSupportShiftsByUser(userID uuid.UUID, startDate, endDate time.Time) ([]model.ShiftResponse, error) {
	shifts, err := s.shiftRepo.FindSupportByUserAndRange(userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ShiftResponse, len(shifts))
	for i, shift := range shifts {
		responses[i] = shift.ToResponse()
	}
	return responses, nil
}

// resolveShiftTimes merges the shift-type preset with explicit overrides.
func resolveShiftTimes(shiftType string, startTime, endTime *string, breakHours *float64) (string, string, float64, model.ShiftType, error) {
	t := model.ShiftType(shiftType)
	preset, ok := model.PresetFor(t)
	if !ok {
		return "", "", 0, "", ErrInvalidShiftType
	}

	start := preset.StartTime
	end := preset.EndTime
	brk := preset.BreakHours

	if startTime != nil {
		if err := validateTimeFormat(*startTime); err != nil {
			return "", "", 0, "", err
		}
		start = *startTime
	}
	if endTime != nil {
		if err := validateTimeFormat(*endTime); err != nil {
			return "", "", 0, "", err
		}
		end = *endTime
	}
	if breakHours != nil {
		if *breakHours < 0 {
			return "", "", 0, "", errors.New("break hours cannot be negative")
		}
		brk = *breakHours
	}

	return start, end, brk, t, nil
}

func (s *supportService) notifySupportShift(shift *model.Shift, action, message string) {
	if s.wsHub == nil {
		return
	}

	payload := map[string]interface{}{
		"type":    "shift_notification",
		"action":  action,
		"message": message,
		"shift":   shift.ToResponse(),
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to encode shift notification", zap.Error(err))
		return
	}

	s.wsHub.SendToUsers([]string{shift.UserID.String()}, msg)
}
