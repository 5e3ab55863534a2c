package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/cache"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/pkg/excel"
)

var ErrInvalidPeriod = errors.New("invalid period, use YYYY-MM")

type WorkHoursService interface {
	CalculateWorkHours(userID uuid.UUID, period string) (*model.WorkHourStats, error)
	GetWorkHoursByStore(storeID uuid.UUID, period string) (*model.StoreWorkHours, error)
	// ExportToExcel returns the workbook bytes and a download filename.
	ExportToExcel(actor *model.User, period string, storeID *uuid.UUID) ([]byte, string, error)
}

type workHoursService struct {
	az        *authz.Authorizer
	shiftRepo repository.ShiftRepository
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	reports   *cache.ReportCache
	logger    *zap.Logger
}

func NewWorkHoursService(
	az *authz.Authorizer,
	shiftRepo repository.ShiftRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	reports *cache.ReportCache,
	logger *zap.Logger,
) WorkHoursService {
	return &workHoursService{
		az:        az,
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
		storeRepo: storeRepo,
		reports:   reports,
		logger:    logger,
	}
}

// periodBounds returns the inclusive date bounds of a YYYY-MM period.
func periodBounds(period string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// CalculateWorkHours aggregates completed shifts for a user over a calendar
// month. It only sums stored ActualHours values; no time arithmetic happens
// here. A user with no shifts in the period yields all-zero stats, not an
// error.
func (s *workHoursService) CalculateWorkHours(userID uuid.UUID, period string) (*model.WorkHourStats, error) {
	startDate, endDate, err := periodBounds(period)
	if err != nil {
		return nil, err
	}

	if stats, ok := s.reports.Get(context.Background(), userID, period); ok {
		return stats, nil
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	stats := &model.WorkHourStats{
		UserID:         userID,
		UserName:       user.Name,
		StoreID:        user.StoreID,
		Period:         period,
		SupportDetails: []model.SupportDetail{},
	}

	// Regular hours only count at the current home store; a user without one
	// simply has no regular hours.
	if user.StoreID != nil {
		homeShifts, err := s.shiftRepo.FindCompletedHomeShifts(userID, *user.StoreID, startDate, endDate)
		if err != nil {
			return nil, err
		}
		for _, shift := range homeShifts {
			stats.RegularHours += shift.ActualHours
		}
	}

	// Support hours count wherever they were worked: OriginalStoreID is a
	// snapshot of a possibly different historical home store, so it is not
	// part of the filter.
	supportShifts, err := s.shiftRepo.FindCompletedSupportShifts(userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for _, shift := range supportShifts {
		stats.SupportHours += shift.ActualHours
		if shift.TargetStoreID == nil {
			continue
		}
		targetID := *shift.TargetStoreID

		found := false
		for i := range stats.SupportDetails {
			if stats.SupportDetails[i].TargetStoreID == targetID {
				stats.SupportDetails[i].Hours += shift.ActualHours
				found = true
				break
			}
		}
		if !found {
			stats.SupportDetails = append(stats.SupportDetails, model.SupportDetail{
				TargetStoreID:   targetID,
				TargetStoreName: s.storeName(targetID),
				Hours:           shift.ActualHours,
			})
		}
	}

	stats.TotalHours = stats.RegularHours + stats.SupportHours

	s.reports.Set(context.Background(), stats)
	return stats, nil
}

// GetWorkHoursByStore rolls up CalculateWorkHours over every user whose home
// store is the queried store. StaffCount counts the users considered,
// whether or not any of them worked hours in the period.
func (s *workHoursService) GetWorkHoursByStore(storeID uuid.UUID, period string) (*model.StoreWorkHours, error) {
	if _, _, err := periodBounds(period); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		return nil, ErrStoreNotFound
	}

	users, err := s.userRepo.FindByStoreID(storeID)
	if err != nil {
		return nil, err
	}

	result := &model.StoreWorkHours{
		StoreID:    storeID,
		StoreName:  store.Name,
		Period:     period,
		StaffCount: len(users),
	}

	for _, user := range users {
		stats, err := s.CalculateWorkHours(user.ID, period)
		if err != nil {
			return nil, err
		}
		result.RegularHours += stats.RegularHours
		result.SupportHours += stats.SupportHours
	}
	result.TotalHours = result.RegularHours + result.SupportHours

	return result, nil
}

func (s *workHoursService) ExportToExcel(actor *model.User, period string, storeID *uuid.UUID) ([]byte, string, error) {
	// Area managers export whole-store reports, staff their own hours; either
	// permission is enough.
	if !s.az.HasPermission(actor, model.PermViewAreaStats) && !s.az.HasPermission(actor, model.PermViewOwnHours) {
		return nil, "", authz.ErrUnauthorized
	}

	if _, _, err := periodBounds(period); err != nil {
		return nil, "", err
	}

	var users []model.User
	var err error
	if storeID != nil {
		users, err = s.userRepo.FindByStoreID(*storeID)
	} else {
		users, err = s.userRepo.FindAll()
	}
	if err != nil {
		return nil, "", err
	}

	rows := make([]excel.WorkHourRow, 0, len(users))
	for _, user := range users {
		stats, err := s.CalculateWorkHours(user.ID, period)
		if err != nil {
			return nil, "", err
		}

		storeName := "unassigned"
		if stats.StoreID != nil {
			storeName = s.storeName(*stats.StoreID)
		}

		rows = append(rows, excel.WorkHourRow{
			UserName:       stats.UserName,
			UserID:         stats.UserID.String(),
			StoreName:      storeName,
			Period:         period,
			RegularHours:   stats.RegularHours,
			SupportHours:   stats.SupportHours,
			TotalHours:     stats.TotalHours,
			SupportDetails: FlattenSupportDetails(stats.SupportDetails),
		})
	}

	data, err := excel.BuildWorkHoursWorkbook(period, rows)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("work_hours_%s.xlsx", period)
	if storeID != nil {
		filename = fmt.Sprintf("work_hours_%s_%s.xlsx", period, storeID)
	}

	s.logger.Info("work-hour report exported",
		zap.String("period", period), zap.Int("rows", len(rows)))
	return data, filename, nil
}

// FlattenSupportDetails renders support breakdowns for the export row.
func FlattenSupportDetails(details []model.SupportDetail) string {
	if len(details) == 0 {
		return "none"
	}
	parts := make([]string, len(details))
	for i, d := range details {
		parts[i] = fmt.Sprintf("%s: %gh", d.TargetStoreName, d.Hours)
	}
	return strings.Join(parts, ", ")
}

// storeName resolves a store name for reports. A deleted store must not
// abort aggregation, so it degrades to an explicit unresolved marker.
func (s *workHoursService) storeName(id uuid.UUID) string {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		return fmt.Sprintf("unknown store (%s)", id)
	}
	return store.Name
}
