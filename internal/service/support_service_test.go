package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/model"
)

func newTestAuthorizer(t *testing.T) *authz.Authorizer {
	t.Helper()
	az, err := authz.New()
	require.NoError(t, err)
	return az
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

type supportFixture struct {
	svc         SupportService
	shiftRepo   *fakeShiftRepo
	userRepo    *fakeUserRepo
	storeRepo   *fakeStoreRepo
	manager     *model.User
	staff       *model.User
	homeStore   *model.Store
	targetStore *model.Store
}

func newSupportFixture(t *testing.T) *supportFixture {
	t.Helper()

	homeStore := &model.Store{Name: "Taichung LaLa", Code: "TAICHUNG_LALA", IsActive: true}
	targetStore := &model.Store{Name: "Nangang LaLa", Code: "NANGANG_LALA", IsActive: true}
	storeRepo := newFakeStoreRepo(homeStore, targetStore)

	staff := &model.User{
		Name:     "Chen Staff",
		Role:     model.RoleStaff,
		StoreID:  &homeStore.ID,
		IsActive: true,
	}
	manager := &model.User{
		Name:     "Lin Manager",
		Role:     model.RoleStoreManager,
		StoreID:  &homeStore.ID,
		IsActive: true,
	}
	userRepo := newFakeUserRepo(staff, manager)
	shiftRepo := newFakeShiftRepo()

	svc := NewSupportService(newTestAuthorizer(t), shiftRepo, userRepo, storeRepo, nil, nil, zap.NewNop())
	return &supportFixture{
		svc:         svc,
		shiftRepo:   shiftRepo,
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		manager:     manager,
		staff:       staff,
		homeStore:   homeStore,
		targetStore: targetStore,
	}
}

func TestValidateSupportRequestSameStoreFailsFirst(t *testing.T) {
	f := newSupportFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// A scheduled shift on the same date also exists, but the same-store rule
	// must win because it runs first.
	f.shiftRepo.Create(&model.Shift{
		UserID: f.staff.ID, StoreID: f.homeStore.ID, Date: date,
		ShiftType: model.ShiftTypeFull, StartTime: "09:00", EndTime: "18:00",
		Status: model.ShiftScheduled,
	})

	result, err := f.svc.ValidateSupportRequest(f.staff.ID, date, f.homeStore.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "cannot request support at home store", result.Error)
}

func TestValidateSupportRequestDuplicateDate(t *testing.T) {
	f := newSupportFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	f.shiftRepo.Create(&model.Shift{
		UserID: f.staff.ID, StoreID: f.homeStore.ID, Date: date,
		ShiftType: model.ShiftTypeMorning, StartTime: "09:00", EndTime: "13:00",
		Status: model.ShiftScheduled,
	})

	result, err := f.svc.ValidateSupportRequest(f.staff.ID, date, f.targetStore.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "date already scheduled", result.Error)
}

func TestValidateSupportRequestDuplicateIncludesSupportShifts(t *testing.T) {
	f := newSupportFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	otherStore := &model.Store{Name: "Third Store", Code: "THIRD", IsActive: true}
	f.storeRepo.Create(otherStore)

	f.shiftRepo.Create(&model.Shift{
		UserID: f.staff.ID, StoreID: otherStore.ID, Date: date,
		ShiftType: model.ShiftTypeEvening, StartTime: "14:00", EndTime: "18:00",
		IsSupportShift: true, TargetStoreID: &otherStore.ID,
		Status: model.ShiftScheduled,
	})

	result, err := f.svc.ValidateSupportRequest(f.staff.ID, date, f.targetStore.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "date already scheduled", result.Error)
}

func TestValidateSupportRequestCancelledShiftDoesNotBlock(t *testing.T) {
	f := newSupportFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	f.shiftRepo.Create(&model.Shift{
		UserID: f.staff.ID, StoreID: f.homeStore.ID, Date: date,
		ShiftType: model.ShiftTypeFull, StartTime: "09:00", EndTime: "18:00",
		Status: model.ShiftCancelled,
	})

	result, err := f.svc.ValidateSupportRequest(f.staff.ID, date, f.targetStore.ID)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestValidateSupportRequestTargetNotFound(t *testing.T) {
	f := newSupportFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	result, err := f.svc.ValidateSupportRequest(f.staff.ID, date, uuid.New())
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, "target store not found", result.Error)
}

func TestValidateSupportRequestValid(t *testing.T) {
	f := newSupportFixture(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	result, err := f.svc.ValidateSupportRequest(f.staff.ID, date, f.targetStore.ID)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Error)
}

func TestCreateSupportShiftUsesPreset(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	require.NoError(t, err)

	assert.Equal(t, "09:00", shift.StartTime)
	assert.Equal(t, "13:00", shift.EndTime)
	assert.Equal(t, 0.5, shift.BreakHours)
	assert.InDelta(t, 3.5, shift.ActualHours, 0.001)
	assert.True(t, shift.IsSupportShift)
	assert.Equal(t, model.ShiftScheduled, shift.Status)
	assert.Equal(t, f.targetStore.ID, shift.StoreID)
	require.NotNil(t, shift.TargetStoreID)
	assert.Equal(t, f.targetStore.ID, *shift.TargetStoreID)
}

func TestCreateSupportShiftSnapshotsHomeStore(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "full",
	})
	require.NoError(t, err)

	require.NotNil(t, shift.OriginalStoreID)
	assert.Equal(t, f.homeStore.ID, *shift.OriginalStoreID)

	// Moving the user afterwards must not change the snapshot
	newHome := f.targetStore.ID
	f.staff.StoreID = &newHome
	stored, err := f.shiftRepo.FindByID(shift.ID)
	require.NoError(t, err)
	assert.Equal(t, f.homeStore.ID, *stored.OriginalStoreID)
}

func TestCreateSupportShiftExplicitTimesOverridePreset(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "full",
		StartTime:     strPtr("22:00"),
		EndTime:       strPtr("06:00"),
		BreakHours:    floatPtr(0),
	})
	require.NoError(t, err)

	assert.Equal(t, "22:00", shift.StartTime)
	assert.Equal(t, "06:00", shift.EndTime)
	assert.InDelta(t, 8.0, shift.ActualHours, 0.001)
}

func TestCreateSupportShiftRevalidates(t *testing.T) {
	f := newSupportFixture(t)

	_, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.homeStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "cannot request support at home store", vErr.Message)
	assert.Empty(t, f.shiftRepo.shifts)
}

func TestCreateSupportShiftPermissionDeniedBeforeMutation(t *testing.T) {
	f := newSupportFixture(t)

	_, err := f.svc.CreateSupportShift(f.staff, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	assert.ErrorIs(t, err, authz.ErrUnauthorized)
	assert.Empty(t, f.shiftRepo.shifts)
}

func TestCreateSupportShiftRejectsInactiveUser(t *testing.T) {
	f := newSupportFixture(t)
	f.staff.IsActive = false

	_, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	assert.ErrorIs(t, err, ErrUserNotActive)
}

func TestCreateSupportShiftRequiresHomeStore(t *testing.T) {
	f := newSupportFixture(t)
	f.staff.StoreID = nil

	_, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	assert.ErrorIs(t, err, ErrNoHomeStore)
}

func TestCreateSupportShiftRejectsBadInput(t *testing.T) {
	f := newSupportFixture(t)

	_, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "03/10/2026",
		ShiftType:     "morning",
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "night",
	})
	assert.ErrorIs(t, err, ErrInvalidShiftType)

	_, err = f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
		StartTime:     strPtr("9am"),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestUpdateSupportShiftTypeResetsToPreset(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSupportShift(f.manager, shift.ID, &UpdateSupportShiftRequest{
		ShiftType: strPtr("full"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ShiftTypeFull, updated.ShiftType)
	assert.Equal(t, "09:00", updated.StartTime)
	assert.Equal(t, "18:00", updated.EndTime)
	assert.Equal(t, 1.5, updated.BreakHours)
	assert.InDelta(t, 7.5, updated.ActualHours, 0.001)
}

func TestUpdateSupportShiftRecomputesHours(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSupportShift(f.manager, shift.ID, &UpdateSupportShiftRequest{
		EndTime: strPtr("14:00"),
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.5, updated.ActualHours, 0.001)
}

func TestUpdateSupportShiftOnlyScheduled(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	require.NoError(t, err)

	require.NoError(t, f.shiftRepo.UpdateStatus(shift.ID, model.ShiftCompleted, "scheduler"))

	_, err = f.svc.UpdateSupportShift(f.manager, shift.ID, &UpdateSupportShiftRequest{
		EndTime: strPtr("14:00"),
	})
	assert.ErrorIs(t, err, ErrShiftNotEditable)
}

func TestCancelSupportShift(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelSupportShift(f.manager, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ShiftCancelled, cancelled.Status)

	// Cancelling again is a no-op, not an error
	again, err := f.svc.CancelSupportShift(f.manager, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ShiftCancelled, again.Status)
}

func TestCancelCompletedShiftFails(t *testing.T) {
	f := newSupportFixture(t)

	shift, err := f.svc.CreateSupportShift(f.manager, &CreateSupportShiftRequest{
		UserID:        f.staff.ID.String(),
		TargetStoreID: f.targetStore.ID.String(),
		Date:          "2026-03-10",
		ShiftType:     "morning",
	})
	require.NoError(t, err)

	require.NoError(t, f.shiftRepo.UpdateStatus(shift.ID, model.ShiftCompleted, "scheduler"))

	_, err = f.svc.CancelSupportShift(f.manager, shift.ID)
	assert.ErrorIs(t, err, ErrShiftAlreadyCompleted)
}

func TestCancelMissingShift(t *testing.T) {
	f := newSupportFixture(t)

	_, err := f.svc.CancelSupportShift(f.manager, uuid.New())
	assert.ErrorIs(t, err, ErrShiftNotFound)
}
