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

type leaveFixture struct {
	svc          LeaveService
	leaveRepo    *fakeLeaveRepo
	tagRepo      *fakeTagRepo
	staff        *model.User
	storeManager *model.User
	areaManager  *model.User
	homeStore    *model.Store
	otherStore   *model.Store
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()

	homeStore := &model.Store{Name: "Taichung LaLa", Code: "TAICHUNG_LALA", IsActive: true}
	otherStore := &model.Store{Name: "Nangang LaLa", Code: "NANGANG_LALA", IsActive: true}
	newFakeStoreRepo(homeStore, otherStore)

	staff := &model.User{Name: "Chen Staff", Role: model.RoleStaff, StoreID: &homeStore.ID, IsActive: true}
	storeManager := &model.User{Name: "Lin Manager", Role: model.RoleStoreManager, StoreID: &homeStore.ID, IsActive: true}
	areaManager := &model.User{Name: "Wang Area", Role: model.RoleAreaManager, IsActive: true}
	newFakeUserRepo(staff, storeManager, areaManager)

	leaveRepo := newFakeLeaveRepo()
	tagRepo := newFakeTagRepo()

	svc := NewLeaveService(newTestAuthorizer(t), leaveRepo, tagRepo, nil, zap.NewNop())
	return &leaveFixture{
		svc:          svc,
		leaveRepo:    leaveRepo,
		tagRepo:      tagRepo,
		staff:        staff,
		storeManager: storeManager,
		areaManager:  areaManager,
		homeStore:    homeStore,
		otherStore:   otherStore,
	}
}

func TestSubmitLeaveRequest(t *testing.T) {
	f := newLeaveFixture(t)

	request, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
		Reason:    "family trip",
	})
	require.NoError(t, err)

	assert.Equal(t, model.LeavePending, request.Status)
	assert.Equal(t, f.staff.ID, request.UserID)
	assert.Equal(t, f.homeStore.ID, request.StoreID)
	assert.Equal(t, 0, request.ApprovalLevel)
	assert.Equal(t, 1, request.MaxApprovalLevel)
}

func TestSubmitLeaveRequestManagerNeedsTwoApprovals(t *testing.T) {
	f := newLeaveFixture(t)

	request, err := f.svc.SubmitLeaveRequest(f.storeManager, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, request.MaxApprovalLevel)
}

func TestSubmitLeaveRequestEndBeforeStart(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-03",
		EndDate:   "2026-04-01",
	})
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestSubmitLeaveRequestInvalidType(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "sabbatical",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	assert.ErrorIs(t, err, ErrInvalidLeaveType)
}

func TestSubmitLeaveRequestBlockedByRestrictedActivity(t *testing.T) {
	f := newLeaveFixture(t)
	f.tagRepo.Create(&model.ActivityTag{
		StoreID:           f.homeStore.ID,
		Date:              time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		TagName:           "anniversary sale",
		IsLeaveRestricted: true,
		MinStaffRequired:  5,
	})

	_, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "anniversary sale")
	assert.Empty(t, f.leaveRepo.requests)
}

func TestSubmitLeaveRequestUnrestrictedActivityAllows(t *testing.T) {
	f := newLeaveFixture(t)
	f.tagRepo.Create(&model.ActivityTag{
		StoreID: f.homeStore.ID,
		Date:    time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		TagName: "spring campaign",
	})

	_, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
	})
	assert.NoError(t, err)
}

func TestApproveLeaveRequestSingleLevel(t *testing.T) {
	f := newLeaveFixture(t)

	request, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)

	approved, err := f.svc.ApproveLeaveRequest(f.storeManager, request.ID)
	require.NoError(t, err)

	assert.Equal(t, model.LeaveApproved, approved.Status)
	assert.Equal(t, 1, approved.ApprovalLevel)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, f.storeManager.ID, *approved.ApproverID)
}

func TestApproveLeaveRequestEscalation(t *testing.T) {
	f := newLeaveFixture(t)
	deputy := &model.User{Name: "Wu Deputy", Role: model.RoleStoreManager, StoreID: &f.homeStore.ID, IsActive: true}
	deputy.ID = uuid.New()

	request, err := f.svc.SubmitLeaveRequest(f.storeManager, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)

	// First approval raises the level but does not decide the request
	partial, err := f.svc.ApproveLeaveRequest(deputy, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeavePending, partial.Status)
	assert.Equal(t, 1, partial.ApprovalLevel)
	assert.Nil(t, partial.ApproverID)

	final, err := f.svc.ApproveLeaveRequest(f.areaManager, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeaveApproved, final.Status)
	require.NotNil(t, final.ApproverID)
	assert.Equal(t, f.areaManager.ID, *final.ApproverID)
}

func TestApproveLeaveRequestEscalatedLevelNeedsAreaScope(t *testing.T) {
	f := newLeaveFixture(t)
	deputy := &model.User{Name: "Wu Deputy", Role: model.RoleStoreManager, StoreID: &f.homeStore.ID, IsActive: true}
	deputy.ID = uuid.New()

	request, err := f.svc.SubmitLeaveRequest(f.storeManager, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveLeaveRequest(deputy, request.ID)
	require.NoError(t, err)

	// The second decision belongs to the area level; same-store managers
	// cannot finish it between themselves.
	secondDeputy := &model.User{Name: "Hsu Deputy", Role: model.RoleStoreManager, StoreID: &f.homeStore.ID, IsActive: true}
	secondDeputy.ID = uuid.New()
	_, err = f.svc.ApproveLeaveRequest(secondDeputy, request.ID)
	assert.ErrorIs(t, err, authz.ErrUnauthorized)

	reloaded, err := f.leaveRepo.FindByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeavePending, reloaded.Status)
	assert.Equal(t, 1, reloaded.ApprovalLevel)
}

func TestApproveOwnLeaveRequestDenied(t *testing.T) {
	f := newLeaveFixture(t)

	request, err := f.svc.SubmitLeaveRequest(f.storeManager, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveLeaveRequest(f.storeManager, request.ID)
	assert.ErrorIs(t, err, authz.ErrUnauthorized)

	reloaded, err := f.leaveRepo.FindByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.ApprovalLevel)
}

func TestApproveLeaveRequestPermissions(t *testing.T) {
	f := newLeaveFixture(t)

	request, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)

	// Staff cannot approve anything
	_, err = f.svc.ApproveLeaveRequest(f.staff, request.ID)
	assert.ErrorIs(t, err, authz.ErrUnauthorized)

	// A store manager from another store needs the cross-store grant
	foreignManager := &model.User{Name: "Foreign Manager", Role: model.RoleStoreManager, StoreID: &f.otherStore.ID, IsActive: true}
	_, err = f.svc.ApproveLeaveRequest(foreignManager, request.ID)
	assert.ErrorIs(t, err, authz.ErrUnauthorized)

	// An area manager holds approve_cross_store_leave and may decide it
	_, err = f.svc.ApproveLeaveRequest(f.areaManager, request.ID)
	assert.NoError(t, err)
}

func TestApproveDecidedRequestFails(t *testing.T) {
	f := newLeaveFixture(t)

	request, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)

	_, err = f.svc.RejectLeaveRequest(f.storeManager, request.ID)
	require.NoError(t, err)

	_, err = f.svc.ApproveLeaveRequest(f.storeManager, request.ID)
	assert.ErrorIs(t, err, ErrLeaveNotPending)
}

func TestRejectLeaveRequest(t *testing.T) {
	f := newLeaveFixture(t)

	request, err := f.svc.SubmitLeaveRequest(f.staff, &SubmitLeaveRequest{
		LeaveType: "sick",
		StartDate: "2026-04-01",
		EndDate:   "2026-04-01",
	})
	require.NoError(t, err)

	rejected, err := f.svc.RejectLeaveRequest(f.storeManager, request.ID)
	require.NoError(t, err)

	assert.Equal(t, model.LeaveRejected, rejected.Status)
	require.NotNil(t, rejected.ApproverID)
	assert.Equal(t, f.storeManager.ID, *rejected.ApproverID)
}

func TestApproveMissingRequest(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.ApproveLeaveRequest(f.storeManager, uuid.New())
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestGetPendingForStoreRequiresApproverGrant(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.GetPendingForStore(f.staff, f.homeStore.ID)
	assert.ErrorIs(t, err, authz.ErrUnauthorized)

	_, err = f.svc.GetPendingForStore(f.storeManager, f.homeStore.ID)
	assert.NoError(t, err)
}
