package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"banban-schedule-api/internal/model"
)

// In-memory repository fakes. Misses return gorm.ErrRecordNotFound so the
// services see the same sentinel the real GORM repositories produce.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByLineUserID(lineUserID string) (*model.User, error) {
	for _, u := range r.users {
		if u.LineUserID == lineUserID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && email != "" {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByStoreID(storeID uuid.UUID) ([]model.User, error) {
	var users []model.User
	for _, u := range r.users {
		if u.StoreID != nil && *u.StoreID == storeID {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Deactivate(id uuid.UUID, updatedBy string) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = false
		u.UpdatedBy = updatedBy
		return nil
	}
	return gorm.ErrRecordNotFound
}

type fakeStoreRepo struct {
	stores map[uuid.UUID]*model.Store
}

func newFakeStoreRepo(stores ...*model.Store) *fakeStoreRepo {
	r := &fakeStoreRepo{stores: make(map[uuid.UUID]*model.Store)}
	for _, s := range stores {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.stores[s.ID] = s
	}
	return r
}

func (r *fakeStoreRepo) FindByID(id uuid.UUID) (*model.Store, error) {
	if s, ok := r.stores[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStoreRepo) FindByCode(code string) (*model.Store, error) {
	for _, s := range r.stores {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStoreRepo) FindAll() ([]model.Store, error) {
	stores := make([]model.Store, 0, len(r.stores))
	for _, s := range r.stores {
		stores = append(stores, *s)
	}
	return stores, nil
}

func (r *fakeStoreRepo) FindByAreaID(areaID uuid.UUID) ([]model.Store, error) {
	var stores []model.Store
	for _, s := range r.stores {
		if s.AreaID == areaID {
			stores = append(stores, *s)
		}
	}
	return stores, nil
}

func (r *fakeStoreRepo) Create(store *model.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	r.stores[store.ID] = store
	return nil
}

func (r *fakeStoreRepo) Update(store *model.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *fakeStoreRepo) CountActiveUsers(storeID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeShiftRepo struct {
	shifts map[uuid.UUID]*model.Shift
}

func newFakeShiftRepo(shifts ...*model.Shift) *fakeShiftRepo {
	r := &fakeShiftRepo{shifts: make(map[uuid.UUID]*model.Shift)}
	for _, s := range shifts {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		r.shifts[s.ID] = s
	}
	return r
}

func (r *fakeShiftRepo) Create(shift *model.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	r.shifts[shift.ID] = shift
	return nil
}

func (r *fakeShiftRepo) Update(shift *model.Shift) error {
	r.shifts[shift.ID] = shift
	return nil
}

func (r *fakeShiftRepo) FindByID(id uuid.UUID) (*model.Shift, error) {
	if s, ok := r.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeShiftRepo) FindScheduledByUserAndDate(userID uuid.UUID, date time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	for _, s := range r.shifts {
		if s.UserID == userID && s.Date.Equal(date) && s.Status == model.ShiftScheduled {
			shifts = append(shifts, *s)
		}
	}
	return shifts, nil
}

func (r *fakeShiftRepo) FindSupportByStoreAndDate(storeID uuid.UUID, date time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	for _, s := range r.shifts {
		if s.IsSupportShift && s.TargetStoreID != nil && *s.TargetStoreID == storeID &&
			s.Date.Equal(date) && s.Status == model.ShiftScheduled {
			shifts = append(shifts, *s)
		}
	}
	return shifts, nil
}

func (r *fakeShiftRepo) FindSupportByUserAndRange(userID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	for _, s := range r.shifts {
		if s.UserID == userID && s.IsSupportShift && s.Status == model.ShiftScheduled &&
			!s.Date.Before(startDate) && !s.Date.After(endDate) {
			shifts = append(shifts, *s)
		}
	}
	return shifts, nil
}

func (r *fakeShiftRepo) FindCompletedHomeShifts(userID, storeID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	for _, s := range r.shifts {
		if s.UserID == userID && s.StoreID == storeID && !s.IsSupportShift &&
			s.Status == model.ShiftCompleted &&
			!s.Date.Before(startDate) && !s.Date.After(endDate) {
			shifts = append(shifts, *s)
		}
	}
	return shifts, nil
}

func (r *fakeShiftRepo) FindCompletedSupportShifts(userID uuid.UUID, startDate, endDate time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	for _, s := range r.shifts {
		if s.UserID == userID && s.IsSupportShift && s.Status == model.ShiftCompleted &&
			!s.Date.Before(startDate) && !s.Date.After(endDate) {
			shifts = append(shifts, *s)
		}
	}
	return shifts, nil
}

func (r *fakeShiftRepo) UpdateStatus(id uuid.UUID, status model.ShiftStatus, updatedBy string) error {
	if s, ok := r.shifts[id]; ok {
		s.Status = status
		s.UpdatedBy = updatedBy
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeShiftRepo) CompleteThrough(cutoff time.Time) (int64, error) {
	var n int64
	for _, s := range r.shifts {
		if s.Status == model.ShiftScheduled && s.Date.Before(cutoff) {
			s.Status = model.ShiftCompleted
			n++
		}
	}
	return n, nil
}

type fakeLeaveRepo struct {
	requests map[uuid.UUID]*model.LeaveRequest
}

func newFakeLeaveRepo(requests ...*model.LeaveRequest) *fakeLeaveRepo {
	r := &fakeLeaveRepo{requests: make(map[uuid.UUID]*model.LeaveRequest)}
	for _, req := range requests {
		if req.ID == uuid.Nil {
			req.ID = uuid.New()
		}
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeLeaveRepo) Create(req *model.LeaveRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeLeaveRepo) Update(req *model.LeaveRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeLeaveRepo) FindByID(id uuid.UUID) (*model.LeaveRequest, error) {
	if req, ok := r.requests[id]; ok {
		return req, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLeaveRepo) FindByUserID(userID uuid.UUID) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			reqs = append(reqs, *req)
		}
	}
	return reqs, nil
}

func (r *fakeLeaveRepo) FindPendingByStore(storeID uuid.UUID) ([]model.LeaveRequest, error) {
	var reqs []model.LeaveRequest
	for _, req := range r.requests {
		if req.StoreID == storeID && req.Status == model.LeavePending {
			reqs = append(reqs, *req)
		}
	}
	return reqs, nil
}

type fakeTagRepo struct {
	tags map[uuid.UUID]*model.ActivityTag
}

func newFakeTagRepo(tags ...*model.ActivityTag) *fakeTagRepo {
	r := &fakeTagRepo{tags: make(map[uuid.UUID]*model.ActivityTag)}
	for _, tag := range tags {
		if tag.ID == uuid.Nil {
			tag.ID = uuid.New()
		}
		r.tags[tag.ID] = tag
	}
	return r
}

func (r *fakeTagRepo) Create(tag *model.ActivityTag) error {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	r.tags[tag.ID] = tag
	return nil
}

func (r *fakeTagRepo) Update(tag *model.ActivityTag) error {
	r.tags[tag.ID] = tag
	return nil
}

func (r *fakeTagRepo) Delete(id uuid.UUID, deletedBy string) error {
	delete(r.tags, id)
	return nil
}

func (r *fakeTagRepo) FindByID(id uuid.UUID) (*model.ActivityTag, error) {
	if tag, ok := r.tags[id]; ok {
		return tag, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTagRepo) FindByStoreAndRange(storeID uuid.UUID, startDate, endDate time.Time) ([]model.ActivityTag, error) {
	var tags []model.ActivityTag
	for _, tag := range r.tags {
		if tag.StoreID == storeID && !tag.Date.Before(startDate) && !tag.Date.After(endDate) {
			tags = append(tags, *tag)
		}
	}
	return tags, nil
}
