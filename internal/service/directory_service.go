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

var (
	ErrAreaNotFound   = errors.New("area not found")
	ErrStoreCodeTaken = errors.New("store code already exists")
)

// DirectoryService is the read side of the store/area reference data plus
// the HQ-gated store mutations.
type DirectoryService interface {
	ResolveStore(id uuid.UUID) (*model.StoreResponse, error)
	ResolveAreaByStore(storeID uuid.UUID) (*model.AreaResponse, error)
	ListStores() ([]model.StoreResponse, error)
	ListAreas() ([]model.AreaResponse, error)
	CreateStore(actor *model.User, req *CreateStoreRequest) (*model.Store, error)
	UpdateStore(actor *model.User, id uuid.UUID, req *UpdateStoreRequest) (*model.Store, error)
}

type CreateStoreRequest struct {
	Name      string  `json:"name" validate:"required"`
	Code      string  `json:"code" validate:"required"`
	AreaID    string  `json:"area_id" validate:"required"`
	CompanyID *string `json:"company_id"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
}

type UpdateStoreRequest struct {
	Name     *string `json:"name"`
	AreaID   *string `json:"area_id"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

type directoryService struct {
	az        *authz.Authorizer
	storeRepo repository.StoreRepository
	areaRepo  repository.AreaRepository
}

func NewDirectoryService(az *authz.Authorizer, storeRepo repository.StoreRepository, areaRepo repository.AreaRepository) DirectoryService {
	return &directoryService{az: az, storeRepo: storeRepo, areaRepo: areaRepo}
}

func (s *directoryService) ResolveStore(id uuid.UUID) (*model.StoreResponse, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		return nil, ErrStoreNotFound
	}

	resp := store.ToResponse()
	if count, err := s.storeRepo.CountActiveUsers(id); err == nil {
		resp.EmployeeCount = int(count)
	}
	return &resp, nil
}

func (s *directoryService) ResolveAreaByStore(storeID uuid.UUID) (*model.AreaResponse, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		return nil, ErrStoreNotFound
	}

	area, err := s.areaRepo.FindByID(store.AreaID)
	if err != nil {
		return nil, ErrAreaNotFound
	}

	resp := area.ToResponse()
	stores, err := s.storeRepo.FindByAreaID(area.ID)
	if err != nil {
		return nil, err
	}
	resp.Stores = make([]model.StoreResponse, len(stores))
	for i, st := range stores {
		resp.Stores[i] = st.ToResponse()
	}
	return &resp, nil
}

func (s *directoryService) ListStores() ([]model.StoreResponse, error) {
	stores, err := s.storeRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.StoreResponse, len(stores))
	for i, store := range stores {
		responses[i] = store.ToResponse()
		if count, err := s.storeRepo.CountActiveUsers(store.ID); err == nil {
			responses[i].EmployeeCount = int(count)
		}
	}
	return responses, nil
}

func (s *directoryService) ListAreas() ([]model.AreaResponse, error) {
	areas, err := s.areaRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.AreaResponse, len(areas))
	for i, area := range areas {
		responses[i] = area.ToResponse()
	}
	return responses, nil
}

func (s *directoryService) CreateStore(actor *model.User, req *CreateStoreRequest) (*model.Store, error) {
	if !s.az.HasPermission(actor, model.PermManageStores) {
		return nil, authz.ErrUnauthorized
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	areaID, err := uuid.Parse(req.AreaID)
	if err != nil {
		return nil, errors.New("invalid area ID format")
	}
	if _, err := s.areaRepo.FindByID(areaID); err != nil {
		return nil, ErrAreaNotFound
	}

	if existing, _ := s.storeRepo.FindByCode(req.Code); existing != nil {
		return nil, ErrStoreCodeTaken
	}

	store := &model.Store{
		Name:     req.Name,
		Code:     req.Code,
		AreaID:   areaID,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if req.CompanyID != nil {
		companyID, err := uuid.Parse(*req.CompanyID)
		if err != nil {
			return nil, errors.New("invalid company ID format")
		}
		store.CompanyID = &companyID
	}
	store.CreatedBy = actor.ID.String()
	store.UpdatedBy = actor.ID.String()

	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}
	return s.storeRepo.FindByID(store.ID)
}

func (s *directoryService) UpdateStore(actor *model.User, id uuid.UUID, req *UpdateStoreRequest) (*model.Store, error) {
	if !s.az.HasPermission(actor, model.PermManageStores) {
		return nil, authz.ErrUnauthorized
	}

	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		return nil, ErrStoreNotFound
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.AreaID != nil {
		areaID, err := uuid.Parse(*req.AreaID)
		if err != nil {
			return nil, errors.New("invalid area ID format")
		}
		if _, err := s.areaRepo.FindByID(areaID); err != nil {
			return nil, ErrAreaNotFound
		}
		store.AreaID = areaID
	}
	if req.Address != nil {
		store.Address = *req.Address
	}
	if req.Phone != nil {
		store.Phone = *req.Phone
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}
	store.UpdatedBy = actor.ID.String()

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}
	return s.storeRepo.FindByID(store.ID)
}
