package service

import (
	"context"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
)

type SupplierService interface {
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*model.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	suppliers repository.SupplierRepository
}

func NewSupplierService(suppliers repository.SupplierRepository) SupplierService {
	return &supplierService{suppliers: suppliers}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*model.Supplier, error) {
	if _, err := s.suppliers.FindByName(ctx, req.Name); err == nil {
		return nil, apierror.Validation("supplier %q already exists", req.Name)
	}
	supplier := &model.Supplier{
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
		Email:   req.Email,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, apierror.Validation("storage rejected the supplier: %v", err)
	}
	return supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "supplier %s not found", id)
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, apierror.Internal("listing suppliers: %v", err)
	}
	return suppliers, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*model.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "supplier %s not found", id)
	}
	if req.Name != "" {
		supplier.Name = req.Name
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}
	if req.Contact != nil {
		supplier.Contact = req.Contact
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, apierror.Validation("storage rejected the supplier update: %v", err)
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		return dbErr(err, "supplier %s not found", id)
	}
	return s.suppliers.Delete(ctx, id)
}
