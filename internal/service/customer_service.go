package service

import (
	"context"

	"github.com/fadesignlk/stock-master-api/internal/apierror"
	"github.com/fadesignlk/stock-master-api/internal/dto"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		Name:      req.Name,
		ContactNo: req.ContactNo,
		Email:     req.Email,
		Address:   req.Address,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apierror.Validation("storage rejected the customer: %v", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "customer %s not found", id)
	}
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, apierror.Internal("listing customers: %v", err)
	}
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err, "customer %s not found", id)
	}
	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.ContactNo != "" {
		customer.ContactNo = req.ContactNo
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apierror.Validation("storage rejected the customer update: %v", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return dbErr(err, "customer %s not found", id)
	}
	return s.customers.Delete(ctx, id)
}
