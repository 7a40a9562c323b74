package service

import (
	"context"
	"errors"
	"strings"

	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/models"
	"github.com/example/shopstore/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type CustomerService struct {
	deps
	db *repository.Database
}

func NewCustomerService(db *repository.Database, opts ...Option) *CustomerService {
	return &CustomerService{deps: newDeps(opts), db: db}
}

type CreateCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return repository.NewCustomerRepository(s.db.DB).FindAll(ctx)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return repository.NewCustomerRepository(s.db.DB).FindByID(ctx, id)
}

// CreateCustomer stores a customer; emails are compared case-insensitively.
func (s *CustomerService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return 0, apperror.Validation("customer_name is required")
	}
	if email == "" {
		return 0, apperror.Validation("email is required")
	}

	customer := &models.Customer{
		Name:    name,
		Email:   email,
		Phone:   in.Phone,
		Address: in.Address,
		City:    in.City,
	}
	if err := repository.NewCustomerRepository(s.db.DB).Create(ctx, customer); err != nil {
		if errors.Is(err, apperror.ErrDuplicateEmail) {
			return 0, err
		}
		return 0, apperror.Write("failed to create customer", err)
	}

	s.logger.Info("Customer created", zap.Int64("customer_id", customer.ID))
	s.record(ctx, repository.ActionCreateCustomer, "customer", customer.ID, bson.M{
		"name":  customer.Name,
		"email": customer.Email,
	})
	return customer.ID, nil
}
