package repository

import (
	"context"
	"errors"

	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/models"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	if err := r.db.WithContext(ctx).Order("customer_id").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("customer_id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Customer %d not found", id)
		}
		return nil, err
	}
	return &customer, nil
}

// Create inserts the customer. The unique index on email is the only
// duplicate check, so concurrent creates cannot both win.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	err := r.db.WithContext(ctx).Create(customer).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrDuplicateEmail
	}
	return err
}
