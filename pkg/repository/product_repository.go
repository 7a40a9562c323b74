package repository

import (
	"context"
	"errors"

	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository binds the repository to db, which may be a transaction.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("product_id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("product_id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Product not found")
		}
		return nil, err
	}
	return &product, nil
}

// FindForUpdate loads the given products and locks their rows until the
// surrounding transaction ends. Ids that do not exist are absent from the map.
func (r *ProductRepository) FindForUpdate(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	found := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// DecrementStock subtracts qty from the product's available quantity. Unless
// allowNegative is set the update only applies while enough stock remains,
// and ErrInsufficientStock is returned otherwise.
func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, qty int, allowNegative bool) error {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("product_id = ?", id)
	if !allowNegative {
		query = query.Where("quantity_available >= ?", qty)
	}

	result := query.UpdateColumn("quantity_available", gorm.Expr("quantity_available - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if allowNegative {
			return apperror.NotFound("Product %d not found", id)
		}
		return apperror.InsufficientStock("Insufficient stock for product %d", id)
	}
	return nil
}
