package service

import (
	"context"
	"strings"

	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/models"
	"github.com/example/shopstore/pkg/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type CatalogService struct {
	deps
	db *repository.Database
}

func NewCatalogService(db *repository.Database, opts ...Option) *CatalogService {
	return &CatalogService{deps: newDeps(opts), db: db}
}

// CreateProductInput carries a new product. Price and QuantityAvailable are
// pointers so that an absent value can be told apart from zero.
type CreateProductInput struct {
	Name              string
	Description       string
	Price             *decimal.Decimal
	QuantityAvailable *int
	ImageURL          string
}

func (in CreateProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperror.Validation("product_name is required")
	case in.Price == nil:
		return apperror.Validation("price is required")
	case in.Price.IsNegative():
		return apperror.Validation("price must not be negative")
	case in.QuantityAvailable == nil:
		return apperror.Validation("quantity_available is required")
	case *in.QuantityAvailable < 0:
		return apperror.Validation("quantity_available must not be negative")
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return repository.NewProductRepository(s.db.DB).FindAll(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProductCache(ctx, id); err == nil {
			return cached, nil
		}
	}

	product, err := repository.NewProductRepository(s.db.DB).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheProduct(ctx, product); err != nil {
			s.logger.Warn("Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	product := &models.Product{
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Price:             in.Price.Round(2),
		QuantityAvailable: *in.QuantityAvailable,
		ImageURL:          in.ImageURL,
	}
	if err := repository.NewProductRepository(s.db.DB).Create(ctx, product); err != nil {
		return 0, apperror.Write("failed to create product", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	s.record(ctx, repository.ActionCreateProduct, "product", product.ID, bson.M{
		"name":               product.Name,
		"price":              product.Price.String(),
		"quantity_available": product.QuantityAvailable,
	})
	return product.ID, nil
}

func sampleProducts() []models.Product {
	product := func(name, description, price string, qty int, image string) models.Product {
		return models.Product{
			Name:              name,
			Description:       description,
			Price:             decimal.RequireFromString(price),
			QuantityAvailable: qty,
			ImageURL:          image,
		}
	}
	return []models.Product{
		product("Laptop", "High-performance laptop for gaming and work", "999.99", 10, "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400&h=400&fit=crop"),
		product("Mouse", "Wireless optical mouse", "29.99", 50, "https://images.unsplash.com/photo-1527814050087-3793815479db?w=400&h=400&fit=crop"),
		product("Keyboard", "Mechanical gaming keyboard", "149.99", 30, "https://images.unsplash.com/photo-1587829191301-46f5d47e5e33?w=400&h=400&fit=crop"),
		product("Monitor", "27-inch 4K monitor", "399.99", 15, "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400&h=400&fit=crop"),
		product("Headphones", "Noise-canceling headphones", "199.99", 25, "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400&h=400&fit=crop"),
		product("USB-C Cable", "Fast charging USB-C cable", "19.99", 100, "https://images.unsplash.com/photo-1609034227505-5876f6aa4e90?w=400&h=400&fit=crop"),
		product("Webcam", "1080p HD webcam", "89.99", 20, "https://images.unsplash.com/photo-1598327105666-5b89351aff97?w=400&h=400&fit=crop"),
		product("Phone Stand", "Adjustable phone stand", "24.99", 40, "https://images.unsplash.com/photo-1527814050087-3793815479db?w=400&h=400&fit=crop"),
	}
}

// SeedSampleProducts fills an empty catalog with the demo products and
// reports how many were inserted. A catalog that already has rows is left alone.
func (s *CatalogService) SeedSampleProducts(ctx context.Context) (int, error) {
	repo := repository.NewProductRepository(s.db.DB)
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	products := sampleProducts()
	if err := repo.CreateBatch(ctx, products); err != nil {
		return 0, apperror.Write("failed to seed products", err)
	}
	return len(products), nil
}
