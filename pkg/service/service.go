// Package service implements the store's catalog, customer, order and billing
// operations on top of the repositories.
package service

import (
	"context"
	"time"

	"github.com/example/shopstore/pkg/models"
	"github.com/example/shopstore/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	serviceName  = "shopstore"
	auditTimeout = 2 * time.Second
	cacheTimeout = time.Second
)

// Cache is the read-through cache consulted by the services. Any error from a
// Get method is treated as a miss.
type Cache interface {
	GetProductCache(ctx context.Context, id int64) (*models.Product, error)
	CacheProduct(ctx context.Context, product *models.Product) error
	InvalidateProducts(ctx context.Context, ids ...int64) error
	GetBillCache(ctx context.Context, orderID int64) (*models.Bill, error)
	CacheBill(ctx context.Context, bill *models.Bill) error
}

type AuditLogger interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

type deps struct {
	cache  Cache
	audit  AuditLogger
	logger *zap.Logger
}

type Option func(*deps)

func WithCache(cache Cache) Option {
	return func(d *deps) { d.cache = cache }
}

func WithAuditLogger(audit AuditLogger) Option {
	return func(d *deps) { d.audit = audit }
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *deps) { d.logger = logger }
}

func newDeps(opts []Option) deps {
	d := deps{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// record writes an audit entry. Audit failures are logged, never returned:
// the audited write has already been committed.
func (d *deps) record(ctx context.Context, action, entityType string, entityID int64, data bson.M) {
	if d.audit == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	err := d.audit.CreateAuditLog(ctx, &repository.AuditLog{
		Service:    serviceName,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Data:       data,
	})
	if err != nil {
		d.logger.Warn("Failed to write audit log",
			zap.String("action", action),
			zap.Int64("entity_id", entityID),
			zap.Error(err))
	}
}
