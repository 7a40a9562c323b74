package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/shopstore/pkg/config"
	"github.com/example/shopstore/pkg/models"
	"github.com/go-redis/redis/v8"
)

// Bills never change once written, so they may outlive product entries.
const billTTL = 10 * time.Minute

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON decodes the value at key into dest. A missing key yields redis.Nil.
func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) productKey(id int64) string {
	return fmt.Sprintf("%s:product:%d", r.config.Prefix, id)
}

func (r *RedisRepository) billKey(orderID int64) string {
	return fmt.Sprintf("%s:bill:%d", r.config.Prefix, orderID)
}

func (r *RedisRepository) CacheProduct(ctx context.Context, product *models.Product) error {
	return r.SetJSON(ctx, r.productKey(product.ID), product, r.config.TTL)
}

func (r *RedisRepository) GetProductCache(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.GetJSON(ctx, r.productKey(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RedisRepository) InvalidateProducts(ctx context.Context, ids ...int64) error {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}
	return r.Del(ctx, keys...)
}

func (r *RedisRepository) CacheBill(ctx context.Context, bill *models.Bill) error {
	return r.SetJSON(ctx, r.billKey(bill.OrderID), bill, billTTL)
}

func (r *RedisRepository) GetBillCache(ctx context.Context, orderID int64) (*models.Bill, error) {
	var bill models.Bill
	if err := r.GetJSON(ctx, r.billKey(orderID), &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}
