package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/example/shopstore/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Audit actions written by the services.
const (
	ActionCreateProduct  = "create_product"
	ActionCreateCustomer = "create_customer"
	ActionCreateOrder    = "create_order"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	ID         string    `bson:"_id,omitempty"`
	Service    string    `bson:"service"`
	Action     string    `bson:"action"`
	EntityType string    `bson:"entity_type"`
	EntityID   int64     `bson:"entity_id"`
	Data       bson.M    `bson:"data"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (m *MongoRepository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	collection := m.database.Collection(m.config.Collection)
	log.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, log)
	return err
}
