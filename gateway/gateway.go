package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/example/shopstore/pkg/config"
	"github.com/example/shopstore/pkg/models"
	"github.com/example/shopstore/pkg/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, in service.CreateProductInput) (int64, error)
}

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, in service.CreateCustomerInput) (int64, error)
}

type OrderService interface {
	ListCustomerOrders(ctx context.Context, customerID int64) ([]models.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItemDetail, error)
}

type BillingService interface {
	GetBill(ctx context.Context, orderID int64) (*models.Bill, error)
}

// OrderPlacer places orders; in production this is the actor dispatcher.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in service.PlaceOrderInput) (*service.PlacedOrder, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Catalog   CatalogService
	Customers CustomerService
	Orders    OrderService
	Billing   BillingService
	Placer    OrderPlacer
}

type Gateway struct {
	config   *config.GatewayConfig
	services Services
	db       Pinger
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

func NewGateway(cfg *config.GatewayConfig, log *zap.Logger, db Pinger, services Services) *Gateway {
	router := gin.New()
	router.Use(requestIDMiddleware(log))
	router.Use(recoveryMiddleware())
	router.Use(loggerMiddleware())

	return &Gateway{
		config:   cfg,
		services: services,
		db:       db,
		logger:   log,
		router:   router,
	}
}

func (g *Gateway) SetupRoutes() {
	g.router.GET("/health", g.health)

	api := g.router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", g.listProducts)
			products.POST("", g.createProduct)
			products.GET("/:id", g.getProduct)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", g.listCustomers)
			customers.POST("", g.createCustomer)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", g.placeOrder)
			// the bare id is a customer id; the nested routes take an order id
			orders.GET("/:id", g.listCustomerOrders)
			orders.GET("/:id/items", g.listOrderItems)
			orders.GET("/:id/bill", g.getBill)
		}
	}

	if g.config.Swagger {
		g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Start serves until Shutdown is called, in which case it returns nil.
func (g *Gateway) Start() error {
	addr := g.config.Addr()
	g.server = &http.Server{
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.logger.Info("Gateway starting", zap.String("address", addr))
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

func (g *Gateway) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := g.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
