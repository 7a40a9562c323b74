package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/shopstore/gateway"
	"github.com/example/shopstore/pkg/actors"
	"github.com/example/shopstore/pkg/config"
	"github.com/example/shopstore/pkg/discovery"
	"github.com/example/shopstore/pkg/grpc"
	"github.com/example/shopstore/pkg/logger"
	"github.com/example/shopstore/pkg/repository"
	"github.com/example/shopstore/pkg/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting shop store",
		zap.String("driver", cfg.Database.Driver),
		zap.String("address", cfg.Gateway.Addr()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	opts := []service.Option{service.WithLogger(log)}

	if cfg.Redis.Enabled {
		redisRepo := repository.NewRedisRepository(&cfg.Redis)
		defer redisRepo.Close()
		if err := redisRepo.Ping(ctx); err != nil {
			log.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		} else {
			log.Info("Redis connected successfully")
			opts = append(opts, service.WithCache(redisRepo))
		}
	}

	if cfg.MongoDB.Enabled {
		mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.ConnectTimeout)
			err = mongoRepo.Ping(pingCtx)
			cancel()
			if err != nil {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				_ = mongoRepo.Close(closeCtx)
				cancel()
			}
		}
		if err != nil {
			log.Warn("MongoDB connection failed, continuing without audit log", zap.Error(err))
		} else {
			log.Info("MongoDB connected successfully")
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = mongoRepo.Close(closeCtx)
			}()

			auditor, err := actors.NewAuditor(mongoRepo, cfg.MongoDB.ConnectTimeout, log)
			if err != nil {
				log.Fatal("Failed to start audit actor", zap.Error(err))
			}
			defer auditor.Stop()
			opts = append(opts, service.WithAuditLogger(auditor))
		}
	}

	catalog := service.NewCatalogService(db, opts...)
	orders := service.NewOrderService(db, service.OrderPolicy{
		AllowOversell: cfg.Order.AllowOversell,
		AllowEmpty:    cfg.Order.AllowEmpty,
	}, opts...)

	dispatcher, err := actors.NewDispatcher(orders, cfg.Order.RequestTimeout, log)
	if err != nil {
		log.Fatal("Failed to start order actors", zap.Error(err))
	}
	defer dispatcher.Stop()

	gin.SetMode(gin.ReleaseMode)
	gw := gateway.NewGateway(&cfg.Gateway, log.Named("gateway"), db, gateway.Services{
		Catalog:   catalog,
		Customers: service.NewCustomerService(db, opts...),
		Orders:    orders,
		Billing:   service.NewBillingService(db, opts...),
		Placer:    dispatcher,
	})
	gw.SetupRoutes()

	serverErr := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			serverErr <- fmt.Errorf("gateway: %w", err)
		}
	}()

	var health *grpc.HealthServer
	if cfg.Server.Enabled {
		health = grpc.NewHealthServer(cfg.Server.Name, db, log.Named("grpc"))
		go func() {
			if err := health.Start(cfg.Server.Addr()); err != nil {
				serverErr <- fmt.Errorf("grpc: %w", err)
			}
		}()
		go health.Watch(ctx, 15*time.Second)
	}

	// Register in etcd
	var sd *discovery.ServiceDiscovery
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if cfg.Etcd.Enabled && cfg.Server.Enabled {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd)
		if err != nil {
			log.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else if err := sd.Register(ctx, instance); err != nil {
			log.Warn("Failed to register service", zap.Error(err))
		} else {
			log.Info("Service registered in etcd",
				zap.String("name", instance.Name),
				zap.String("address", instance.Addr()))
		}
	}

	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	case err := <-serverErr:
		log.Error("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.ShutdownTimeout)
	defer cancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			log.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}

	if err := gw.Shutdown(shutdownCtx); err != nil {
		log.Error("Gateway shutdown failed", zap.Error(err))
	}
	if health != nil {
		health.Stop()
	}

	log.Info("Shop store stopped")
}
