package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/example/shopstore/pkg/config"
	"github.com/example/shopstore/pkg/discovery"
	"github.com/example/shopstore/pkg/grpc"
	"github.com/example/shopstore/pkg/logger"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	addr := flag.String("addr", "", "health service address; defaults to server.host:server.port")
	asJSON := flag.Bool("json", false, "print the health response as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	fallback := *addr
	if fallback == "" {
		fallback = cfg.Server.Addr()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var disc grpc.Discoverer
	if cfg.Etcd.Enabled {
		sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
		if err != nil {
			log.Warn("Failed to connect to etcd", zap.Error(err))
		} else {
			defer sd.Close()
			disc = sd
		}
	}

	target := grpc.ResolveTarget(ctx, disc, cfg.Server.Name, fallback, log)
	client, err := grpc.NewHealthClient(target)
	if err != nil {
		log.Fatal("Failed to create health client", zap.Error(err))
	}
	defer client.Close()

	resp, err := client.Check(ctx, cfg.Server.Name)
	if err != nil {
		log.Error("Health check failed", zap.Error(err))
		os.Exit(1)
	}

	if *asJSON {
		fmt.Println(protojson.Format(resp))
	}
	log.Info("Health check", zap.String("target", target), zap.String("status", resp.GetStatus().String()))
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		os.Exit(1)
	}
}
