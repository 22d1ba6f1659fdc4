package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dbfrontend/internal/config"
	grpcserver "dbfrontend/internal/grpc"
	"dbfrontend/internal/logging"
	"dbfrontend/repository"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	initSchema := flag.Bool("init-schema", false, "create the users table if missing")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)
	logger.Info("configuration loaded", "config", cfg.String())

	// Open DB
	frontend, err := repository.NewFrontend(&cfg.Database, secrets.DBUser, secrets.DBPassword, repository.WithLogger(logger))
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := frontend.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}()

	if *initSchema {
		if err := frontend.InitSchema(context.Background()); err != nil {
			logger.Error("init schema", "error", err)
			os.Exit(1)
		}
		logger.Info("schema ready")
	}

	// Start gRPC
	shutdown, err := grpcserver.StartGRPC(cfg, frontend, frontend, secrets.JWTSecret, logger)
	if err != nil {
		logger.Error("start grpc", "error", err)
		os.Exit(1)
	}
	logger.Info("gRPC server listening", "address", cfg.GRPC.Address, "tls", cfg.GRPC.TLSCert != "")

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
