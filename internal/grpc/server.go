package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health/grpc_health_v1"

	"dbfrontend/internal/auth"
	"dbfrontend/internal/config"
	"dbfrontend/repository"
)

// NewServer builds a gRPC server exposing the user service and grpc.health.v1.
// Every method except health Check requires a Bearer JWT signed with jwtSecret.
func NewServer(cfg *config.GRPCConfig, users repository.UserStore, health repository.HealthChecker, jwtSecret string, logger *slog.Logger) (*grpc.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []grpc.ServerOption{
		grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(jwtSecret, healthCheckMethod)),
	}
	if cfg != nil && (cfg.TLSCert != "" || cfg.TLSKey != "") {
		if cfg.TLSCert == "" || cfg.TLSKey == "" {
			return nil, errors.New("both tls_cert and tls_key must be set")
		}
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return nil, fmt.Errorf("load tls: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	srv := grpc.NewServer(opts...)
	RegisterUserServiceServer(srv, &UserServer{Users: users, Logger: logger})
	grpc_health_v1.RegisterHealthServer(srv, &HealthServer{Checker: health, Logger: logger})
	return srv, nil
}

// StartGRPC starts the gRPC server on cfg.GRPC.Address and returns a shutdown function.
func StartGRPC(cfg *config.Config, users repository.UserStore, health repository.HealthChecker, jwtSecret string, logger *slog.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	srv, err := NewServer(&cfg.GRPC, users, health, jwtSecret, logger)
	if err != nil {
		return nil, err
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("grpc serve", "error", err)
		}
	}()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
