// depotview gRPC Server
// Parses revision specifiers and projects Perforce tagged output
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/nainya/depotview/internal/config"
	"github.com/nainya/depotview/internal/logger"
	"github.com/nainya/depotview/internal/metrics"
	"github.com/nainya/depotview/internal/server"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "depotviewd: %v\n", err)
		os.Exit(2)
	}

	logger.InitGlobalLogger(logger.Config{
		Level:      cfg.Log.Level,
		Pretty:     cfg.Log.Pretty,
		WithCaller: cfg.Log.Caller,
	})
	log := logger.GetGlobalLogger()
	log.LogServerStart(cfg.Server.Port, flags.ConfigPath())

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	done := make(chan struct{})
	go m.RunUptime(done)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		log.Fatal("Failed to listen").Err(err).Int("port", cfg.Server.Port).Send()
	}

	// Create gRPC server with options
	maxMsg := cfg.Server.MaxRecvMsgMiB << 20
	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(maxMsg),
		grpc.MaxSendMsgSize(maxMsg),
		grpc.UnaryInterceptor(server.GrpcMetricsInterceptor(m, log)),
	)

	// Register service
	server.RegisterDepotViewServer(grpcServer, server.NewServer(log, m))

	// Reflection lists the service for grpcurl; describe needs a registered proto file
	if cfg.Server.Reflection {
		reflection.Register(grpcServer)
	}

	var obs *server.ObservabilityServer
	if cfg.Server.MetricsPort > 0 {
		obs = server.NewObservabilityServer(cfg.Server.MetricsPort, prometheus.DefaultGatherer, log)
		go func() {
			if err := obs.Start(); err != nil {
				log.Error("Observability server stopped").Err(err).Send()
			}
		}()
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.LogServerShutdown()
		close(done)
		if obs != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := obs.Shutdown(ctx); err != nil {
				log.Warn("Observability shutdown failed").Err(err).Send()
			}
		}
		grpcServer.GracefulStop()
	}()

	if obs != nil {
		obs.SetReady(true)
	}
	log.LogServerReady(cfg.Server.Port)
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatal("Failed to serve").Err(err).Send()
	}
}
