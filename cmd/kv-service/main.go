/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command kv-service is the gRPC front door onto the namespaced key/value
// store of spec.md §4.4, backed by Cassandra with a Redis-cached
// namespace index.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/actiasdev/actias/pkg/config"
	"github.com/actiasdev/actias/pkg/kvservice"
	"github.com/actiasdev/actias/pkg/kvservice/proto"
	"github.com/actiasdev/actias/pkg/logging"
	"github.com/actiasdev/actias/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.KVService
	if err := config.Load("KV_SERVICE", &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New("kv-service", logging.Options{Development: cfg.LogDevelopment, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := kvservice.NewStore(cfg.CassandraHosts, cfg.CassandraKeyspace, "", "")
	if err != nil {
		return fmt.Errorf("connect to cassandra: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	cache := kvservice.NewNamespaceCache(rdb, cfg.CompactionInterval, log)
	defer cache.Stop()

	svc := kvservice.NewService(store, cache, log)
	srv := kvservice.NewServer(svc)

	srvMetrics := grpcprom.NewServerMetrics()
	metrics.Registry().MustRegister(srvMetrics)

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(srvMetrics.UnaryServerInterceptor()),
	)
	proto.RegisterKVServiceServer(grpcSrv, srv)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsMux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	errCh := make(chan error, 2)
	go func() {
		log.Info("listening", "addr", cfg.GRPCAddr)
		errCh <- grpcSrv.Serve(lis)
	}()
	go func() {
		log.Info("serving metrics", "addr", cfg.MetricsAddr)
		errCh <- metricsSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error(err, "server exited")
		}
	}

	grpcSrv.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	return nil
}
