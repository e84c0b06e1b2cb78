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

// Command worker is the request-terminating front door of spec.md §4.1:
// it resolves a public identifier to a revision, builds a sandbox, and
// dispatches the fetch event.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/actiasdev/actias/pkg/config"
	"github.com/actiasdev/actias/pkg/kvservice"
	"github.com/actiasdev/actias/pkg/logging"
	"github.com/actiasdev/actias/pkg/metrics"
	"github.com/actiasdev/actias/pkg/scriptservice"
	"github.com/actiasdev/actias/pkg/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Worker
	if err := config.Load("WORKER", &cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New("worker", logging.Options{Development: cfg.LogDevelopment, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	clientMetrics := grpcprom.NewClientMetrics()
	metrics.Registry().MustRegister(clientMetrics)

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             10 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithConnectParams(grpc.ConnectParams{MinConnectTimeout: 5 * time.Second}),
		grpc.WithChainUnaryInterceptor(clientMetrics.UnaryClientInterceptor()),
	}

	scriptClient, scriptConn, err := scriptservice.DialClient(cfg.ScriptServiceAddr, dialOpts...)
	if err != nil {
		return fmt.Errorf("dial script service: %w", err)
	}
	defer scriptConn.Close()

	kvClient, kvConn, err := kvservice.DialClient(cfg.KVServiceAddr, dialOpts...)
	if err != nil {
		return fmt.Errorf("dial kv service: %w", err)
	}
	defer kvConn.Close()

	httpClient := buildEgressClient()

	w := worker.New(worker.Config{
		ScriptClient:        scriptClient,
		KVBackend:           worker.NewKVBackendFactory(kvClient),
		HTTPClient:          httpClient,
		Log:                 log,
		BundleEvalTimeLimit: cfg.BundleEvalTimeLimit,
		DefaultTimeLimit:    cfg.DefaultTimeLimit,
		MemoryCapBytes:      cfg.MemoryCapBytes,
	})

	mux := http.NewServeMux()
	mux.Handle("/", w)
	publicSrv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsMux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr)
		errCh <- publicSrv.ListenAndServe()
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = publicSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	return nil
}

// buildEgressClient is the shared http.Client used for http.make_request
// (SPEC_FULL.md §4.1); it is never used for the inbound listener.
func buildEgressClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: 30 * time.Second}
}
