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

// Package config defines the twelve-factor environment configuration for
// every actias binary, loaded with envconfig and an optional .env file for
// local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads a .env file (if present, silently ignored otherwise) and then
// populates cfg from the environment under the given prefix.
func Load(prefix string, cfg any) error {
	if path := os.Getenv("ACTIAS_DOTENV"); path != "" {
		_ = godotenv.Load(path)
	} else {
		_ = godotenv.Load()
	}
	return envconfig.Process(prefix, cfg)
}

// Worker is cmd/worker's configuration.
type Worker struct {
	ListenAddr          string        `envconfig:"LISTEN_ADDR" default:":8080"`
	MetricsAddr         string        `envconfig:"METRICS_ADDR" default:":9090"`
	ScriptServiceAddr   string        `envconfig:"SCRIPT_SERVICE_ADDR" required:"true"`
	KVServiceAddr       string        `envconfig:"KV_SERVICE_ADDR" required:"true"`
	DefaultTimeLimit    time.Duration `envconfig:"DEFAULT_TIME_LIMIT" default:"30s"`
	BundleEvalTimeLimit time.Duration `envconfig:"BUNDLE_EVAL_TIME_LIMIT" default:"1s"`
	MemoryCapBytes      int64         `envconfig:"MEMORY_CAP_BYTES" default:"134217728"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment      bool          `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// ScriptService is cmd/script-service's configuration.
type ScriptService struct {
	GRPCAddr    string `envconfig:"GRPC_ADDR" default:":9000"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9091"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`
	// RedisAddr backs the optional live-script/session overlay
	// (SPEC_FULL.md §3 supplement); it is never required by the rest of
	// the service.
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// KVService is cmd/kv-service's configuration.
type KVService struct {
	GRPCAddr           string        `envconfig:"GRPC_ADDR" default:":9001"`
	MetricsAddr        string        `envconfig:"METRICS_ADDR" default:":9092"`
	CassandraHosts     []string      `envconfig:"CASSANDRA_HOSTS" required:"true"`
	CassandraKeyspace  string        `envconfig:"CASSANDRA_KEYSPACE" default:"actias_kv"`
	RedisAddr          string        `envconfig:"REDIS_ADDR" required:"true"`
	CompactionInterval time.Duration `envconfig:"COMPACTION_INTERVAL" default:"30s"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment     bool          `envconfig:"LOG_DEVELOPMENT" default:"false"`
}
