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

// Package metrics holds the prometheus instrumentation shared across the
// worker, script service and KV service binaries.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	// RequestsTotal counts worker HTTP requests by public identifier and
	// resulting status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actias",
			Subsystem: "worker",
			Name:      "requests_total",
			Help:      "Total number of requests routed to a script.",
		},
		[]string{"public_identifier", "status"},
	)

	// RequestDuration tracks end-to-end request latency including sandbox
	// construction and teardown.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "actias",
			Subsystem: "worker",
			Name:      "request_duration_seconds",
			Help:      "Latency of a request dispatched through a sandbox.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"public_identifier"},
	)

	// SandboxTimeouts counts wall-clock interrupts raised inside a sandbox.
	SandboxTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actias",
			Subsystem: "worker",
			Name:      "sandbox_timeouts_total",
			Help:      "Total number of requests aborted by the wall-clock governor.",
		},
		[]string{"public_identifier"},
	)

	// KVPagesServed counts ListPairs pages served by the KV service.
	KVPagesServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actias",
			Subsystem: "kv_service",
			Name:      "list_pages_served_total",
			Help:      "Total number of ListPairs pages served.",
		},
		[]string{"project_id"},
	)

	// NamespaceCompactions counts the background sweeps of empty namespaces.
	NamespaceCompactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actias",
			Subsystem: "kv_service",
			Name:      "namespace_compactions_total",
			Help:      "Total number of namespaces removed from the listing cache by the compaction sweep.",
		},
		[]string{"project_id"},
	)

	// RevisionsPublished counts successful CreateRevision calls.
	RevisionsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "actias",
			Subsystem: "script_service",
			Name:      "revisions_published_total",
			Help:      "Total number of revisions published.",
		},
		[]string{"script_id"},
	)
)

func init() {
	registry.MustRegister(RequestsTotal, RequestDuration, SandboxTimeouts, KVPagesServed, NamespaceCompactions, RevisionsPublished)
}

// Handler serves the prometheus exposition format for this process's registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, e.g. for a gRPC interceptor
// metrics provider that needs to register its own collectors.
func Registry() *prometheus.Registry {
	return registry
}
