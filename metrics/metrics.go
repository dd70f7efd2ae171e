// Package metrics exposes Prometheus metrics for the registry API on a
// dedicated listener, separate from the serving port.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the /metrics endpoint and owns the registry the
// operation counters are registered on.
type MetricsServer struct {
	srv      *http.Server
	registry *prometheus.Registry

	// OperationsTotal counts registry operations by operation name and result.
	OperationsTotal *prometheus.CounterVec
}

// New creates a metrics server listening on addr. The namespace prefixes
// every metric this server owns.
func New(namespace, addr string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Registry operations by operation and result.",
	}, []string{"operation", "result"})

	for _, c := range []prometheus.Collector{
		operationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		srv:             &http.Server{Addr: addr, Handler: mux},
		registry:        registry,
		OperationsTotal: operationsTotal,
	}, nil
}

// ListenAndServe blocks serving the metrics endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}

// RecordOperation increments the operation counter. result is "ok" or the
// short name of the error kind.
func (m *MetricsServer) RecordOperation(operation, result string) {
	m.OperationsTotal.WithLabelValues(operation, result).Inc()
}
