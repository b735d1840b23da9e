package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters and histograms for the message-protocol core. Registered once via
// promauto at package load; RegisterMetrics exists so callers can force the
// package init from main without referencing a metric directly.
var (
	MessagesEncoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_messages_encoded_total",
		Help: "Number of messages encoded into calldata",
	})
	MessagesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_messages_decoded_total",
		Help: "Number of calldata payloads decoded back to text",
	})
	EncryptionOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_encryption_operations_total",
		Help: "Envelope encrypt/decrypt operations by mode and outcome",
	}, []string{"mode", "operation", "outcome"})
	KeyRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_key_recoveries_total",
		Help: "Public key recovery attempts by outcome",
	}, []string{"outcome"})
	RecoveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inkwell_key_recovery_duration_seconds",
		Help:    "Wall time of a full public key recovery attempt",
		Buckets: prometheus.DefBuckets,
	})
	ExplorerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_explorer_requests_total",
		Help: "Block explorer API requests by action and outcome",
	}, []string{"action", "outcome"})
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_rpc_requests_total",
		Help: "JSON-RPC requests by method and outcome",
	}, []string{"method", "outcome"})
	TemplatesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_templates_rendered_total",
		Help: "Message templates rendered",
	})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_errors_total",
		Help: "Application errors by type and code",
	}, []string{"type", "code"})
)

// RegisterMetrics forces metric registration from main.
func RegisterMetrics() {}

// IncrementErrors records an application error occurrence.
func IncrementErrors(errType, code string) {
	Errors.WithLabelValues(errType, code).Inc()
}

// ObserveEnvelopeOp records one envelope encrypt or decrypt attempt.
func ObserveEnvelopeOp(mode, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	EncryptionOps.WithLabelValues(mode, operation, outcome).Inc()
}

// ObserveRecovery records one recovery attempt with its duration.
func ObserveRecovery(outcome string, start time.Time) {
	KeyRecoveries.WithLabelValues(outcome).Inc()
	RecoveryDuration.Observe(time.Since(start).Seconds())
}

// Server exposes the Prometheus scrape endpoint.
type Server struct {
	srv *http.Server
}

// NewServer builds a metrics server on the given port.
func NewServer(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the metrics server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
