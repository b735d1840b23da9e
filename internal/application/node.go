// Package application wires configuration, clients, the recovery engine,
// and the HTTP surfaces into a runnable node.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/config"
	"github.com/Inkwell-Network/inkwell/internal/logger"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"github.com/Inkwell-Network/inkwell/internal/recovery"
	"github.com/Inkwell-Network/inkwell/internal/web"
	"github.com/Inkwell-Network/inkwell/internal/workers"
	"go.uber.org/zap"
)

// Node ties together the components needed to run the Inkwell service.
type Node struct {
	ctx    context.Context
	cancel context.CancelFunc

	config     *config.Config
	Networks   []chains.Network
	Engine     *recovery.Engine
	WorkerPool *workers.WorkerPool

	webServer     *web.Server
	metricsServer *metrics.Server
}

// New creates and configures a Node using the NodeBuilder pattern.
func New(ctx context.Context, cfg *config.Config) (*Node, error) {
	builder := NewNodeBuilder(ctx, cfg)

	if err := builder.BuildNetworks(); err != nil {
		return nil, fmt.Errorf("failed building networks: %w", err)
	}
	builder.BuildClients()
	builder.BuildWorkers()
	builder.BuildEngine()
	builder.BuildHealth()
	builder.BuildServers()

	node, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build node: %w", err)
	}
	return node, nil
}

// Start begins serving. The API server runs until the node context is
// cancelled.
func (n *Node) Start(ctx context.Context) error {
	if n.metricsServer != nil {
		go func() {
			if err := n.metricsServer.Start(); err != nil {
				logger.Error("Metrics server error", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := n.webServer.Start(); err != nil {
			logger.Error("API server error", zap.Error(err))
		}
	}()

	logger.Info("Node started",
		zap.String("listen_addr", n.config.HTTP.ListenAddr),
		zap.Int("networks", len(n.Networks)))
	return nil
}

// Shutdown gracefully shuts down the node.
func (n *Node) Shutdown() {
	logger.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), n.config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := n.webServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", zap.Error(err))
	}
	if n.metricsServer != nil {
		if err := n.metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	// Let in-flight crypto jobs finish before tearing the pool down.
	done := make(chan struct{})
	go func() {
		n.WorkerPool.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(n.config.HTTP.ShutdownTimeout):
		logger.Warn("Worker pool did not drain before timeout")
	}

	n.cancel()
	logger.Info("Shutdown complete")
}
