package application

import (
	"context"
	"fmt"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/clients"
	"github.com/Inkwell-Network/inkwell/internal/config"
	"github.com/Inkwell-Network/inkwell/internal/health"
	"github.com/Inkwell-Network/inkwell/internal/logger"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"github.com/Inkwell-Network/inkwell/internal/recovery"
	"github.com/Inkwell-Network/inkwell/internal/web"
	"github.com/Inkwell-Network/inkwell/internal/workers"
)

// NodeBuilder assembles a Node step by step so each dependency is
// constructed exactly once and in order.
type NodeBuilder struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config

	networks      []chains.Network
	rpcClient     *clients.RPCClient
	explorer      *clients.ExplorerClient
	workerPool    *workers.WorkerPool
	engine        *recovery.Engine
	healthChecker *health.HealthChecker
	webServer     *web.Server
	metricsServer *metrics.Server
}

// NewNodeBuilder constructs a builder bound to the given context and config.
func NewNodeBuilder(ctx context.Context, cfg *config.Config) *NodeBuilder {
	nodeCtx, cancel := context.WithCancel(ctx)
	return &NodeBuilder{
		ctx:    nodeCtx,
		cancel: cancel,
		cfg:    cfg,
	}
}

// BuildNetworks resolves the chain list from configuration.
func (b *NodeBuilder) BuildNetworks() error {
	b.networks = b.cfg.ChainList()
	if len(b.networks) == 0 {
		return fmt.Errorf("no networks available")
	}
	return nil
}

// BuildClients constructs the outbound RPC and explorer clients.
func (b *NodeBuilder) BuildClients() {
	b.rpcClient = clients.NewRPCClient(b.cfg.RPC.RequestTimeout)
	b.explorer = clients.NewExplorerClient(
		b.cfg.Explorer.RequestTimeout,
		b.cfg.Explorer.RequestsPerSecond,
		b.cfg.Explorer.APIKey,
	)
}

// BuildWorkers constructs the crypto worker pool.
func (b *NodeBuilder) BuildWorkers() {
	b.workerPool = workers.NewWorkerPool(b.cfg.HTTP.Workers, b.cfg.HTTP.WorkerQueueSize)
}

// BuildEngine constructs the recovery engine over the clients.
func (b *NodeBuilder) BuildEngine() {
	b.engine = recovery.NewEngine(b.rpcClient, b.explorer, b.explorer, b.networks)
}

// BuildHealth constructs the health checker.
func (b *NodeBuilder) BuildHealth() {
	b.healthChecker = health.NewHealthChecker(b.networks, b.cfg, logger.New("health"), config.Version)
}

// BuildServers constructs the API and metrics HTTP servers.
func (b *NodeBuilder) BuildServers() {
	handler := web.NewHandler(b.engine, b.workerPool, logger.New("api"))
	b.webServer = web.NewServer(b.cfg.HTTP, handler, b.healthChecker, logger.New("api"))
	if b.cfg.Metrics.Enabled {
		b.metricsServer = metrics.NewServer(b.cfg.Metrics.Port)
	}
}

// Build assembles the final Node.
func (b *NodeBuilder) Build() (*Node, error) {
	if b.engine == nil || b.webServer == nil || b.workerPool == nil {
		return nil, fmt.Errorf("builder is incomplete, missing components")
	}
	return &Node{
		ctx:           b.ctx,
		cancel:        b.cancel,
		config:        b.cfg,
		Networks:      b.networks,
		Engine:        b.engine,
		WorkerPool:    b.workerPool,
		webServer:     b.webServer,
		metricsServer: b.metricsServer,
	}, nil
}
