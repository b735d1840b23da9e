package web

import (
	"context"
	"net/http"

	"github.com/Inkwell-Network/inkwell/internal/config"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/health"
	"go.uber.org/zap"
)

// Server is the API HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer wires the handler onto its routes with the standard middleware
// chain: panic recovery, body limits, security headers.
func NewServer(cfg config.HTTPConfig, handler *Handler, checker *health.HealthChecker, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	route := func(pattern string, fn errors.HandlerFunc) {
		mux.Handle(pattern, errors.WrapHandler(fn))
	}

	route("/api/v1/encode", handler.HandleEncode)
	route("/api/v1/decode", handler.HandleDecode)
	route("/api/v1/seal", handler.HandleSeal)
	route("/api/v1/open", handler.HandleOpen)
	route("/api/v1/recover/tx", handler.HandleRecoverTx)
	route("/api/v1/recover/address", handler.HandleRecoverAddress)
	route("/api/v1/locate", handler.HandleLocate)
	route("/api/v1/templates", handler.HandleTemplates)
	route("/api/v1/templates/render", handler.HandleTemplateRender)
	route("/api/v1/templates/extract", handler.HandleTemplateExtract)
	route("/api/v1/identity", handler.HandleIdentity)
	route("/api/v1/networks", handler.HandleNetworks)
	mux.HandleFunc("/health", checker.HandleHealth)

	var root http.Handler = mux
	root = SecurityMiddleware(APISecurityHeaders())(root)
	root = BodyLimitMiddleware(root)
	root = errors.RecoveryMiddleware(root)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      root,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger.Named("web"),
	}
}

// Start serves until the listener closes. It blocks.
func (s *Server) Start() error {
	s.logger.Info("API server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
