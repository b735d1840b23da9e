package errors

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/logger"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// HandlerFunc is an HTTP handler that may return an error
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handler wraps HandlerFunc with automatic error handling
type Handler struct {
	handlerFunc HandlerFunc
	logger      *zap.Logger
}

// WrapHandler wraps an error-returning handler into an http.Handler
func WrapHandler(handlerFunc HandlerFunc) http.Handler {
	return &Handler{
		handlerFunc: handlerFunc,
		logger:      logger.New("http_errors"),
	}
}

// ServeHTTP implements the http.Handler interface
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()
	ctx := context.WithValue(r.Context(), requestIDKey, requestID)
	r = r.WithContext(ctx)
	w.Header().Set("X-Request-ID", requestID)

	if err := h.handlerFunc(w, r); err != nil {
		h.handleError(w, r, err)
	}
}

// ErrorResponse is the JSON body sent for failed requests
type ErrorResponse struct {
	Error struct {
		Type        ErrorType `json:"type"`
		Code        string    `json:"code"`
		Message     string    `json:"message"`
		UserMessage string    `json:"user_message,omitempty"`
		Retryable   bool      `json:"retryable"`
		Timestamp   time.Time `json:"timestamp"`
		RequestID   string    `json:"request_id,omitempty"`
	} `json:"error"`
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError("An internal error occurred", err)
	}
	if requestID := RequestIDFromContext(r.Context()); requestID != "" {
		appErr.RequestID = requestID
	}

	fields := []zap.Field{
		zap.String("error_type", string(appErr.Type)),
		zap.String("error_code", appErr.Code),
		zap.String("severity", string(appErr.Severity)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", appErr.RequestID),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.Error(appErr.Cause))
	}
	switch appErr.Severity {
	case SeverityCritical, SeverityHigh:
		h.logger.Error(appErr.Message, fields...)
	case SeverityMedium:
		h.logger.Warn(appErr.Message, fields...)
	default:
		h.logger.Debug(appErr.Message, fields...)
	}

	metrics.IncrementErrors(string(appErr.Type), appErr.Code)

	var resp ErrorResponse
	resp.Error.Type = appErr.Type
	resp.Error.Code = appErr.Code
	resp.Error.Message = appErr.Message
	resp.Error.UserMessage = appErr.UserMessage
	resp.Error.Retryable = Retryable(appErr)
	resp.Error.Timestamp = appErr.Timestamp
	resp.Error.RequestID = appErr.RequestID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(appErr))
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		h.logger.Error("Failed to encode error response", zap.Error(encodeErr))
	}
}

// httpStatus maps an application error onto an HTTP status code
func httpStatus(err *AppError) int {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeCodec:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeCrypto, ErrorTypeRecovery:
		return http.StatusUnprocessableEntity
	case ErrorTypeNetwork:
		return http.StatusBadGateway
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RecoveryMiddleware recovers from handler panics and reports them as
// internal errors instead of killing the connection
func RecoveryMiddleware(next http.Handler) http.Handler {
	log := logger.New("http_recovery")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Panic in HTTP handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"type":"internal","code":"PANIC","message":"An internal error occurred"}}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestIDFromContext returns the request ID stored by the error handler
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(buf)
}
