package response

import (
	"encoding/json"
	"net/http"

	"cleanearth/internal/contextutils"
	"cleanearth/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds configuration for the response writer
type Config struct {
	PrettyJSON         bool
	IncludeRequestID   bool
	MaskInternalErrors bool
}

// DefaultConfig returns production-ready response configuration
func DefaultConfig() *Config {
	return &Config{
		PrettyJSON:         false,
		IncludeRequestID:   true,
		MaskInternalErrors: true,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Error     string                `json:"error"`
	Type      string                `json:"type"`
	Code      string                `json:"code,omitempty"`
	Fields    []services.FieldError `json:"fields,omitempty"`
	RequestID string                `json:"request_id,omitempty"`
}

// Message is a body carrying only a message
type Message struct {
	Message string `json:"message"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes JSON success and error responses. Success bodies are the
// payload itself; errors use ErrorBody.
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{config: config, logger: logger}
}

// WriteJSON writes data as JSON with the given status code
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if statusCode >= http.StatusInternalServerError {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if b.config.PrettyJSON {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(data); err != nil {
		contextutils.GetLogger(r.Context(), b.logger).Error("Failed to encode JSON response", zap.Error(err))
	}
}

// WriteSuccess writes a 200 response
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, http.StatusOK, data)
}

// WriteCreated writes a 201 response
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.WriteJSON(w, r, http.StatusCreated, data)
}

// WriteMessage writes a 200 {message} response
func (b *Builder) WriteMessage(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteJSON(w, r, http.StatusOK, Message{Message: message})
}

// WriteError converts err into an ErrorBody with the matching status code
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	serviceErr := services.GetServiceError(err)
	if serviceErr == nil {
		serviceErr = services.NewInternalError("An unexpected error occurred")
	}

	body := b.errorBody(r, serviceErr)
	b.logError(r, serviceErr)
	b.WriteJSON(w, r, serviceErr.GetStatusCode(), body)
}

// ErrorBody builds the body WriteError would send for err
func (b *Builder) ErrorBody(r *http.Request, err error) *ErrorBody {
	return b.errorBody(r, services.GetServiceError(err))
}

func (b *Builder) errorBody(r *http.Request, serviceErr *services.ServiceError) *ErrorBody {
	body := &ErrorBody{
		Error:  serviceErr.Message,
		Type:   serviceErr.Type,
		Code:   serviceErr.Code,
		Fields: serviceErr.Fields,
	}
	if b.config.MaskInternalErrors && serviceErr.Type == services.ErrorTypeInternal {
		body.Error = "An internal error occurred"
		body.Code = ""
	}
	if b.config.IncludeRequestID {
		body.RequestID = contextutils.GetRequestID(r.Context())
	}
	return body
}

func (b *Builder) logError(r *http.Request, serviceErr *services.ServiceError) {
	logger := contextutils.GetLogger(r.Context(), b.logger)
	fields := []zap.Field{
		zap.String("error_type", serviceErr.Type),
		zap.String("message", serviceErr.Message),
		zap.Int("status", serviceErr.GetStatusCode()),
	}
	if serviceErr.Cause != nil {
		fields = append(fields, zap.Error(serviceErr.Cause))
	}

	if serviceErr.GetStatusCode() >= http.StatusInternalServerError {
		logger.Error("Request failed", fields...)
		return
	}
	logger.Debug("Request rejected", fields...)
}
