package router

import (
	"net/http"

	"cleanearth/internal/config"
	"cleanearth/internal/kvstore"
	"cleanearth/internal/middleware"
	"cleanearth/internal/response"
	"cleanearth/internal/services"

	_ "cleanearth/internal/docs" // registers the OpenAPI document

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Dependencies are everything the HTTP layer needs
type Dependencies struct {
	Services        *services.ServiceCollection
	Config          *config.Config
	Store           kvstore.Store
	HealthChecks    map[string]HealthCheck
	ResponseBuilder *response.Builder
	Logger          *zap.Logger
}

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	responseBuilder := deps.ResponseBuilder
	if responseBuilder == nil {
		responseBuilder = response.NewBuilder(response.DefaultConfig(), logger)
	}

	var corsOrigins []string
	if deps.Config != nil {
		corsOrigins = deps.Config.Server.CORSOrigins
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logger),
		middleware.Logging,
		middleware.RecoverPanic(responseBuilder),
		middleware.CORS(corsOrigins),
		middleware.SecureHeaders,
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responseBuilder.WriteError(w, req, services.NewNotFoundError("Resource not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		serviceErr := services.NewValidationError("Method not allowed", nil)
		serviceErr.StatusCode = http.StatusMethodNotAllowed
		responseBuilder.WriteError(w, req, serviceErr)
	})

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		responseBuilder.WriteMessage(w, req, "Welcome to CleanEarth API")
	})
	r.Get("/health", HealthHandler(deps.HealthChecks, responseBuilder))

	swagger := middleware.SwaggerHandler(middleware.DefaultSwaggerConfig())
	r.Get("/swagger", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Handle("/swagger/*", swagger)

	r.Route("/api", func(api chi.Router) {
		AddAPIv1Routes(api, deps, responseBuilder, logger)
	})

	logger.Info("Router setup completed",
		zap.Int("health_checks", len(deps.HealthChecks)),
		zap.Strings("cors_origins", corsOrigins),
	)
	return r
}
