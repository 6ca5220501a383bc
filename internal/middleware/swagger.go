package middleware

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SwaggerConfig represents the configuration for the Swagger UI
type SwaggerConfig struct {
	// URL points to the Swagger JSON endpoint
	URL          string
	DeepLinking  bool
	DocExpansion string
}

// DefaultSwaggerConfig returns the default Swagger configuration
func DefaultSwaggerConfig() *SwaggerConfig {
	return &SwaggerConfig{
		URL:          "/swagger/doc.json",
		DeepLinking:  true,
		DocExpansion: "list",
	}
}

// SwaggerHandler returns a handler that serves the Swagger UI
func SwaggerHandler(config *SwaggerConfig) http.Handler {
	if config == nil {
		config = DefaultSwaggerConfig()
	}

	return httpSwagger.Handler(
		httpSwagger.URL(config.URL),
		httpSwagger.DeepLinking(config.DeepLinking),
		httpSwagger.DocExpansion(config.DocExpansion),
	)
}
