// ===============================
// FILE: internal/router/api_v1_integration.go
// ===============================

package router

import (
	"cleanearth/internal/config"
	"cleanearth/internal/handlers/api/v1/auth"
	"cleanearth/internal/handlers/api/v1/campaigns"
	"cleanearth/internal/handlers/api/v1/requests"
	"cleanearth/internal/handlers/api/v1/users"
	"cleanearth/internal/middleware"
	"cleanearth/internal/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddAPIv1Routes mounts every /api endpoint on r. Services enforce the
// per-resource permission rules; the router only decides whether a
// caller must be authenticated.
func AddAPIv1Routes(r chi.Router, deps Dependencies, responseBuilder *response.Builder, logger *zap.Logger) {
	svc := deps.Services

	authController := auth.NewAuthController(svc.Auth, logger.Named("auth_api"), responseBuilder)
	requestController := requests.NewRequestController(svc.Request, logger.Named("requests_api"), responseBuilder)
	campaignController := campaigns.NewCampaignController(svc.Campaign, svc.Participation, logger.Named("campaigns_api"), responseBuilder)
	userController := users.NewUserController(svc, logger.Named("users_api"), responseBuilder)

	authMiddleware := middleware.NewAuthMiddleware(svc.Auth, responseBuilder, logger.Named("auth_middleware"))

	var rateLimitCfg config.RateLimitConfig
	if deps.Config != nil {
		rateLimitCfg = deps.Config.RateLimit
	}
	limiter := middleware.NewRateLimiter(deps.Store, rateLimitCfg, responseBuilder, logger.Named("rate_limiter"))

	// ===============================
	// PUBLIC ENDPOINTS
	// ===============================

	r.With(limiter.Middleware).Post("/register", authController.Register)
	r.With(limiter.Middleware).Post("/login", authController.Login)
	r.Get("/auth-check", authController.AuthCheck)
	r.Get("/leaderboard", userController.Leaderboard)

	// ===============================
	// OPTIONALLY AUTHENTICATED
	// ===============================

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.OptionalAuth())

		r.Post("/request_register", requestController.Create)
		r.Get("/request/{id}", requestController.Get)
	})

	// ===============================
	// AUTHENTICATED
	// ===============================

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth())

		r.Post("/logout", authController.Logout)

		// Requests
		r.Get("/user_requests", requestController.ListMine)
		r.Get("/volunteer_requests", requestController.ListForVolunteer)
		r.Get("/managerequest", requestController.ListAll)
		r.Put("/managerequest", requestController.UpdateStatus)

		// Campaigns
		r.Post("/camp_register", campaignController.Register)
		r.Get("/managecamp", campaignController.Get)
		r.Post("/managecamp", campaignController.Create)
		r.Put("/managecamp", campaignController.Update)
		r.Delete("/managecamp", campaignController.Delete)
		r.Get("/managecamp/volunteers", campaignController.Volunteers)
		r.Post("/complete-campaign/{id}", campaignController.Complete)
		r.Post("/complete-camp/{id}", campaignController.Complete)

		// Participation
		r.Post("/join-campaign/{id}", campaignController.Join)
		r.Post("/camp_participate/{id}", campaignController.Participate)
		r.Post("/leave-campaign/{id}", campaignController.Leave)
		r.Get("/user_camps", campaignController.UserCamps)
		r.Get("/volunteer_camps", campaignController.VolunteerCamps)

		// Profile and badges
		r.Get("/profile", userController.GetProfile)
		r.Put("/profile", userController.UpdateProfile)
		r.Get("/badges", userController.ListBadges)

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin())

			r.Get("/users", userController.ListUsers)
			r.Post("/toggle_block/{id}", userController.ToggleBlock)
			r.Post("/award_badge", userController.AwardBadge)
		})
	})
}
