package main

import (
	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/internal/middleware"
	"github.com/nathantkn/restockd/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(), middleware.RequestID())

	// Rate limiter for auth routes
	authLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Public read-side views
		api.GET("/leaderboard", svc.aggregatorHandler.Leaderboard)
		api.GET("/food_banks", svc.aggregatorHandler.FoodBanks)
		api.GET("/donors/:id", svc.aggregatorHandler.DonorProfile)
		api.GET("/items/autocomplete", svc.searchHandler.Autocomplete)
		api.GET("/search/postings", svc.searchHandler.Postings)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.PUT("/auth/password", svc.authHandler.ChangePassword)

			// Postings (reads for all authenticated users)
			protected.GET("/donation_postings", svc.postingHandler.List)
			protected.GET("/donation_postings/:id", svc.postingHandler.Get)
			protected.GET("/donation_postings/:id/donor_count", svc.aggregatorHandler.PostingDonorCount)

			// Meetups
			protected.GET("/meetups", svc.meetupHandler.List)
			protected.GET("/meetups/:id", svc.meetupHandler.Get)

			// Time change requests
			protected.GET("/meetup_time_change_requests", svc.timeChangeHandler.List)

			// Donation history
			protected.GET("/donors/:id/history", svc.aggregatorHandler.DonorHistory)
		}

		// Food bank routes
		foodBank := api.Group("")
		foodBank.Use(middleware.AuthRequired(), middleware.FoodBankRequired())
		{
			foodBank.POST("/donation_postings", svc.postingHandler.Create)
			foodBank.DELETE("/donation_postings/:id", svc.postingHandler.Delete)
			foodBank.PUT("/meetups/:id/complete", svc.meetupHandler.Complete)
			foodBank.POST("/meetup_time_change_requests", svc.timeChangeHandler.Create)
		}

		// Donor routes
		donor := api.Group("")
		donor.Use(middleware.AuthRequired(), middleware.DonorRequired())
		{
			donor.POST("/meetups", svc.meetupHandler.Schedule)
			donor.PUT("/meetup_time_change_requests/:id", svc.timeChangeHandler.Respond)
		}
	}
}
