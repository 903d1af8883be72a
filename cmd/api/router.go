package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staybook-backend/internal/shared/middleware"
	"staybook-backend/internal/shared/response"
	"staybook-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupUserRoutes(v1, c)
		setupHostRoutes(v1, c)
		setupPropertyRoutes(v1, c)
		setupBookingRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupReviewRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authRequired := middleware.AuthMiddleware(c.Sessions)
	throttled := c.RateLimiter.Middleware()

	users := v1.Group("/users")
	{
		// Anonymous account endpoints sit behind the per-IP throttle.
		users.POST("/register", throttled, c.UserHandler.Register)
		users.POST("/login", throttled, c.UserHandler.Login)
		users.GET("/verify", c.UserHandler.VerifyEmail)
		users.POST("/resend-verification", throttled, c.UserHandler.ResendVerification)

		users.POST("/reset-password", throttled, c.UserHandler.RequestPasswordReset)
		users.GET("/reset-password/verify", c.UserHandler.VerifyPasswordReset)
		users.POST("/reset-password/confirm", throttled, c.UserHandler.SetPassword)

		users.GET("/email-change/confirm", c.UserHandler.ConfirmEmailChange)
		users.GET("/deactivate/confirm", c.UserHandler.ConfirmDeactivation)

		users.POST("/logout", authRequired, c.UserHandler.Logout)
		users.GET("/me", authRequired, c.UserHandler.GetProfile)
		users.PUT("/me", authRequired, c.UserHandler.UpdateProfile)
		users.POST("/change-password", authRequired, c.UserHandler.ChangePassword)
		users.POST("/deactivate", authRequired, c.UserHandler.RequestDeactivation)

		users.GET("", authRequired, c.UserHandler.ListUsers)
		users.GET("/:id", authRequired, c.UserHandler.GetUser)
	}
}

// ========================================
// HOST ROUTES
// ========================================
func setupHostRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authRequired := middleware.AuthMiddleware(c.Sessions)

	hosts := v1.Group("/hosts")
	{
		hosts.GET("", c.HostHandler.ListHosts)
		hosts.GET("/:user_id", c.HostHandler.GetHost)

		hosts.POST("/apply", authRequired, c.HostHandler.Apply)
		hosts.GET("/me", authRequired, c.HostHandler.GetMyProfile)
		hosts.PUT("/me", authRequired, c.HostHandler.UpdateProfile)
		hosts.POST("/me/photo", authRequired, c.HostHandler.UploadPhoto)
	}
}

// ========================================
// PROPERTY ROUTES
// ========================================
func setupPropertyRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authRequired := middleware.AuthMiddleware(c.Sessions)

	properties := v1.Group("/properties")
	{
		properties.GET("", c.PropertyHandler.List)

		properties.GET("/mine", authRequired, c.PropertyHandler.ListMine)
		properties.POST("", authRequired, c.PropertyHandler.Create)

		properties.GET("/:id", c.PropertyHandler.Get)
		properties.PUT("/:id", authRequired, c.PropertyHandler.Update)
		properties.DELETE("/:id", authRequired, c.PropertyHandler.Delete)
		properties.PATCH("/:id/availability", authRequired, c.PropertyHandler.SetAvailability)

		properties.GET("/:id/bookings", authRequired, c.BookingHandler.ListForProperty)
		properties.GET("/:id/reviews", c.ReviewHandler.ListByProperty)
	}
}

// ========================================
// BOOKING ROUTES
// ========================================
func setupBookingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authRequired := middleware.AuthMiddleware(c.Sessions)
	throttled := c.RateLimiter.Middleware()

	bookings := v1.Group("/bookings")
	bookings.Use(authRequired)
	{
		bookings.POST("", throttled, c.BookingHandler.Create)
		bookings.GET("", c.BookingHandler.ListMine)
		bookings.GET("/:id", c.BookingHandler.Get)
		bookings.POST("/:id/cancel", c.BookingHandler.Cancel)
		bookings.GET("/:id/payment", c.PaymentHandler.GetByBooking)
	}
}

// ========================================
// PAYMENT ROUTES
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authRequired := middleware.AuthMiddleware(c.Sessions)
	throttled := c.RateLimiter.Middleware()

	payments := v1.Group("/payments")
	{
		payments.POST("/initiate", authRequired, throttled, c.PaymentHandler.Initiate)

		// Gateway redirect; authenticated by re-verifying against the
		// gateway API, not by a session.
		payments.GET("/callback", c.PaymentHandler.Callback)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authRequired := middleware.AuthMiddleware(c.Sessions)

	reviews := v1.Group("/reviews")
	reviews.Use(authRequired)
	{
		reviews.POST("", c.ReviewHandler.Create)
		reviews.PUT("/:id", c.ReviewHandler.Update)
		reviews.DELETE("/:id", c.ReviewHandler.Delete)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.Sessions), middleware.AdminMiddleware())
	{
		admin.GET("/users", c.UserHandler.AdminListUsers)
		admin.PATCH("/users/:id/status", c.UserHandler.AdminSetUserStatus)
		admin.DELETE("/users/:id", c.UserHandler.AdminDeleteUser)

		admin.GET("/hosts/pending", c.HostHandler.AdminListPending)
		admin.POST("/hosts/:id/review", c.HostHandler.AdminReview)

		admin.GET("/properties/unverified", c.PropertyHandler.AdminListUnverified)
		admin.POST("/properties/:id/verify", c.PropertyHandler.AdminVerify)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.HealthCheck(ctx.Request.Context()); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "UNHEALTHY", err.Error())
			return
		}
		response.Success(ctx, http.StatusOK, "ok", gin.H{
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	}
}
