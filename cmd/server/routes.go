package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"mindnamo-admin.backend/internal/interfaces/http/handlers"
	"mindnamo-admin.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	setupHandler   *handlers.SetupHandler
	userHandler    *handlers.UserHandler
	statsHandler   *handlers.StatsHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/logout", d.authHandler.Logout)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/gate", d.authHandler.Gate)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Setup routes (authenticated, but deliberately not admin-gated:
		// a locked account must be able to complete them)
		setup := v1.Group("/setup")
		setup.Use(d.authMiddleware)
		{
			setup.GET("", d.setupHandler.GetState)
			setup.POST("/challenge", d.setupHandler.IssueChallenge)
			setup.POST("/verify", d.setupHandler.ValidateChallenge)
			setup.PATCH("/profile", d.setupHandler.UpdateProfile)
			setup.POST("/finalize", d.setupHandler.FinalizeSetup)
		}

		// User management routes (admin only)
		users := v1.Group("/users")
		users.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			users.GET("", d.userHandler.List)
			users.POST("", d.userHandler.Create)
			users.POST("/ban", d.userHandler.SetBanned)
			users.POST("/bulk-ban", d.userHandler.BulkSetBanned)
			users.POST("/bulk-delete", d.userHandler.BulkDelete)
			users.DELETE("/:id", d.userHandler.Delete)
		}

		// Dashboard aggregation routes (admin only)
		stats := v1.Group("/stats")
		stats.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			stats.GET("/dashboard", d.statsHandler.GetDashboard)
			stats.GET("/unsettled", d.statsHandler.GetUnsettled)
			stats.GET("/refunds", d.statsHandler.GetRefundLiability)
			stats.GET("/revenue", d.statsHandler.GetRevenue)
		}
	}
}

// registerPortalRoutes mounts the navigable portal pages behind the
// route gate. The gate redirects before the handler runs; an allowed
// request just reports the page the client landed on.
func registerPortalRoutes(r *gin.Engine, gate gin.HandlerFunc) {
	page := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": c.Request.URL.Path})
	}
	r.GET("/", gate, page)
	r.GET(middleware.LoginPath, gate, page)
	r.GET(middleware.SetupPath, gate, page)
	r.GET(middleware.DashboardPath, gate, page)
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "mindnamo-admin-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
