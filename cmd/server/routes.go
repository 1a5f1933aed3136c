package main

import (
	"github.com/collabhub/backend/internal/handlers"
	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the write-heavy channel endpoints
	postLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "collabhub"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)

			// Projects
			projectHandler := handlers.NewProjectHandler(models.GetDB())
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.GET("/projects/:id/members", projectHandler.ListMembers)
			protected.POST("/projects/:id/members", projectHandler.AddMember)

			// Membership resolution
			membershipHandler := handlers.NewMembershipHandler(models.GetDB())
			protected.GET("/membership/:project_id/:user_id", membershipHandler.Resolve)

			// Channel posts
			channelHandler := handlers.NewChannelHandler(models.GetDB(), svc.blobStore)
			protected.GET("/channels/:project_id/:kind/:partition_key/posts", channelHandler.List)
			protected.POST("/channels/:project_id/:kind/:partition_key/posts",
				postLimiter.Middleware(), channelHandler.Create)
			protected.GET("/posts/:id", channelHandler.Get)
			protected.PUT("/posts/:id", postLimiter.Middleware(), channelHandler.Update)
			protected.DELETE("/posts/:id", channelHandler.Delete)

			// Unread alerts
			alertHandler := handlers.NewAlertHandler(models.GetDB())
			protected.GET("/alerts/:viewer_id", alertHandler.ListForViewer)

			// Notices (read for all users)
			noticeHandler := handlers.NewNoticeHandler(models.GetDB())
			protected.GET("/notices", noticeHandler.List)
			protected.GET("/notices/:id", noticeHandler.GetByID)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Projects (delete is admin only)
			projectHandler := handlers.NewProjectHandler(models.GetDB())
			admin.DELETE("/projects/:id", projectHandler.Delete)

			// Notices (write operations)
			noticeHandler := handlers.NewNoticeHandler(models.GetDB())
			admin.POST("/notices", noticeHandler.Create)
			admin.PUT("/notices/:id", noticeHandler.Update)
			admin.DELETE("/notices/:id", noticeHandler.Delete)

			// Audit logs
			auditLogHandler := handlers.NewAuditLogHandler(models.GetDB())
			admin.GET("/audit-logs", auditLogHandler.List)
		}
	}
}
