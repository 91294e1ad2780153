package main

import (
	"database/sql"
	"net/http"
	"time"

	"cati-platform/internal/httpapi"
	"cati-platform/internal/rbac"
	"cati-platform/pkg/utils"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc, db *sql.DB) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Provider webhooks (public; guarded by a shared secret header).
	r.POST("/webhooks/dialer/status", h.DialerStatusCallback)

	// Token issuance is the one unauthenticated v1 route.
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		campaigns := v1.Group("/campaigns")
		campaigns.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleSupervisor, rbac.RoleAnalyst))
		{
			campaigns.GET("/:campaign_id/performance", h.CampaignPerformance)
			campaigns.GET("/:campaign_id/performance/export", h.ExportPerformance)
		}

		rosterGroup := v1.Group("/roster")
		rosterGroup.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleSupervisor))
		{
			rosterGroup.POST("/import", h.ImportRoster)
		}

		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin))
		{
			admin.POST("/campaigns/:campaign_id/backfill", h.BackfillCDRs)
		}
	}
}
