package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/organization-directory-api/internal/middleware"
)

// RegisterRoutes mounts the auth and organization endpoints on r. Session
// middleware must already be installed.
func RegisterRoutes(r gin.IRouter, authHandler *AuthHandler, orgHandler *OrganizationHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
	}

	// Organization routes (protected)
	orgs := r.Group("/organizations")
	orgs.Use(middleware.RequireAuth())
	{
		orgs.POST("", orgHandler.CreateOrganization)
		orgs.GET("", orgHandler.ListOrganizations)
		orgs.GET("/:id", orgHandler.GetOrganization)
		orgs.DELETE("/:id", orgHandler.DeleteOrganization)
		orgs.GET("/:id/members", orgHandler.ListMembers)
		orgs.POST("/:id/members", orgHandler.AddMember)
		orgs.PATCH("/:id/members/:user_id", orgHandler.UpdateMember)
		orgs.DELETE("/:id/members/:user_id", orgHandler.RemoveMember)
	}
}
