package notifications

import (
	"github.com/gin-gonic/gin"

	"tripvia/internal/shared/middleware"
)

// SetupNotificationRoutes configures the in-app notification routes
func SetupNotificationRoutes(rg *gin.RouterGroup, controller *Controller) {
	notifs := rg.Group("/users/notifications")
	notifs.Use(middleware.JWTAuth())
	{
		notifs.GET("", controller.GetUserNotifications)
		notifs.POST("/read-all", controller.MarkAllRead)
		notifs.PUT("/:id/read", controller.MarkRead)
	}

	admin := rg.Group("/admin/notifications")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.GetAdminNotifications)
	}
}
