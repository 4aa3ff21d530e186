package notifications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripvia/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid user identity", nil, err.Error())
		return uuid.Nil, false
	}

	return userID, true
}

func (ctrl *Controller) GetUserNotifications(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var query NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.ListUserNotifications(c.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Notifications retrieved successfully", result, nil)
}

// GetAdminNotifications lists the admin broadcast records
func (ctrl *Controller) GetAdminNotifications(c *gin.Context) {
	var query NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.ListBroadcasts(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Notifications retrieved successfully", result, nil)
}

func (ctrl *Controller) MarkRead(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid notification ID format", nil, err.Error())
		return
	}

	if err := ctrl.service.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Notification not found", nil, err.Error())
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Notification marked as read", nil, nil)
}

func (ctrl *Controller) MarkAllRead(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	if err := ctrl.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "All notifications marked as read", nil, nil)
}
