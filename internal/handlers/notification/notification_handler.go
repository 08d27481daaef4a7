// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"
	"strconv"

	"automate-service/internal/domain/notification"
	"automate-service/internal/middleware"
	"automate-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// GetNotifications lists the session's notifications, newest first.
// ?limit=N caps the list.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	notifications := sc.Notifications()
	summary := notification.Summary{Unread: sc.UnreadCount(), Total: len(notifications)}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			response.ValidationError(c, "invalid limit", err)
			return
		}
		if limit < len(notifications) {
			notifications = notifications[:limit]
		}
	}

	response.Success(c, http.StatusOK, "notifications retrieved", notification.ListResponse{
		Notifications: notifications,
		Summary:       summary,
	})
}

// MarkAsRead marks a single notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	if !sc.MarkNotificationRead(c.Param("id")) {
		response.NotFound(c, "notification not found")
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", gin.H{
		"unread": sc.UnreadCount(),
	})
}

// DeleteNotification dismisses a notification before it expires.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	if !sc.RemoveNotification(c.Param("id")) {
		response.NotFound(c, "notification not found")
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", nil)
}

// ClearNotifications empties the queue.
func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	middleware.MustGetContainer(c).ClearNotifications()
	response.Success(c, http.StatusOK, "notifications cleared", nil)
}
