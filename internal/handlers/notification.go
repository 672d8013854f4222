package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck-dev/quizdeck/internal/service"
	"github.com/quizdeck-dev/quizdeck/internal/utils"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	notifications, err := h.notifications.List(ctx.Request.Context(), currentUser.ID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	if err := h.notifications.MarkRead(ctx.Request.Context(), ctx.Param("notification_id"), currentUser.ID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
