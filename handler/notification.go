package handler

import (
	"net/http"
	"strconv"

	"Pulse/config"
	"Pulse/middleware"
	"Pulse/pkg/context"
	"Pulse/pkg/response"
	"Pulse/service"
	"Pulse/types"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Config              *config.Config
	NotificationService service.INotificationService
}

func (h *NotificationHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	notifications := r.Group("/v1/notifications")
	notifications.GET("/list", authorize, context.Wrap(h.List))
	notifications.POST("/read", authorize, context.Wrap(h.MarkRead))   //单条已读
	notifications.POST("/read-all", authorize, context.Wrap(h.MarkAllRead))
	notifications.GET("/unread-count", authorize, context.Wrap(h.UnreadCount))
}

// List 通知列表(游标分页)
func (h *NotificationHandler) List(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	cursor := int64(0)
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		if v, err := strconv.ParseInt(cursorStr, 10, 64); err == nil {
			cursor = v
		}
	}
	limit := 20
	if ls := c.Query("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil {
			limit = v
		}
	}

	result, err := h.NotificationService.List(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, result)
	return nil
}

// MarkRead 标记单条已读, 重复标记幂等
func (h *NotificationHandler) MarkRead(c *gin.Context) error {
	var req types.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	if err := h.NotificationService.MarkRead(c.Request.Context(), userID, req.NotificationID); err != nil {
		return asBizError(err)
	}

	response.Success(c, gin.H{"notification_id": strconv.FormatUint(req.NotificationID, 10)})
	return nil
}

// MarkAllRead 全部已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	rows, err := h.NotificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, gin.H{"marked": rows})
	return nil
}

// UnreadCount 未读角标
func (h *NotificationHandler) UnreadCount(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	count, err := h.NotificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, gin.H{"unread_count": count})
	return nil
}
