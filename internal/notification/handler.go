package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/planbyte/event-planner-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ===========================
// 🔔 List In-App Notifications - GET /notifications?limit=
func (h *Handler) ListInApp(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.service.ListInAppByUser(c.Request.Context(), ident.UserID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// ===========================
// 🔔 Unread Count - GET /notifications/unread-count
func (h *Handler) UnreadCount(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing"})
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), ident.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// ===========================
// ✅ Mark as Read - PUT /notifications/:id/read
func (h *Handler) MarkAsRead(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification ID"})
		return
	}

	if err := h.service.MarkInAppAsRead(c.Request.Context(), uint(id), ident.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// ===========================
// ✅ Mark All as Read - PUT /notifications/read-all
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing"})
		return
	}

	if err := h.service.MarkAllInAppAsRead(c.Request.Context(), ident.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

// ===========================
// 📱 Register Device Token - POST /notifications/device-token
type deviceTokenReq struct {
	DeviceToken string `json:"device_token" binding:"required"`
	DeviceType  string `json:"device_type"`
	DeviceName  string `json:"device_name"`
}

func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing"})
		return
	}

	var req deviceTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	if err := h.service.RegisterDeviceToken(c.Request.Context(), ident.UserID, req.DeviceToken, req.DeviceType, req.DeviceName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register device token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device token registered"})
}

// ===========================
// 📱 Remove Device Token - DELETE /notifications/device-token
func (h *Handler) RemoveDeviceToken(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identity missing"})
		return
	}

	var req deviceTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	if err := h.service.RemoveDeviceToken(c.Request.Context(), ident.UserID, req.DeviceToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove device token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device token removed"})
}
