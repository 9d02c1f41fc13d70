package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/middleware"
	"github.com/meetcmu/meetcmu-server/models"
)

// ListNotifications returns the caller's latest 50 notifications, newest
// first, optionally unread only.
func ListNotifications(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	query := config.DB.Preload("Event").
		Where("user_id = ?", u.ID).
		Order("created_at desc").
		Limit(50)

	if c.Query("unreadOnly") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

type MarkReadReq struct {
	NotificationID *uint `json:"notificationId"`
	MarkAllRead    bool  `json:"markAllRead"`
}

// MarkNotificationsRead marks one notification, or all unread ones, as
// read. Only the recipient's own rows are touched.
func MarkNotificationsRead(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	var req MarkReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	switch {
	case req.MarkAllRead:
		err := config.DB.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", u.ID, false).
			Update("read", true).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update notifications"})
			return
		}
	case req.NotificationID != nil:
		err := config.DB.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", *req.NotificationID, u.ID).
			Update("read", true).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update notification"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteNotifications removes a single notification by ?id=, or every
// read notification of the caller with ?deleteAll=true.
func DeleteNotifications(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	switch {
	case c.Query("deleteAll") == "true":
		err := config.DB.Where("user_id = ? AND read = ?", u.ID, true).
			Delete(&models.Notification{}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete notifications"})
			return
		}
	case c.Query("id") != "":
		err := config.DB.Where("id = ? AND user_id = ?", c.Query("id"), u.ID).
			Delete(&models.Notification{}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete notification"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type CreateNotificationReq struct {
	UserID   uint           `json:"userId" binding:"required"`
	EventID  *uint          `json:"eventId"`
	Type     string         `json:"type" binding:"required"`
	Message  string         `json:"message" binding:"required"`
	Link     *string        `json:"link"`
	Metadata map[string]any `json:"metadata"`
}

// CreateNotification is the server-internal insertion endpoint.
func CreateNotification(c *gin.Context) {
	var req CreateNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	n := models.Notification{
		UserID:   req.UserID,
		EventID:  req.EventID,
		Type:     req.Type,
		Message:  req.Message,
		Link:     req.Link,
		Metadata: req.Metadata,
	}
	if err := config.DB.Create(&n).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

type TriggerMessageReq struct {
	EventID  uint `json:"eventId" binding:"required"`
	SenderID uint `json:"senderId" binding:"required"`
}

// TriggerMessageNotifications fans out new_message notifications for a
// chat message that was already inserted.
func TriggerMessageNotifications(c *gin.Context) {
	var req TriggerMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	var ev models.Event
	if err := config.DB.First(&ev, req.EventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	var sender models.Profile
	if err := config.DB.First(&sender, req.SenderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sender not found"})
		return
	}

	fanOutNewMessage(ev, sender)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type TriggerMilestoneReq struct {
	EventID       uint `json:"eventId" binding:"required"`
	CurrentCount  *int `json:"currentCount" binding:"required"`
	PreviousCount *int `json:"previousCount" binding:"required"`
}

// TriggerMilestoneNotification runs the milestone detector for an event
// whose interest count just changed.
func TriggerMilestoneNotification(c *gin.Context) {
	var req TriggerMilestoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	var ev models.Event
	if err := config.DB.First(&ev, req.EventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	checkMilestone(ev, *req.CurrentCount, *req.PreviousCount)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
