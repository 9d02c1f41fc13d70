package controllers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/middleware"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/realtime"
)

// messageRelay distributes inserted messages to open event views. Set
// from main at startup; tests install one over the in-process fallback.
var messageRelay = realtime.NewRelay(nil)

func SetMessageRelay(r *realtime.Relay) {
	messageRelay = r
}

// loadEventForParticipant returns the event only when the caller is its
// host, a prospect or an attendee. Everyone else gets a 404: chat is
// hidden from non-participants, not merely read-only.
func loadEventForParticipant(c *gin.Context) (models.Event, bool) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return models.Event{}, false
	}

	var ev models.Event
	if err := config.DB.First(&ev, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return models.Event{}, false
	}

	if ev.HostID == u.ID {
		return ev, true
	}

	var n int64
	if ev.Status == models.EventStatusTentative {
		config.DB.Model(&models.EventProspect{}).Where("event_id = ? AND user_id = ?", ev.ID, u.ID).Count(&n)
	} else {
		config.DB.Model(&models.EventAttendee{}).Where("event_id = ? AND user_id = ?", ev.ID, u.ID).Count(&n)
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return models.Event{}, false
	}
	return ev, true
}

// ListMessages returns the full ordered transcript of an event.
func ListMessages(c *gin.Context) {
	ev, ok := loadEventForParticipant(c)
	if !ok {
		return
	}

	var messages []models.EventMessage
	err := config.DB.Preload("User").
		Where("event_id = ?", ev.ID).
		Order("created_at asc").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type PostMessageReq struct {
	Message string `json:"message" binding:"required"`
}

// PostMessage inserts a chat message, pushes it to live subscribers and
// notifies the other participants best-effort.
func PostMessage(c *gin.Context) {
	ev, ok := loadEventForParticipant(c)
	if !ok {
		return
	}
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	var req PostMessageReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is required"})
		return
	}

	msg := models.EventMessage{
		EventID: ev.ID,
		UserID:  u.ID,
		Message: strings.TrimSpace(req.Message),
	}
	if err := config.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not send message"})
		return
	}
	msg.User = &u

	if payload, err := json.Marshal(msg); err == nil {
		if err := messageRelay.Publish(c.Request.Context(), ev.ID, payload); err != nil {
			log.Printf("relay publish: event %d: %v", ev.ID, err)
		}
	}

	fanOutNewMessage(ev, u)

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// StreamMessages holds an SSE connection open and forwards messages
// inserted after the subscription, for the lifetime of the view.
func StreamMessages(c *gin.Context) {
	ev, ok := loadEventForParticipant(c)
	if !ok {
		return
	}

	ch, cancel := messageRelay.Subscribe(c.Request.Context(), ev.ID)
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case payload, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("message", string(payload))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
