package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/middleware"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/utils"
)

type CreateEventReq struct {
	Title            string     `json:"title" binding:"required"`
	Description      *string    `json:"description"`
	DateTime         *time.Time `json:"date_time"`
	EndTime          *time.Time `json:"end_time"`
	Location         *string    `json:"location"`
	LocationBuilding *string    `json:"location_building"`
	Tags             []string   `json:"tags"`
	Status           string     `json:"status"`
	Visibility       string     `json:"visibility"`
}

func CreateEvent(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	var req CreateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	if req.EndTime != nil {
		if req.DateTime == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "End time requires a start time"})
			return
		}
		if !req.EndTime.After(*req.DateTime) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "End time must be after start time"})
			return
		}
	}

	status := req.Status
	if status != models.EventStatusOfficial {
		status = models.EventStatusTentative
	}
	visibility := req.Visibility
	if visibility != models.EventVisibilityPrivate {
		visibility = models.EventVisibilityPublic
	}

	ev := models.Event{
		HostID:           u.ID,
		Title:            req.Title,
		Description:      req.Description,
		DateTime:         req.DateTime,
		EndTime:          req.EndTime,
		Location:         req.Location,
		LocationBuilding: req.LocationBuilding,
		Tags:             req.Tags,
		Status:           status,
		Visibility:       visibility,
		ShareToken:       uuid.NewString(),
	}

	if err := config.DB.Create(&ev).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create event"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

// GetEventDetail returns one event with host, participant profiles,
// counts and the requester's membership booleans. Private events are
// reachable here by direct id, just never listed in the feed.
func GetEventDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	var ev models.Event
	if err := config.DB.Preload("Host").First(&ev, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	respondEventDetail(c, ev)
}

// GetEventByShareToken resolves the direct link of a private event.
func GetEventByShareToken(c *gin.Context) {
	var ev models.Event
	if err := config.DB.Preload("Host").Where("share_token = ?", c.Param("token")).First(&ev).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	respondEventDetail(c, ev)
}

func respondEventDetail(c *gin.Context, ev models.Event) {
	var prospects []models.EventProspect
	var attendees []models.EventAttendee
	config.DB.Preload("User").Where("event_id = ?", ev.ID).Find(&prospects)
	config.DB.Preload("User").Where("event_id = ?", ev.ID).Find(&attendees)

	userIsProspect, userIsAttendee := false, false
	if u, ok := middleware.CurrentUser(c); ok {
		for _, p := range prospects {
			if p.UserID == u.ID {
				userIsProspect = true
			}
		}
		for _, a := range attendees {
			if a.UserID == u.ID {
				userIsAttendee = true
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"event":            ev,
		"prospects":        prospects,
		"attendees":        attendees,
		"prospect_count":   len(prospects),
		"attendee_count":   len(attendees),
		"user_is_prospect": userIsProspect,
		"user_is_attendee": userIsAttendee,
	})
}

type UpdateEventReq struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	DateTime         *time.Time `json:"date_time"`
	EndTime          *time.Time `json:"end_time"`
	Location         *string    `json:"location"`
	LocationBuilding *string    `json:"location_building"`
	Tags             *[]string  `json:"tags"`
	Visibility       *string    `json:"visibility"`
}

// UpdateEvent patches fields the host sent. A start-time change notifies
// everyone currently interested/joined.
func UpdateEvent(c *gin.Context) {
	ev := c.MustGet(middleware.CtxEvent).(models.Event)

	var req UpdateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	timeChanged := false
	if req.Title != nil {
		ev.Title = *req.Title
	}
	if req.Description != nil {
		ev.Description = req.Description
	}
	if req.DateTime != nil {
		if ev.DateTime == nil || !req.DateTime.Equal(*ev.DateTime) {
			timeChanged = true
		}
		ev.DateTime = req.DateTime
	}
	if req.EndTime != nil {
		ev.EndTime = req.EndTime
	}
	if req.Location != nil {
		ev.Location = req.Location
	}
	if req.LocationBuilding != nil {
		ev.LocationBuilding = req.LocationBuilding
	}
	if req.Tags != nil {
		ev.Tags = *req.Tags
	}
	if req.Visibility != nil {
		if *req.Visibility != models.EventVisibilityPublic && *req.Visibility != models.EventVisibilityPrivate {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid visibility"})
			return
		}
		ev.Visibility = *req.Visibility
	}

	if ev.EndTime != nil {
		if ev.DateTime == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "End time requires a start time"})
			return
		}
		if !ev.EndTime.After(*ev.DateTime) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "End time must be after start time"})
			return
		}
	}

	if err := config.DB.Save(&ev).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update event"})
		return
	}

	if timeChanged && ev.DateTime != nil {
		if ids, err := participantUserIDs(ev); err == nil {
			when := ev.DateTime.In(utils.CampusLocation()).Format("Jan 2, 3:04 PM")
			msg := fmt.Sprintf("%q time changed to %s", ev.Title, when)
			notifyAll(ids, ev.ID, models.NotificationEventTimeChanged, msg, map[string]any{"newDateTime": ev.DateTime})
		} else {
			log.Printf("time-change fan-out: event %d: %v", ev.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"event": ev})
}

// DeleteEvent notifies participants, then removes the event and
// everything hanging off it.
func DeleteEvent(c *gin.Context) {
	ev := c.MustGet(middleware.CtxEvent).(models.Event)

	if ids, err := participantUserIDs(ev); err == nil {
		msg := fmt.Sprintf("%q has been cancelled", ev.Title)
		notifyAll(ids, ev.ID, models.NotificationEventCancelled, msg, nil)
	} else {
		log.Printf("cancel fan-out: event %d: %v", ev.ID, err)
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventProspect{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventNotice{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Notification{}).Where("event_id = ?", ev.ID).Update("event_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, ev.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// ConvertToOfficial flips a tentative event to official, moving every
// prospect into the attendee set inside one transaction, then notifies
// the former prospects best-effort.
func ConvertToOfficial(c *gin.Context) {
	ev := c.MustGet(middleware.CtxEvent).(models.Event)

	if ev.Status != models.EventStatusTentative {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Event is already official"})
		return
	}

	var prospectIDs []uint
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var prospects []models.EventProspect
		if err := tx.Where("event_id = ?", ev.ID).Find(&prospects).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Event{}).Where("id = ?", ev.ID).
			Update("status", models.EventStatusOfficial).Error; err != nil {
			return err
		}

		if len(prospects) > 0 {
			attendees := make([]models.EventAttendee, 0, len(prospects))
			for _, p := range prospects {
				prospectIDs = append(prospectIDs, p.UserID)
				attendees = append(attendees, models.EventAttendee{EventID: ev.ID, UserID: p.UserID})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&attendees).Error; err != nil {
				return err
			}
			if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventProspect{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("convert event %d: %v", ev.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not convert event"})
		return
	}
	ev.Status = models.EventStatusOfficial

	msg := fmt.Sprintf("%q is now official! 🎉", ev.Title)
	notifyAll(prospectIDs, ev.ID, models.NotificationEventOfficial, msg, nil)

	var attendeeCount int64
	config.DB.Model(&models.EventAttendee{}).Where("event_id = ?", ev.ID).Count(&attendeeCount)

	c.JSON(http.StatusOK, gin.H{
		"event":          ev,
		"attendee_count": attendeeCount,
	})
}
