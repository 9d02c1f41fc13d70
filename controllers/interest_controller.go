package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/middleware"
	"github.com/meetcmu/meetcmu-server/models"
)

type ToggleInterestReq struct {
	Interested *bool `json:"interested" binding:"required"`
}

// ToggleInterest inserts or deletes the caller's membership row: a
// prospect row while the event is tentative, an attendee row once it is
// official. The response carries re-read counts so clients refresh
// instead of patching counters locally.
func ToggleInterest(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
		return
	}

	var req ToggleInterestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	var ev models.Event
	if err := config.DB.First(&ev, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}

	tentative := ev.Status == models.EventStatusTentative

	before := membershipCount(ev.ID, tentative)

	if *req.Interested {
		// Conflict-safe: a duplicate toggle is a no-op instead of a
		// uniqueness violation.
		if tentative {
			row := models.EventProspect{EventID: ev.ID, UserID: u.ID}
			err = config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		} else {
			row := models.EventAttendee{EventID: ev.ID, UserID: u.ID}
			err = config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
		}
	} else {
		if tentative {
			err = config.DB.Where("event_id = ? AND user_id = ?", ev.ID, u.ID).Delete(&models.EventProspect{}).Error
		} else {
			err = config.DB.Where("event_id = ? AND user_id = ?", ev.ID, u.ID).Delete(&models.EventAttendee{}).Error
		}
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update interest"})
		return
	}

	after := membershipCount(ev.ID, tentative)

	if *req.Interested {
		checkMilestone(ev, after, before)
	}

	var prospectCount, attendeeCount int64
	config.DB.Model(&models.EventProspect{}).Where("event_id = ?", ev.ID).Count(&prospectCount)
	config.DB.Model(&models.EventAttendee{}).Where("event_id = ?", ev.ID).Count(&attendeeCount)

	c.JSON(http.StatusOK, gin.H{
		"prospect_count":   prospectCount,
		"attendee_count":   attendeeCount,
		"user_is_prospect": tentative && *req.Interested,
		"user_is_attendee": !tentative && *req.Interested,
	})
}

func membershipCount(eventID uint, tentative bool) int {
	var n int64
	if tentative {
		config.DB.Model(&models.EventProspect{}).Where("event_id = ?", eventID).Count(&n)
	} else {
		config.DB.Model(&models.EventAttendee{}).Where("event_id = ?", eventID).Count(&n)
	}
	return int(n)
}
