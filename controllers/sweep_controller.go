package controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/models"
)

// CheckStartingEvents is the scheduled sweep, meant to be hit by a cron
// job every 5 minutes. Official events starting 55-65 minutes out get a
// "starting soon" notification to all attendees; events starting within
// 5 minutes get "starting now". A sent marker per (event, kind) keeps
// overlapping sweep windows from notifying the same event twice.
func CheckStartingEvents(c *gin.Context) {
	if secret := os.Getenv("CRON_SECRET"); secret != "" {
		if c.GetHeader("Authorization") != "Bearer "+secret {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
	}

	now := time.Now()

	soonEvents, soonSent := sweepWindow(
		now.Add(55*time.Minute), now.Add(65*time.Minute),
		models.NotificationStartingSoon,
		func(title string) string { return fmt.Sprintf("%q starts in 1 hour!", title) },
	)
	nowEvents, nowSent := sweepWindow(
		now, now.Add(5*time.Minute),
		models.NotificationStartingNow,
		func(title string) string { return fmt.Sprintf("%q is starting now! 🚀", title) },
	)

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"soonEvents":            soonEvents,
		"nowEvents":             nowEvents,
		"soonNotificationsSent": soonSent,
		"nowNotificationsSent":  nowSent,
	})
}

func sweepWindow(from, to time.Time, kind string, message func(title string) string) (matched, sent int) {
	var events []models.Event
	err := config.DB.
		Where("status = ?", models.EventStatusOfficial).
		Where("date_time >= ? AND date_time <= ?", from, to).
		Find(&events).Error
	if err != nil {
		log.Printf("sweep %s: %v", kind, err)
		return 0, 0
	}

	for _, ev := range events {
		var already int64
		config.DB.Model(&models.EventNotice{}).
			Where("event_id = ? AND kind = ?", ev.ID, kind).
			Count(&already)
		if already > 0 {
			continue
		}

		ids, err := attendeeUserIDs(ev.ID)
		if err != nil {
			log.Printf("sweep %s: event %d: %v", kind, ev.ID, err)
			continue
		}

		matched++
		sent += notifyAll(ids, ev.ID, kind, message(ev.Title), nil)

		notice := models.EventNotice{EventID: ev.ID, Kind: kind}
		if err := config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&notice).Error; err != nil {
			log.Printf("sweep %s: marker for event %d: %v", kind, ev.ID, err)
		}
	}
	return matched, sent
}
