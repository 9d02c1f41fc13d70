package controllers

import (
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/middleware"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/utils"
)

// FeedEvent is an event annotated with host, counts and the requester's
// membership, as the feed returns it.
type FeedEvent struct {
	models.Event
	ProspectCount  int  `json:"prospect_count"`
	AttendeeCount  int  `json:"attendee_count"`
	UserIsProspect bool `json:"user_is_prospect"`
	UserIsAttendee bool `json:"user_is_attendee"`
}

// ListEvents serves the feed: page + filters in, one page of annotated
// events and a hasMore flag out. Status, search, building and date are
// pushed into the query; tags and the hour window are applied over the
// fetched rows, then popularity sorting and pagination.
//
// Malformed filter values are not rejected; they fall back to defaults.
func ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	if page < 0 {
		page = 0
	}

	statusFilter := c.DefaultQuery("filter", "all")
	if statusFilter != models.EventStatusTentative && statusFilter != models.EventStatusOfficial {
		statusFilter = "all"
	}

	search := strings.TrimSpace(c.Query("search"))

	var selectedTags []string
	for _, t := range strings.Split(c.Query("tags"), ",") {
		if t != "" {
			selectedTags = append(selectedTags, t)
		}
	}

	building := c.Query("building")
	selectedDate := c.Query("date")

	startHour, errStart := strconv.Atoi(c.Query("startHour"))
	endHour, errEnd := strconv.Atoi(c.Query("endHour"))
	hourFilter := errStart == nil && errEnd == nil

	sortBy := c.DefaultQuery("sortBy", "upcoming")
	if sortBy != "most_popular" {
		sortBy = "upcoming"
	}

	// Only public, not-yet-started events ever enter the feed.
	query := config.DB.Model(&models.Event{}).Preload("Host").
		Where("visibility = ?", models.EventVisibilityPublic).
		Where("date_time >= ?", time.Now())

	if statusFilter != "all" {
		query = query.Where("status = ?", statusFilter)
	}

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ? OR LOWER(location_building) LIKE ?)",
			like, like, like, like,
		)
	}

	if building != "" {
		query = query.Where("location_building = ?", building)
	}

	if selectedDate != "" {
		if from, to, ok := utils.DayRange(selectedDate); ok {
			query = query.Where("date_time >= ? AND date_time < ?", from, to)
		}
	}

	// Tag and hour filtering plus popularity sorting need the whole
	// candidate set, so fetch it all and page afterwards.
	var events []models.Event
	if err := query.Order("date_time asc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load events"})
		return
	}

	filtered := events[:0]
	for _, ev := range events {
		if !utils.HasAnyTag(ev.Tags, selectedTags) {
			continue
		}
		if hourFilter && !utils.InHourWindow(ev.DateTime, ev.EndTime, startHour, endHour) {
			continue
		}
		filtered = append(filtered, ev)
	}

	if len(filtered) == 0 {
		c.JSON(http.StatusOK, gin.H{"events": []FeedEvent{}, "hasMore": false})
		return
	}

	ids := make([]uint, len(filtered))
	for i, ev := range filtered {
		ids[i] = ev.ID
	}

	// Count failures degrade to zero counts rather than failing the feed.
	var prospects []models.EventProspect
	var attendees []models.EventAttendee
	if err := config.DB.Where("event_id IN ?", ids).Find(&prospects).Error; err != nil {
		log.Printf("feed: load prospects: %v", err)
	}
	if err := config.DB.Where("event_id IN ?", ids).Find(&attendees).Error; err != nil {
		log.Printf("feed: load attendees: %v", err)
	}

	var userID uint
	if u, ok := middleware.CurrentUser(c); ok {
		userID = u.ID
	}

	prospectCount := make(map[uint]int)
	attendeeCount := make(map[uint]int)
	isProspect := make(map[uint]bool)
	isAttendee := make(map[uint]bool)
	for _, p := range prospects {
		prospectCount[p.EventID]++
		if userID != 0 && p.UserID == userID {
			isProspect[p.EventID] = true
		}
	}
	for _, a := range attendees {
		attendeeCount[a.EventID]++
		if userID != 0 && a.UserID == userID {
			isAttendee[a.EventID] = true
		}
	}

	annotated := make([]FeedEvent, len(filtered))
	for i, ev := range filtered {
		annotated[i] = FeedEvent{
			Event:          ev,
			ProspectCount:  prospectCount[ev.ID],
			AttendeeCount:  attendeeCount[ev.ID],
			UserIsProspect: isProspect[ev.ID],
			UserIsAttendee: isAttendee[ev.ID],
		}
	}

	if sortBy == "most_popular" {
		sort.SliceStable(annotated, func(i, j int) bool {
			a, b := annotated[i], annotated[j]
			return utils.PopularityCount(a.Status, a.ProspectCount, a.AttendeeCount) >
				utils.PopularityCount(b.Status, b.ProspectCount, b.AttendeeCount)
		})
	}

	lo, hi, hasMore := utils.PageBounds(len(annotated), page, utils.FeedPageSize)

	c.JSON(http.StatusOK, gin.H{
		"events":  annotated[lo:hi],
		"hasMore": hasMore,
	})
}
