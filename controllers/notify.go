package controllers

import (
	"fmt"
	"log"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/utils"
)

// createNotification inserts a single notification row.
func createNotification(userID uint, eventID *uint, typ, message string, link *string, metadata map[string]any) error {
	n := models.Notification{
		UserID:   userID,
		EventID:  eventID,
		Type:     typ,
		Message:  message,
		Link:     link,
		Metadata: metadata,
	}
	return config.DB.Create(&n).Error
}

// notifyAll fans a notification out to every recipient, one insert per
// recipient. Each insert is independent: a mid-loop failure leaves
// earlier recipients notified and is logged, not retried.
func notifyAll(recipients []uint, eventID uint, typ, message string, metadata map[string]any) int {
	sent := 0
	link := eventLink(eventID)
	for _, uid := range recipients {
		if err := createNotification(uid, &eventID, typ, message, link, metadata); err != nil {
			log.Printf("notify %s: user %d: %v", typ, uid, err)
			continue
		}
		sent++
	}
	return sent
}

func eventLink(eventID uint) *string {
	l := fmt.Sprintf("/%d", eventID)
	return &l
}

// prospectUserIDs returns the user ids interested in a tentative event.
func prospectUserIDs(eventID uint) ([]uint, error) {
	var ids []uint
	err := config.DB.Model(&models.EventProspect{}).Where("event_id = ?", eventID).Pluck("user_id", &ids).Error
	return ids, err
}

// attendeeUserIDs returns the user ids joined on an official event.
func attendeeUserIDs(eventID uint) ([]uint, error) {
	var ids []uint
	err := config.DB.Model(&models.EventAttendee{}).Where("event_id = ?", eventID).Pluck("user_id", &ids).Error
	return ids, err
}

// participantUserIDs returns prospects of a tentative event or attendees
// of an official one.
func participantUserIDs(ev models.Event) ([]uint, error) {
	if ev.Status == models.EventStatusTentative {
		return prospectUserIDs(ev.ID)
	}
	return attendeeUserIDs(ev.ID)
}

// checkMilestone notifies the host when the interest/attendance count
// crosses a threshold. At most one notification fires per mutation.
func checkMilestone(ev models.Event, currentCount, previousCount int) {
	m, ok := utils.CrossedMilestone(currentCount, previousCount)
	if !ok {
		return
	}

	verb := "joined"
	if ev.Status == models.EventStatusTentative {
		verb = "interested"
	}
	msg := fmt.Sprintf("%d people are %s in %q!", m, verb, ev.Title)
	typ := fmt.Sprintf("milestone_%d_interested", m)
	meta := map[string]any{"count": currentCount, "milestone": m}

	if err := createNotification(ev.HostID, &ev.ID, typ, msg, eventLink(ev.ID), meta); err != nil {
		log.Printf("milestone notification: event %d: %v", ev.ID, err)
	}
}

// fanOutNewMessage notifies the host and every prospect/attendee of an
// event, except the sender, that a chat message arrived.
func fanOutNewMessage(ev models.Event, sender models.Profile) {
	ids, err := participantUserIDs(ev)
	if err != nil {
		log.Printf("message fan-out: event %d: %v", ev.ID, err)
		return
	}

	seen := map[uint]bool{sender.ID: true}
	var recipients []uint
	for _, id := range append(ids, ev.HostID) {
		if !seen[id] {
			seen[id] = true
			recipients = append(recipients, id)
		}
	}

	senderName := sender.Email
	if sender.FullName != nil && *sender.FullName != "" {
		senderName = *sender.FullName
	}
	msg := fmt.Sprintf("%s sent a message in %q", senderName, ev.Title)
	meta := map[string]any{"senderId": sender.ID, "senderName": senderName}
	notifyAll(recipients, ev.ID, models.NotificationNewMessage, msg, meta)
}
