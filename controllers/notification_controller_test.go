package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/meetcmu/meetcmu-server/models"
)

func seedNotification(t *testing.T, u models.Profile, read bool) models.Notification {
	t.Helper()
	n := models.Notification{
		UserID:  u.ID,
		Type:    models.NotificationNewMessage,
		Message: "test notification",
		Read:    read,
	}
	if err := configDB().Create(&n).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func TestListNotificationsUnreadOnly(t *testing.T) {
	r := setupTest(t)
	u := createTestUser(t, "student@andrew.cmu.edu")
	other := createTestUser(t, "other@andrew.cmu.edu")

	seedNotification(t, u, false)
	seedNotification(t, u, true)
	seedNotification(t, other, false)

	var all struct {
		Notifications []models.Notification `json:"notifications"`
	}
	doJSON(t, r, http.MethodGet, "/api/notifications", authHeader(t, u), nil, &all)
	if len(all.Notifications) != 2 {
		t.Errorf("own notifications = %d, want 2", len(all.Notifications))
	}

	var unread struct {
		Notifications []models.Notification `json:"notifications"`
	}
	doJSON(t, r, http.MethodGet, "/api/notifications?unreadOnly=true", authHeader(t, u), nil, &unread)
	if len(unread.Notifications) != 1 || unread.Notifications[0].Read {
		t.Errorf("unreadOnly returned %+v, want the single unread row", unread.Notifications)
	}
}

func TestMarkNotificationsRead(t *testing.T) {
	r := setupTest(t)
	u := createTestUser(t, "student@andrew.cmu.edu")
	n1 := seedNotification(t, u, false)
	seedNotification(t, u, false)

	doJSON(t, r, http.MethodPatch, "/api/notifications", authHeader(t, u),
		map[string]any{"notificationId": n1.ID}, nil)
	if got := countRows(t, &models.Notification{}, "user_id = ? AND read = ?", u.ID, true); got != 1 {
		t.Errorf("read rows after single mark = %d, want 1", got)
	}

	doJSON(t, r, http.MethodPatch, "/api/notifications", authHeader(t, u),
		map[string]any{"markAllRead": true}, nil)
	if got := countRows(t, &models.Notification{}, "user_id = ? AND read = ?", u.ID, false); got != 0 {
		t.Errorf("unread rows after markAllRead = %d, want 0", got)
	}
}

func TestMarkReadIgnoresOtherUsersRows(t *testing.T) {
	r := setupTest(t)
	u := createTestUser(t, "student@andrew.cmu.edu")
	other := createTestUser(t, "other@andrew.cmu.edu")
	n := seedNotification(t, other, false)

	doJSON(t, r, http.MethodPatch, "/api/notifications", authHeader(t, u),
		map[string]any{"notificationId": n.ID}, nil)

	if got := countRows(t, &models.Notification{}, "id = ? AND read = ?", n.ID, true); got != 0 {
		t.Error("user marked someone else's notification as read")
	}
}

func TestDeleteAllRemovesOnlyReadNotifications(t *testing.T) {
	r := setupTest(t)
	u := createTestUser(t, "student@andrew.cmu.edu")
	seedNotification(t, u, true)
	seedNotification(t, u, false)

	doJSON(t, r, http.MethodDelete, "/api/notifications?deleteAll=true", authHeader(t, u), nil, nil)

	if got := countRows(t, &models.Notification{}, "user_id = ?", u.ID); got != 1 {
		t.Errorf("rows after deleteAll = %d, want the unread row to survive", got)
	}
	if got := countRows(t, &models.Notification{}, "user_id = ? AND read = ?", u.ID, true); got != 0 {
		t.Error("read notification survived deleteAll")
	}
}

func TestTriggerMilestoneFiresOncePerCrossing(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")
	ev := createTestEvent(t, host, nil)

	path := "/api/notifications/trigger-milestone"
	// Count sequence 3 -> 4 -> 6: only the 5 threshold fires, once.
	doJSON(t, r, http.MethodPost, path, "", map[string]any{
		"eventId": ev.ID, "currentCount": 4, "previousCount": 3,
	}, nil)
	doJSON(t, r, http.MethodPost, path, "", map[string]any{
		"eventId": ev.ID, "currentCount": 6, "previousCount": 4,
	}, nil)

	got := countRows(t, &models.Notification{}, "user_id = ? AND type LIKE ?", host.ID, "milestone_%")
	if got != 1 {
		t.Errorf("milestone notifications = %d, want 1", got)
	}
}

func TestTriggerMessageNotifiesEveryoneButSender(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")
	sender := createTestUser(t, "sender@andrew.cmu.edu")
	quiet := createTestUser(t, "quiet@andrew.cmu.edu")
	ev := createTestEvent(t, host, nil)
	addProspect(t, ev, sender)
	addProspect(t, ev, quiet)

	doJSON(t, r, http.MethodPost, "/api/notifications/trigger-message", "", map[string]any{
		"eventId": ev.ID, "senderId": sender.ID,
	}, nil)

	for _, tc := range []struct {
		user models.Profile
		want int64
	}{
		{host, 1}, {quiet, 1}, {sender, 0},
	} {
		got := countRows(t, &models.Notification{},
			"user_id = ? AND type = ?", tc.user.ID, models.NotificationNewMessage)
		if got != tc.want {
			t.Errorf("user %d new_message notifications = %d, want %d", tc.user.ID, got, tc.want)
		}
	}
}

func TestSweepNotifiesAttendeesOnceAcrossRuns(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")
	soonStart := time.Now().Add(60 * time.Minute)
	ev := createTestEvent(t, host, func(ev *models.Event) {
		ev.Status = models.EventStatusOfficial
		ev.DateTime = &soonStart
	})

	var attendees []models.Profile
	for i := 0; i < 2; i++ {
		u := createTestUser(t, fmt.Sprintf("attendee%d@andrew.cmu.edu", i))
		addAttendee(t, ev, u)
		attendees = append(attendees, u)
	}

	// Two consecutive sweeps with overlapping windows.
	doJSON(t, r, http.MethodGet, "/api/notifications/check-events", "", nil, nil)
	doJSON(t, r, http.MethodGet, "/api/notifications/check-events", "", nil, nil)

	for _, a := range attendees {
		got := countRows(t, &models.Notification{},
			"user_id = ? AND type = ?", a.ID, models.NotificationStartingSoon)
		if got != 1 {
			t.Errorf("attendee %d starting-soon notifications = %d, want 1", a.ID, got)
		}
	}

	if got := countRows(t, &models.EventNotice{}, "event_id = ? AND kind = ?", ev.ID, models.NotificationStartingSoon); got != 1 {
		t.Errorf("sent markers = %d, want 1", got)
	}
}

func TestSweepRequiresCronSecretWhenSet(t *testing.T) {
	r := setupTest(t)
	t.Setenv("CRON_SECRET", "sweep-secret")

	w := doJSON(t, r, http.MethodGet, "/api/notifications/check-events", "", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("sweep without secret returned %d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/notifications/check-events", "Bearer sweep-secret", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("sweep with secret returned %d, want 200", w.Code)
	}
}
