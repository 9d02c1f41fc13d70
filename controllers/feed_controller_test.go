package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/meetcmu/meetcmu-server/models"
)

type feedResponse struct {
	Events []struct {
		ID             uint     `json:"id"`
		Title          string   `json:"title"`
		Status         string   `json:"status"`
		Tags           []string `json:"tags"`
		ProspectCount  int      `json:"prospect_count"`
		AttendeeCount  int      `json:"attendee_count"`
		UserIsProspect bool     `json:"user_is_prospect"`
		UserIsAttendee bool     `json:"user_is_attendee"`
	} `json:"events"`
	HasMore bool `json:"hasMore"`
}

func TestFeedExcludesPrivateAndPastEvents(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")

	createTestEvent(t, host, func(ev *models.Event) { ev.Title = "Public Future" })
	createTestEvent(t, host, func(ev *models.Event) {
		ev.Title = "Private Future"
		ev.Visibility = models.EventVisibilityPrivate
	})
	past := time.Now().Add(-2 * time.Hour)
	createTestEvent(t, host, func(ev *models.Event) {
		ev.Title = "Public Past"
		ev.DateTime = &past
	})

	var resp feedResponse
	w := doJSON(t, r, http.MethodGet, "/api/events", "", nil, &resp)
	if w.Code != http.StatusOK {
		t.Fatalf("feed returned %d: %s", w.Code, w.Body.String())
	}

	if len(resp.Events) != 1 || resp.Events[0].Title != "Public Future" {
		t.Errorf("feed = %+v, want only the public future event", resp.Events)
	}
}

func TestFeedSearchMatchesTitleCaseInsensitively(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")

	createTestEvent(t, host, func(ev *models.Event) { ev.Title = "Niners vs Steelers Watch Party" })
	createTestEvent(t, host, func(ev *models.Event) { ev.Title = "Basketball Pickup" })

	var resp feedResponse
	doJSON(t, r, http.MethodGet, "/api/events?search=steelers", "", nil, &resp)

	if len(resp.Events) != 1 || resp.Events[0].Title != "Niners vs Steelers Watch Party" {
		t.Errorf("search=steelers matched %+v, want the watch party only", resp.Events)
	}
}

func TestFeedStatusFilterAndPagination(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")

	for i := 0; i < 12; i++ {
		createTestEvent(t, host, func(ev *models.Event) {
			ev.Title = fmt.Sprintf("Tentative %d", i)
		})
	}
	createTestEvent(t, host, func(ev *models.Event) {
		ev.Title = "Official One"
		ev.Status = models.EventStatusOfficial
	})

	var page0 feedResponse
	doJSON(t, r, http.MethodGet, "/api/events?filter=tentative&page=0", "", nil, &page0)
	if len(page0.Events) != 10 || !page0.HasMore {
		t.Errorf("page 0 = %d events, hasMore=%v; want 10, true", len(page0.Events), page0.HasMore)
	}

	var page1 feedResponse
	doJSON(t, r, http.MethodGet, "/api/events?filter=tentative&page=1", "", nil, &page1)
	if len(page1.Events) != 2 || page1.HasMore {
		t.Errorf("page 1 = %d events, hasMore=%v; want 2, false", len(page1.Events), page1.HasMore)
	}

	var official feedResponse
	doJSON(t, r, http.MethodGet, "/api/events?filter=official", "", nil, &official)
	if len(official.Events) != 1 || official.Events[0].Title != "Official One" {
		t.Errorf("filter=official = %+v, want the official event only", official.Events)
	}
}

func TestFeedHourWindowFilter(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")

	start := campusFutureTime(14, 0)
	end := campusFutureTime(15, 30)
	createTestEvent(t, host, func(ev *models.Event) {
		ev.Title = "Afternoon Event"
		ev.DateTime = &start
		ev.EndTime = &end
	})

	for _, tc := range []struct {
		window string
		want   int
	}{
		{"startHour=14&endHour=16", 1},
		{"startHour=13&endHour=15", 1},
		{"startHour=16&endHour=18", 0},
	} {
		var resp feedResponse
		doJSON(t, r, http.MethodGet, "/api/events?"+tc.window, "", nil, &resp)
		if len(resp.Events) != tc.want {
			t.Errorf("window %s matched %d events, want %d", tc.window, len(resp.Events), tc.want)
		}
	}
}

func TestFeedTagFilterUsesOrSemantics(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")

	createTestEvent(t, host, func(ev *models.Event) {
		ev.Title = "Tailgate"
		ev.Tags = []string{"sports", "free-food"}
	})
	createTestEvent(t, host, func(ev *models.Event) {
		ev.Title = "Study Session"
		ev.Tags = []string{"academic"}
	})

	var resp feedResponse
	doJSON(t, r, http.MethodGet, "/api/events?tags=sports,music", "", nil, &resp)
	if len(resp.Events) != 1 || resp.Events[0].Title != "Tailgate" {
		t.Errorf("tags=sports,music matched %+v, want the tailgate only", resp.Events)
	}
}

func TestFeedMostPopularSort(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")

	quiet := createTestEvent(t, host, func(ev *models.Event) { ev.Title = "Quiet" })
	busy := createTestEvent(t, host, func(ev *models.Event) { ev.Title = "Busy" })

	for i := 0; i < 3; i++ {
		u := createTestUser(t, fmt.Sprintf("fan%d@andrew.cmu.edu", i))
		addProspect(t, busy, u)
	}
	lone := createTestUser(t, "lone@andrew.cmu.edu")
	addProspect(t, quiet, lone)

	var resp feedResponse
	doJSON(t, r, http.MethodGet, "/api/events?sortBy=most_popular", "", nil, &resp)
	if len(resp.Events) != 2 || resp.Events[0].Title != "Busy" {
		t.Fatalf("most_popular order = %+v, want Busy first", resp.Events)
	}
	if resp.Events[0].ProspectCount != 3 {
		t.Errorf("Busy prospect_count = %d, want 3", resp.Events[0].ProspectCount)
	}
}

func TestFeedServesWithZeroCountsWhenCountQueryFails(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")
	ev := createTestEvent(t, host, nil)
	fan := createTestUser(t, "fan@andrew.cmu.edu")
	addProspect(t, ev, fan)

	if err := configDB().Migrator().DropTable(&models.EventProspect{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	var resp feedResponse
	w := doJSON(t, r, http.MethodGet, "/api/events", "", nil, &resp)
	if w.Code != http.StatusOK {
		t.Fatalf("feed returned %d with a broken count store, want 200", w.Code)
	}
	if len(resp.Events) != 1 || resp.Events[0].ProspectCount != 0 {
		t.Errorf("feed = %+v, want the event with count degraded to 0", resp.Events)
	}
}

func TestFeedAnnotatesRequesterMembership(t *testing.T) {
	r := setupTest(t)
	host := createTestUser(t, "host@andrew.cmu.edu")
	viewer := createTestUser(t, "viewer@andrew.cmu.edu")

	ev := createTestEvent(t, host, nil)
	addProspect(t, ev, viewer)

	var anon feedResponse
	doJSON(t, r, http.MethodGet, "/api/events", "", nil, &anon)
	if anon.Events[0].UserIsProspect {
		t.Error("anonymous requester should not be marked as prospect")
	}

	var authed feedResponse
	doJSON(t, r, http.MethodGet, "/api/events", authHeader(t, viewer), nil, &authed)
	if !authed.Events[0].UserIsProspect {
		t.Error("viewer should be marked as prospect")
	}
}
