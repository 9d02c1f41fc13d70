package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/routes"
	"github.com/meetcmu/meetcmu-server/utils"
)

// setupTest wires an in-memory database into config.DB and returns a
// router with the full route table.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	// A named shared-cache DB so every pooled connection sees the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.MigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func createTestUser(t *testing.T, email string) models.Profile {
	t.Helper()
	name := strings.Split(email, "@")[0]
	p := models.Profile{Email: email, FullName: &name}
	if err := config.DB.Create(&p).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return p
}

func createTestEvent(t *testing.T, host models.Profile, mutate func(*models.Event)) models.Event {
	t.Helper()
	start := time.Now().Add(48 * time.Hour)
	ev := models.Event{
		HostID:     host.ID,
		Title:      "Test Event",
		DateTime:   &start,
		Status:     models.EventStatusTentative,
		Visibility: models.EventVisibilityPublic,
		ShareToken: fmt.Sprintf("token-%s-%d", t.Name(), time.Now().UnixNano()),
	}
	if mutate != nil {
		mutate(&ev)
	}
	if err := config.DB.Create(&ev).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

func addProspect(t *testing.T, ev models.Event, u models.Profile) {
	t.Helper()
	if err := config.DB.Create(&models.EventProspect{EventID: ev.ID, UserID: u.ID}).Error; err != nil {
		t.Fatalf("failed to add prospect: %v", err)
	}
}

func addAttendee(t *testing.T, ev models.Event, u models.Profile) {
	t.Helper()
	if err := config.DB.Create(&models.EventAttendee{EventID: ev.ID, UserID: u.ID}).Error; err != nil {
		t.Fatalf("failed to add attendee: %v", err)
	}
}

func authHeader(t *testing.T, u models.Profile) string {
	t.Helper()
	token, err := utils.GenerateToken(fmt.Sprint(u.ID))
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return "Bearer " + token
}

// doJSON performs a request with an optional JSON body and auth header,
// decoding the JSON response into out when out is non-nil.
func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w
}

// campusFutureTime returns a campus-local time at the given hour on a
// day far enough out that it always passes the future-only feed filter.
func campusFutureTime(hour, min int) time.Time {
	loc := utils.CampusLocation()
	d := time.Now().In(loc).AddDate(0, 0, 7)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, loc)
}

func configDB() *gorm.DB {
	return config.DB
}

func countRows(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := config.DB.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
