package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/models"
)

const CtxEvent = "eventObj"

// CheckEventHost loads the event from the :id param, verifies the
// authenticated user is its host, and stashes it in the context for the
// controller.
func CheckEventHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.Profile)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid event id"})
			return
		}

		var ev models.Event
		if err := config.DB.First(&ev, id).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		if ev.HostID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Only the host can do this"})
			return
		}

		c.Set(CtxEvent, ev)
		c.Next()
	}
}
