package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/utils"
)

const CtxUser = "user"

// AuthJWT checks Authorization: Bearer <token>, validates the JWT, loads
// the profile and injects it into the context.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		c.Set(CtxUser, user)
		c.Next()
	}
}

// OptionalAuth injects the profile when a valid token is present but
// lets anonymous requests through. The feed and event detail render with
// reduced capability for anonymous users instead of failing.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := userFromHeader(c); ok {
			c.Set(CtxUser, user)
		}
		c.Next()
	}
}

func userFromHeader(c *gin.Context) (models.Profile, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return models.Profile{}, false
	}
	rawToken := strings.TrimSpace(authHeader[7:])

	claims, err := utils.VerifyToken(rawToken)
	if err != nil {
		return models.Profile{}, false
	}

	uid, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return models.Profile{}, false
	}

	var user models.Profile
	if err := config.DB.First(&user, uid).Error; err != nil {
		return models.Profile{}, false
	}
	return user, true
}

// CurrentUser returns the authenticated profile, if any.
func CurrentUser(c *gin.Context) (models.Profile, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return models.Profile{}, false
	}
	u, ok := v.(models.Profile)
	return u, ok
}
