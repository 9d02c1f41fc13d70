package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/middleware"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/utils"
)

type UpdateProfileReq struct {
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Interests *[]string `json:"interests"`
}

// UpdateProfile patches the caller's own profile.
func UpdateProfile(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	if req.FullName != nil {
		u.FullName = req.FullName
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}
	if req.Interests != nil {
		u.Interests = *req.Interests
	}

	if err := config.DB.Save(&u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UploadAvatar stores an avatar image and returns its public URL. The
// client follows up with PUT /api/me to persist it on the profile.
func UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file received"})
		return
	}

	fileID := fmt.Sprintf("%d", time.Now().UnixNano())
	publicURL, err := utils.UploadAvatar(fileHeader, fileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": publicURL})
}
