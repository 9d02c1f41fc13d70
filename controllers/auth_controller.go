package controllers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/middleware"
	"github.com/meetcmu/meetcmu-server/models"
	"github.com/meetcmu/meetcmu-server/utils"
)

type RegisterReq struct {
	FullName string `json:"full_name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Profile{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	p := models.Profile{
		Email:        req.Email,
		FullName:     &req.FullName,
		PasswordHash: &hash,
	}

	if err := config.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create account"})
		return
	}

	token, err := utils.GenerateToken(fmt.Sprint(p.ID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": p})
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var p models.Profile
	if err := config.DB.Where("email = ?", req.Email).First(&p).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	if p.PasswordHash == nil || !utils.CheckPassword(*p.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := utils.GenerateToken(fmt.Sprint(p.ID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": p})
}

type GoogleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLoginHandler verifies a Google ID token and upserts the profile,
// so a first authenticated visit creates the account.
func GoogleLoginHandler(c *gin.Context) {
	var req GoogleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Google token has no email"})
		return
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	var p models.Profile
	err = config.DB.Where("email = ?", email).First(&p).Error
	if err != nil {
		// First visit: create the profile from the identity provider.
		p = models.Profile{Email: email, GoogleSub: &payload.Subject}
		if name != "" {
			p.FullName = &name
		}
		if picture != "" {
			p.AvatarURL = &picture
		}
		if err := config.DB.Create(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create account"})
			return
		}
	} else if p.GoogleSub == nil {
		p.GoogleSub = &payload.Subject
		config.DB.Save(&p)
	}

	token, err := utils.GenerateToken(fmt.Sprint(p.ID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": p})
}

func Me(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.Profile)
	c.JSON(http.StatusOK, gin.H{"user": u})
}
