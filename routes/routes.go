package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/meetcmu/meetcmu-server/controllers"
	"github.com/meetcmu/meetcmu-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLoginHandler)
		}

		api.GET("/me", middleware.AuthJWT(), controllers.Me)
		api.PUT("/me", middleware.AuthJWT(), controllers.UpdateProfile)
		api.POST("/uploads", middleware.AuthJWT(), controllers.UploadAvatar)

		events := api.Group("/events")
		{
			// The feed and event detail render for anonymous users too,
			// with the membership booleans false.
			events.GET("", middleware.OptionalAuth(), controllers.ListEvents)
			events.GET("/share/:token", middleware.OptionalAuth(), controllers.GetEventByShareToken)
			events.GET("/:id", middleware.OptionalAuth(), controllers.GetEventDetail)

			events.POST("", middleware.AuthJWT(), middleware.RateLimitEventCreate(), controllers.CreateEvent)
			events.PUT("/:id", middleware.AuthJWT(), middleware.CheckEventHost(), controllers.UpdateEvent)
			events.DELETE("/:id", middleware.AuthJWT(), middleware.CheckEventHost(), controllers.DeleteEvent)
			events.POST("/:id/convert", middleware.AuthJWT(), middleware.CheckEventHost(), controllers.ConvertToOfficial)

			events.POST("/:id/interest", middleware.AuthJWT(), controllers.ToggleInterest)

			events.GET("/:id/messages", middleware.AuthJWT(), controllers.ListMessages)
			events.POST("/:id/messages", middleware.AuthJWT(), middleware.RateLimitMessagePost(), controllers.PostMessage)
			events.GET("/:id/messages/stream", middleware.AuthJWT(), controllers.StreamMessages)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", middleware.AuthJWT(), controllers.ListNotifications)
			notifications.PATCH("", middleware.AuthJWT(), controllers.MarkNotificationsRead)
			notifications.DELETE("", middleware.AuthJWT(), controllers.DeleteNotifications)

			// Server-internal creation and triggers.
			notifications.POST("/create", controllers.CreateNotification)
			notifications.POST("/trigger-message", controllers.TriggerMessageNotifications)
			notifications.POST("/trigger-milestone", controllers.TriggerMilestoneNotification)

			// Hit by the external scheduler; guarded by CRON_SECRET.
			notifications.GET("/check-events", controllers.CheckStartingEvents)
		}
	}
}
