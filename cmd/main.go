package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/meetcmu/meetcmu-server/config"
	"github.com/meetcmu/meetcmu-server/controllers"
	"github.com/meetcmu/meetcmu-server/realtime"
	"github.com/meetcmu/meetcmu-server/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	config.ConnectDB()

	// Redis is optional; without it the chat relay only reaches
	// subscribers on this instance.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("Redis unavailable, chat relay running in-process")
	}
	controllers.SetMessageRelay(realtime.NewRelay(rdb))

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return origin == "http://localhost:3000" || origin == os.Getenv("FRONTEND_ORIGIN")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(200, "MeetCMU server is running")
	})

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on port %s\n", port)
	r.Run(":" + port)
}
