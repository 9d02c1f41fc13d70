package config

import (
	"fmt"
	"log"
	"os"

	"github.com/meetcmu/meetcmu-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the hosted PostgreSQL database and migrates the tables.
func ConnectDB() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/New_York",
		host, user, password, dbName, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := MigrateModels(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}

// MigrateModels runs AutoMigrate for every table the app owns. Shared with
// the test harness so tests migrate the exact same schema.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Event{},
		&models.EventProspect{},
		&models.EventAttendee{},
		&models.Notification{},
		&models.EventMessage{},
		&models.EventNotice{},
	)
}
