package config

import (
	"log"
	"os"

	"shallbuy/internal/entity"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Printf("error load env %s", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("error connect to database %s", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("error migrate database %s", err)
	}
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Address{},
		&entity.ActivityLog{},
		&entity.Subscription{},
		&entity.UserSubscription{},
		&entity.Payment{},
	)
}
