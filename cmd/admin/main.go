package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"chatterbox/backend/internal/config"
	"chatterbox/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Адмін-CLI: керування планами підписки та перегляд історії дзвінків.
//
//	admin set-plan <user-id> <plan>
//	admin calls <user-id>

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 3 {
		usage()
	}

	switch os.Args[1] {
	case "set-plan":
		if len(os.Args) != 4 {
			usage()
		}
		userID, plan := os.Args[2], os.Args[3]
		user, err := storageSvc.GetUserByID(userID)
		if err != nil {
			log.Fatalf("failed to look up user: %v", err)
		}
		if user == nil {
			log.Fatalf("user %s not found", userID)
		}
		if err := storageSvc.SetUserPlan(userID, plan); err != nil {
			log.Fatalf("failed to set plan: %v", err)
		}
		fmt.Printf("plan for %s (%s) set to %q\n", user.Username, userID, plan)

	case "calls":
		userID := os.Args[2]
		records, err := storageSvc.GetCallHistory(userID)
		if err != nil {
			log.Fatalf("failed to load call history: %v", err)
		}
		for _, rec := range records {
			fmt.Printf("%s  %-5s  %-9s  %s -> %s  %ds  ended-by=%s\n",
				rec.CreatedAt.Format("2006-01-02 15:04:05"),
				rec.Type, rec.Status, rec.CallerID, rec.ReceiverID,
				rec.Duration, rec.EndedBy)
		}
		fmt.Printf("%d call(s)\n", len(records))

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin set-plan <user-id> <plan> | admin calls <user-id>")
	os.Exit(2)
}
