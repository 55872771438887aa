package main

import (
	"context"
	"flag"
	"log"

	"giornobene/internal/config"
	"giornobene/internal/logger"
	"giornobene/internal/middleware"
	"giornobene/internal/store"

	"github.com/joho/godotenv"
)

// Seeds the default allergen watchlist and a few demo journal days so a
// fresh deployment has something to show on the dashboard.
func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	flag.Parse()

	godotenv.Load()
	logger.Init(logger.Config{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal("db connect failed: ", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatal("db migrate failed: ", err)
	}

	logs := store.NewGormLogStore(db)
	settings := store.NewGormSettingsStore(db)
	ctx := context.Background()
	user := middleware.DefaultUserID

	if err := settings.SetWatchlist(ctx, user, defaultWatchlist); err != nil {
		log.Fatal("seed watchlist failed: ", err)
	}
	logger.Info("watchlist seeded", "entries", len(defaultWatchlist))

	if err := seedDemoLogs(ctx, logs, user); err != nil {
		log.Fatal("seed logs failed: ", err)
	}

	logger.Info("=== all done ===")
}
