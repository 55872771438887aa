package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"giornobene/internal/config"
	"giornobene/internal/handler"
	"giornobene/internal/logger"
	"giornobene/internal/middleware"
	"giornobene/internal/service"
	"giornobene/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := store.AutoMigrate(db); err != nil {
		slog.Error("db migrate failed", "err", err)
		os.Exit(1)
	}
	logStore := store.NewGormLogStore(db)
	settingsStore := store.NewGormSettingsStore(db)

	var analyzer service.Analyzer
	var gen service.InsightGenerator
	gemini, err := service.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		slog.Warn("gemini init failed, meals will be saved without analysis", "err", err)
		analyzer, gen = service.Disabled{}, service.Disabled{}
	} else {
		defer gemini.Close()
		analyzer, gen = gemini, gemini
	}

	// The AI handler caches the fun fact; journal mutations invalidate
	// it through this callback.
	var aiH *handler.AIHandler
	logSvc := service.NewLogService(logStore, settingsStore, analyzer, func(userID, date string) {
		if aiH != nil {
			aiH.Invalidate(userID, date)
		}
	})
	aiH = handler.NewAIHandler(service.NewInsightService(gen), logSvc)

	logH := handler.NewLogHandler(logSvc)
	dashH := handler.NewDashboardHandler(logSvc)
	settingsH := handler.NewSettingsHandler(settingsStore)
	exportH := handler.NewExportHandler(logSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID"},
		AllowCredentials: true,
	}))

	api := r.Group("/api", middleware.UserScope())
	api.GET("/logs", logH.List)
	api.GET("/logs/:date", logH.Get)
	api.PUT("/logs/:date/rating", logH.UpsertRating)
	api.POST("/logs/:date/meals", logH.AddMeal)
	api.PUT("/logs/:date/meals", logH.UpdateMeal)
	api.DELETE("/logs/:date/meals", logH.RemoveMeal)
	api.GET("/dashboard/wellbeing", dashH.Wellbeing)
	api.GET("/dashboard/red-days", dashH.RedDays)
	api.GET("/settings/watchlist", settingsH.GetWatchlist)
	api.PUT("/settings/watchlist", settingsH.SetWatchlist)
	api.GET("/insights", aiH.Insights)
	api.GET("/fun-fact", aiH.FunFact)
	api.GET("/export", exportH.Export)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
