package main

import (
	"log"

	"github.com/Adiar1/Crackd/internal/bot"
	"github.com/Adiar1/Crackd/internal/config"
	"github.com/Adiar1/Crackd/internal/daily"
	"github.com/Adiar1/Crackd/internal/database"
	"github.com/Adiar1/Crackd/internal/handlers"
	"github.com/Adiar1/Crackd/internal/middleware"
	"github.com/Adiar1/Crackd/internal/services"
	"github.com/Adiar1/Crackd/internal/telegram"
	"github.com/Adiar1/Crackd/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	questionService := services.NewQuestionService(db)
	archiveService := services.NewArchiveService(db)
	statsService := services.NewStatsService(db)

	client := telegram.NewClient(cfg.BotToken)
	registry := telegram.NewRegistry()

	dailyManager := daily.NewManager(
		client, questionService, statsService, archiveService, hub,
		cfg.DailyChatID, cfg.AdminUserIDs, cfg.DailyWindow,
	)

	handler := bot.NewHandler(
		client, registry, questionService, archiveService, statsService,
		dailyManager, cfg.AdminUserIDs, cfg.SessionTimeout, cfg.PagerExpiry,
	)

	webhook := bot.NewWebhook(client, handler, cfg.WebhookSecret, cfg.WebhookSecret)
	if cfg.WebhookBaseURL != "" {
		if err := webhook.Install(cfg.WebhookBaseURL); err != nil {
			log.Fatalf("failed to install webhook: %v", err)
		}
		defer webhook.Uninstall()
	} else {
		log.Println("WEBHOOK_BASE_URL not set, webhook not installed")
	}

	if cfg.DailyChatID != 0 {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.DailyCron, func() {
			if err := dailyManager.Broadcast("", 0); err != nil {
				log.Printf("scheduled daily broadcast failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("invalid DAILY_CRON %q: %v", cfg.DailyCron, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("daily broadcast scheduled: %s", cfg.DailyCron)
	} else {
		log.Println("DAILY_CHAT_ID not set, scheduled broadcasts disabled")
	}

	apiHandler := handlers.NewAPIHandler(questionService, statsService)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", handlers.Health)
	r.GET("/ws/daily/:id", wsHandler.Subscribe)
	webhook.Register(r)

	api := r.Group("/api/v1")
	api.Use(middleware.APIKeyAuth(cfg.APIKey))
	{
		api.GET("/questions", apiHandler.ListQuestions)
		api.GET("/questions/:id", apiHandler.GetQuestion)
		api.GET("/questions/:id/distribution", apiHandler.Distribution)
		api.GET("/archives", apiHandler.ListArchived)
		api.GET("/leaderboard", apiHandler.Leaderboard)
		api.GET("/users/:id/stats", apiHandler.UserStats)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
