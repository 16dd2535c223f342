package main

import (
	"log"
	"log/slog"
	"os"
	"vidpulse/db"
	"vidpulse/internal/handler"
	"vidpulse/internal/pipeline"
	"vidpulse/internal/repository"
	"vidpulse/internal/service"
	"vidpulse/pkg/llm"
	"vidpulse/pkg/notion"
	"vidpulse/pkg/yt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	statsRepo := repository.NewStatsRepository(db.DB)
	if err := statsRepo.InitSchema(); err != nil {
		log.Fatalf("error initializing schema: %v", err)
	}

	ytClient := yt.NewClient(os.Getenv("GOOGLE_CLOUD_API_KEY"), yt.Credentials{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
	})
	notionClient := notion.NewClient(os.Getenv("NOTION_API_KEY"))

	analysisService := service.NewAnalysisService(
		statsRepo,
		ytClient,
		notionClient,
		notionClient,
		pipeline.New(newAgentClient()),
	)

	enqueueRefresh := func(videoID string) error {
		return db.PushToQueue(db.RefreshQueueKey, videoID)
	}

	analysisHandler := handler.NewAnalysisHandler(analysisService, enqueueRefresh)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/analyze", analysisHandler.PostAnalyze)
	r.POST("/refresh", analysisHandler.PostRefresh)
	r.GET("/videos/:id", analysisHandler.GetVideo)
	r.GET("/health", analysisHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func newAgentClient() llm.AgentClient {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return llm.NewOpenAIClient(key)
	}
	return llm.NewAnthropicClient(os.Getenv("ANTHROPIC_API_KEY"))
}
