package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"vidpulse/db"
	"vidpulse/internal/repository"
	"vidpulse/internal/service"
	"vidpulse/pkg/yt"

	"github.com/joho/godotenv"
)

func main() {
	videoID := flag.String("video-id", "", "YouTube video ID")
	flag.Parse()

	if *videoID == "" {
		log.Fatal("--video-id is required")
	}

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	statsRepo := repository.NewStatsRepository(db.DB)
	if err := statsRepo.InitSchema(); err != nil {
		log.Fatalf("error initializing schema: %v", err)
	}

	ytClient := yt.NewClient(os.Getenv("GOOGLE_CLOUD_API_KEY"), yt.Credentials{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
	})

	analysisService := service.NewAnalysisService(statsRepo, ytClient, nil, nil, nil)

	if err := analysisService.Refresh(*videoID); err != nil {
		log.Fatalf("error refreshing stats: %v", err)
	}

	slog.Info("stats refreshed", "video_id", *videoID)
}
