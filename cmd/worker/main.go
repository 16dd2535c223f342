package main

import (
	"log"
	"log/slog"
	"os"
	"time"
	"vidpulse/db"
	"vidpulse/internal/repository"
	"vidpulse/internal/service"
	"vidpulse/pkg/yt"

	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	const maxRetries = 3

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
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

	for {
		videoID, err := db.PopFromQueue(db.RefreshQueueKey, 0)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		errorCount, err := statsRepo.GetRefreshErrorCount(videoID)
		if err != nil {
			slog.Error("error getting refresh error count", "error", err, "video_id", videoID)
			continue
		}

		if errorCount >= maxRetries {
			slog.Warn("video exceeded max retries, dead-lettering", "video_id", videoID, "error_count", errorCount)
			db.PushToQueue(db.DeadLetterKey, videoID)
			continue
		}

		err = analysisService.Refresh(videoID)
		if err != nil {
			slog.Error("error refreshing stats", "error", err, "video_id", videoID)

			statsRepo.SaveRefreshError(videoID, err.Error())

			db.PushToQueue(db.RefreshQueueKey, videoID)

			time.Sleep(5 * time.Second)
			continue
		}

		slog.Info("video stats refreshed", "video_id", videoID)
	}
}
