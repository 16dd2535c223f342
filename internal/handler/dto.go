package handler

import "vidpulse/internal/model"

type AnalyzeRequest struct {
	PageID string `json:"page_id" binding:"required"`
	Period string `json:"period" binding:"required"`
}

type AnalyzeResponse struct {
	PageID string `json:"page_id"`
	Period string `json:"period"`
	Status string `json:"status"`
}

type RefreshRequest struct {
	VideoID string `json:"video_id" binding:"required"`
}

type VideoStatsResponse struct {
	VideoID     string              `json:"video_id"`
	Title       string              `json:"title"`
	PublishDate string              `json:"publish_date"`
	Metrics     map[string]*float64 `json:"metrics"`
}

func toVideoStatsResponse(s *model.VideoStats) VideoStatsResponse {
	return VideoStatsResponse{
		VideoID:     s.VideoID,
		Title:       s.Title,
		PublishDate: s.PublishDate,
		Metrics:     s.Metrics,
	}
}
