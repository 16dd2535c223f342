package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"vidpulse/internal/model"

	"github.com/gin-gonic/gin"
)

type AnalysisRunner interface {
	Analyze(pageID, period string) error
	Snapshot(videoID string) (*model.VideoStats, error)
}

type AnalysisHandler struct {
	service AnalysisRunner
	enqueue func(videoID string) error
}

func NewAnalysisHandler(service AnalysisRunner, enqueue func(videoID string) error) *AnalysisHandler {
	return &AnalysisHandler{service: service, enqueue: enqueue}
}

func (h *AnalysisHandler) PostAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_id and period are required"})
		return
	}

	err := h.service.Analyze(req.PageID, req.Period)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slog.Error("analysis run failed", "page_id", req.PageID, "period", req.Period, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		PageID: req.PageID,
		Period: req.Period,
		Status: "complete",
	})
}

func (h *AnalysisHandler) PostRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_id is required"})
		return
	}

	if err := h.enqueue(req.VideoID); err != nil {
		slog.Error("error enqueueing refresh", "video_id", req.VideoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Queue error"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"video_id": req.VideoID, "status": "queued"})
}

func (h *AnalysisHandler) GetVideo(c *gin.Context) {
	videoID := c.Param("id")

	stats, err := h.service.Snapshot(videoID)
	if err != nil {
		slog.Error("error fetching video stats", "video_id", videoID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	c.JSON(http.StatusOK, toVideoStatsResponse(stats))
}

func (h *AnalysisHandler) GetHealth(c *gin.Context) {
	_, err := h.service.Snapshot("health-probe")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
