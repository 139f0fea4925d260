package roadmaps

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"careercompass-backend/internal/analyses"
	"careercompass-backend/internal/export"
	"careercompass-backend/internal/shared/metrics"
	"careercompass-backend/internal/shared/server/middleware"
	"careercompass-backend/internal/shared/server/respond"
	"careercompass-backend/internal/usage"
)

// Handler wires HTTP handlers to the roadmaps service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches roadmap routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/roadmaps", h.startRoadmap)
	rg.GET("/roadmaps", h.listRoadmaps)
	rg.GET("/roadmaps/:id", h.getRoadmap)
	rg.GET("/roadmaps/:id/export", h.exportRoadmap)
}

type startRoadmapRequest struct {
	JobTitle   string `json:"jobTitle"`
	AnalysisID string `json:"analysisId"`
}

func (h *Handler) startRoadmap(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req startRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobTitle is required", nil)
		return
	}

	roadmap, created, err := h.Svc.StartOrReuse(c.Request.Context(), userID, req.JobTitle, strings.TrimSpace(req.AnalysisID))
	if err != nil {
		switch {
		case errors.Is(err, analyses.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your generation limit for this period.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start roadmap", nil)
		}
		return
	}

	status := http.StatusAccepted
	if !created {
		status = http.StatusOK
	}
	respond.JSON(c, status, gin.H{
		"roadmapId": roadmap.ID,
		"status":    roadmap.Status,
		"reused":    !created,
	})
}

func (h *Handler) getRoadmap(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	roadmap, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "roadmap not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch roadmap", nil)
		}
		return
	}

	resp := gin.H{
		"roadmapId": roadmap.ID,
		"jobTitle":  roadmap.JobTitle,
		"status":    roadmap.Status,
		"createdAt": roadmap.CreatedAt,
	}
	if roadmap.AnalysisID != "" {
		resp["analysisId"] = roadmap.AnalysisID
	}
	if roadmap.Status == StatusCompleted && roadmap.Result != nil {
		resp["result"] = roadmap.Result
	}
	if roadmap.Status == StatusFailed && roadmap.ErrorCode != "" {
		resp["errorCode"] = roadmap.ErrorCode
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) exportRoadmap(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	format := strings.ToLower(c.DefaultQuery("format", "txt"))
	if format != "txt" && format != "pdf" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be txt or pdf", nil)
		return
	}

	roadmap, err := h.Svc.Exportable(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "roadmap not found", nil)
		case errors.Is(err, ErrNotReady):
			respond.Error(c, http.StatusConflict, "not_ready", "roadmap is not completed yet", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export roadmap", nil)
		}
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case "pdf":
		payload, err = export.PDF(roadmap.JobTitle, roadmap.Result.Roadmap)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render pdf", nil)
			return
		}
		contentType = "application/pdf"
	default:
		payload = export.Text(roadmap.Result.Roadmap)
		contentType = "text/plain; charset=utf-8"
	}

	metrics.IncExport()
	fileName := export.Filename(roadmap.JobTitle, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, payload)
}

func (h *Handler) listRoadmaps(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	roadmaps, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list roadmaps", nil)
		return
	}

	resp := make([]gin.H, 0, len(roadmaps))
	for _, rm := range roadmaps {
		item := gin.H{
			"roadmapId": rm.ID,
			"jobTitle":  rm.JobTitle,
			"status":    rm.Status,
			"createdAt": rm.CreatedAt,
		}
		if rm.Status == StatusCompleted && rm.Result != nil && rm.Result.Coverage != nil {
			item["coverage"] = *rm.Result.Coverage
		}
		resp = append(resp, item)
	}
	respond.JSON(c, http.StatusOK, resp)
}
