package handler

import (
	"github.com/gin-gonic/gin"

	"jadwal-kuliah/internal/service"
	"jadwal-kuliah/pkg/response"
)

// StatsHandler 统计 HTTP 处理器
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Overview GET /api/v1/stats
func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.statsSvc.Overview(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}
