package handlers

import (
	"net/http"
	"strconv"

	"freshprice-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// MonitoringHandler モニタリングAPIのハンドラー
type MonitoringHandler struct {
	monitoringService *services.MonitoringService
}

// NewMonitoringHandler 新しいモニタリングハンドラーを作成
func NewMonitoringHandler(monitoringService *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
	}
}

// GetLogs 直近のリクエストログと集計を返す
func (mh *MonitoringHandler) GetLogs(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":    mh.monitoringService.Recent(limit),
		"summary": mh.monitoringService.Summary(),
	})
}
