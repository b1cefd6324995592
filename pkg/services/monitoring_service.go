package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLog は単一のリクエストログを表します。
type RequestLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"statusCode"`
	LatencyMS  int64     `json:"latencyMs"`
}

// MonitoringSummary は保持中のログの集計結果です。
type MonitoringSummary struct {
	TotalRequests int            `json:"totalRequests"`
	Endpoints     map[string]int `json:"endpoints"`
	StatusClasses map[string]int `json:"statusClasses"`
	AvgLatencyMS  int64          `json:"avgLatencyMs"`
}

// MonitoringService はAPIのリクエストログを保持・集計します。
// 保持件数は上限付きで、古いエントリから押し出されます。
type MonitoringService struct {
	mu      sync.RWMutex
	logs    []RequestLog
	maxLogs int
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs:    make([]RequestLog, 0),
		maxLogs: 1000,
	}
}

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry RequestLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > s.maxLogs {
		s.logs = s.logs[len(s.logs)-s.maxLogs:]
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// モニタリング自身へのアクセスは記録しない
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/monitoring") {
			return
		}

		s.LogRequest(RequestLog{
			Timestamp:  start,
			Method:     c.Request.Method,
			Path:       path,
			StatusCode: c.Writer.Status(),
			LatencyMS:  time.Since(start).Milliseconds(),
		})
	}
}

// Recent は時系列順で直近n件のログを返します。
func (s *MonitoringService) Recent(n int) []RequestLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.logs) {
		n = len(s.logs)
	}
	recent := make([]RequestLog, n)
	copy(recent, s.logs[len(s.logs)-n:])
	return recent
}

// Summary は保持中のログを集計します。
func (s *MonitoringService) Summary() MonitoringSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	endpoints := make(map[string]int)
	statusClasses := map[string]int{
		"2xx Success":      0,
		"4xx Client Error": 0,
		"5xx Server Error": 0,
	}
	var totalLatency int64
	for _, entry := range s.logs {
		endpoints[entry.Path]++
		totalLatency += entry.LatencyMS
		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusClasses["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			statusClasses["4xx Client Error"]++
		case entry.StatusCode >= 500:
			statusClasses["5xx Server Error"]++
		}
	}

	var avgLatency int64
	if len(s.logs) > 0 {
		avgLatency = totalLatency / int64(len(s.logs))
	}
	return MonitoringSummary{
		TotalRequests: len(s.logs),
		Endpoints:     endpoints,
		StatusClasses: statusClasses,
		AvgLatencyMS:  avgLatency,
	}
}
