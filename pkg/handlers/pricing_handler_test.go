package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"freshprice-api/pkg/models"
	"freshprice-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testFeatureNames() []string {
	return []string{
		"days_until_expiry",
		"discount_percentage",
		"inventory_on_hand",
		"full_price",
		"day_of_week",
		"is_weekend",
		"urgency_factor",
		"inventory_pressure",
		"product_popularity",
		"discount_x_urgency",
		"discount_x_inventory",
		"discount_x_popularity",
		"category_Bakery",
		"category_Dairy",
	}
}

// newTestRouter は固定アセットで配線したテスト用ルーターを作る
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	weights := map[string]float64{
		"days_until_expiry":     -0.5,
		"discount_percentage":   8.0,
		"inventory_on_hand":     0.05,
		"full_price":            0.0,
		"day_of_week":           0.0,
		"is_weekend":            1.0,
		"urgency_factor":        0.3,
		"inventory_pressure":    1.0,
		"product_popularity":    10.0,
		"discount_x_urgency":    4.0,
		"discount_x_inventory":  2.0,
		"discount_x_popularity": 3.0,
		"category_Bakery":       0.0,
		"category_Dairy":        1.0,
	}
	model, err := services.NewLinearDemandModel(
		services.ModelInfo{Version: "5.2.0", ModelType: "xgboost", R2Score: 0.98},
		5.0, weights, testFeatureNames(),
	)
	assert.NoError(t, err)

	assets := &services.Assets{
		Model:   model,
		Encoder: services.NewCategoryEncoder("category", []string{"Bakery", "Dairy"}),
		Catalog: services.NewCatalog([]models.Product{
			{ID: "P001", Name: "Whole Milk 1L", Category: "Dairy", FullPrice: 10.0, CostPrice: 4.0, Popularity: 0.5},
			{ID: "P002", Name: "Sourdough Loaf", Category: "Bakery", FullPrice: 5.0, CostPrice: 2.0, Popularity: 0.8},
		}),
		FeatureNames:         testFeatureNames(),
		DayDemandFactor:      map[int]float64{},
		CategoryDemandFactor: map[string]float64{},
	}

	pricingHandler := NewPricingHandler(services.NewPricingService(assets))

	router := gin.New()
	router.GET("/health", HealthCheck)
	router.GET("/products", pricingHandler.GetProducts)
	router.POST("/predict", pricingHandler.Predict)
	return router
}

func postPredict(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("POST", "/predict", bytes.NewBufferString(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req, err := http.NewRequest("GET", "/health", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "status")
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestGetProducts(t *testing.T) {
	router := newTestRouter(t)

	req, err := http.NewRequest("GET", "/products", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var products []models.ProductSummary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 2)

	// ID昇順で返る
	assert.Equal(t, "P001", products[0].ID)
	assert.Equal(t, "Whole Milk 1L", products[0].Name)
	assert.Equal(t, "Dairy", products[0].Category)
	assert.Equal(t, "P002", products[1].ID)
}

func TestPredictSuccess(t *testing.T) {
	router := newTestRouter(t)

	w := postPredict(t, router, `{"productId":"P001","stockLevel":50,"daysToExpiry":3}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var result models.PricingResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Len(t, result.Forecast, 3)
	assert.Equal(t, 1, result.Forecast[0].Day)
	assert.InDelta(t, 70.0, result.Scenarios.Aggressive.DiscountPercentage, 1e-9)
	assert.Equal(t, "Net Profit Optimized", result.Recommendations.Reasoning)
	assert.Equal(t, "5.2.0", result.Algorithm.Version)
	assert.NotEmpty(t, result.PredictionDate)
}

func TestPredictAcceptsZeroStock(t *testing.T) {
	router := newTestRouter(t)

	// stockLevel=0 は欠落ではなく正当な値
	w := postPredict(t, router, `{"productId":"P001","stockLevel":0,"daysToExpiry":3}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var result models.PricingResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 0.0, result.Impact.SellThroughRate)
}

func TestPredictMissingFields(t *testing.T) {
	router := newTestRouter(t)

	testCases := []struct {
		body     string
		expected string
	}{
		{`{"stockLevel":50,"daysToExpiry":3}`, "Missing required field: productId"},
		{`{"productId":"P001","daysToExpiry":3}`, "Missing required field: stockLevel"},
		{`{"productId":"P001","stockLevel":50}`, "Missing required field: daysToExpiry"},
	}

	for _, tc := range testCases {
		w := postPredict(t, router, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body=%s", tc.body)

		var resp map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, tc.expected, resp["error"], "body=%s", tc.body)
	}
}

func TestPredictUnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	// 未知のIDも空文字のIDも同じ扱い
	for _, body := range []string{
		`{"productId":"NOPE","stockLevel":50,"daysToExpiry":3}`,
		`{"productId":"","stockLevel":50,"daysToExpiry":3}`,
	} {
		w := postPredict(t, router, body)
		assert.Equal(t, http.StatusNotFound, w.Code, "body=%s", body)

		var resp map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Product not found", resp["error"], "body=%s", body)
	}
}

func TestPredictMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	w := postPredict(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestMonitoringLogsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	monitoringService := services.NewMonitoringService()

	router := gin.New()
	router.Use(monitoringService.LoggingMiddleware())
	router.GET("/health", HealthCheck)

	monitoringHandler := NewMonitoringHandler(monitoringService)
	router.GET("/monitoring/logs", monitoringHandler.GetLogs)

	// 何件かリクエストしてからログを取得
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest("GET", "/health", nil)
		assert.NoError(t, err)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	req, err := http.NewRequest("GET", "/monitoring/logs", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Logs    []services.RequestLog      `json:"logs"`
		Summary services.MonitoringSummary `json:"summary"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Logs, 3)
	assert.Equal(t, 3, resp.Summary.TotalRequests)
	assert.Equal(t, 3, resp.Summary.Endpoints["/health"])
}
