package handlers

import (
	"errors"
	"net/http"

	"freshprice-api/pkg/models"
	"freshprice-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PricingHandler 価格最適化APIのハンドラー
type PricingHandler struct {
	pricingService *services.PricingService
}

// NewPricingHandler 新しい価格最適化ハンドラーを作成
func NewPricingHandler(pricingService *services.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// GetPricingService は、ハンドラーが持つ価格最適化サービスへの参照を返す
func (ph *PricingHandler) GetPricingService() *services.PricingService {
	return ph.pricingService
}

// HealthCheck ヘルスチェックエンドポイント
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "FreshPrice API",
	})
}

// GetProducts 商品一覧（ID・名前・カテゴリ）を返す。
// フロントエンドのドロップダウン用。
func (ph *PricingHandler) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, ph.pricingService.Products())
}

// predictFieldNames バリデーションエラーの構造体フィールド名をJSONの
// フィールド名に戻すための対応表
var predictFieldNames = map[string]string{
	"ProductID":    "productId",
	"StockLevel":   "stockLevel",
	"DaysToExpiry": "daysToExpiry",
}

// Predict 商品ID・在庫数・残り日数を受け取り、価格最適化結果一式を返す
func (ph *PricingHandler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 必須フィールドの欠落は欠けたフィールド名を添えて返す
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			field := validationErrors[0].Field()
			if jsonName, ok := predictFieldNames[field]; ok {
				field = jsonName
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Missing required field: " + field,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	// 現状割引は0%として扱う
	result, err := ph.pricingService.FindOptimalPricing(*req.ProductID, *req.StockLevel, *req.DaysToExpiry, 0.0)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "An internal error occurred: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
