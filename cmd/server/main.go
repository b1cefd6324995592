package main

import (
	"log"

	config "freshprice-api/configs"
	"freshprice-api/pkg/handlers"
	"freshprice-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	// 起動アセットの読み込み。1つでも欠けていればリクエストを
	// 受け付けずにプロセスを終了する。
	assets, err := services.LoadAssets(cfg.AssetsDir, cfg.CatalogFile)
	if err != nil {
		log.Fatalf("FATAL: failed to load startup assets: %v", err)
	}
	log.Printf("Loaded %d products, %d features (model %s)",
		assets.Catalog.Len(), len(assets.FeatureNames), assets.Model.Info().Version)

	// Ginルーターの初期化
	r := gin.Default()

	// サービスの初期化
	monitoringService := services.NewMonitoringService()
	pricingService := services.NewPricingService(assets)

	// ハンドラーの初期化
	pricingHandler := handlers.NewPricingHandler(pricingService)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// 価格最適化API
	r.GET("/products", pricingHandler.GetProducts)
	r.POST("/predict", pricingHandler.Predict)

	// モニタリングAPI
	monitoring := r.Group("/monitoring")
	{
		monitoring.GET("/logs", monitoringHandler.GetLogs)
	}

	log.Println("Starting FreshPrice API server on :" + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
