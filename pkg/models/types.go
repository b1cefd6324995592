package models

// Product 商品マスタの1商品。起動時にカタログから読み込み、以降は読み取り専用。
type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	FullPrice  float64 `json:"full_price"` // 定価（>0）
	CostPrice  float64 `json:"cost_price"` // 仕入原価（>=0）
	Popularity float64 `json:"popularity"` // 人気度スコア
}

// ProductSummary GET /products 用の要約表現
type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// PredictRequest POST /predict のリクエストボディ。
// ゼロ値（stockLevel=0 など）と欠落を区別するためポインタで受ける。
type PredictRequest struct {
	ProductID    *string `json:"productId" binding:"required"`
	StockLevel   *int    `json:"stockLevel" binding:"required"`
	DaysToExpiry *int    `json:"daysToExpiry" binding:"required"`
}

// BaseFeatures 1リクエスト（またはフォーキャストの1日）分の基礎特徴量。
// 算出後は不変。フォーキャストでは曜日と週末フラグだけ差し替えたコピーを使う。
type BaseFeatures struct {
	FullPrice      float64
	CostPrice      float64
	Popularity     float64
	CategoryVector []float64
	DayOfWeek      int // Monday=0（学習データのpandas曜日番号に合わせる）
	IsWeekend      int
}

// PredictionMetrics 1つの割引率を評価した結果の予測メトリクス
type PredictionMetrics struct {
	DiscountPercentage float64 `json:"discountPercentage"` // 割引率（%表記）
	Price              float64 `json:"price"`
	ExpectedSales      float64 `json:"expectedSales"`
	ExpectedRevenue    float64 `json:"expectedRevenue"`
	ExpectedWaste      float64 `json:"expectedWaste"`
	ExpectedProfit     float64 `json:"expectedProfit"`
	ExpectedLoss       float64 `json:"expectedLoss"`
	NetProfit          float64 `json:"netProfit"`
}

// ForecastDay フォーキャスト1日分のエントリ
type ForecastDay struct {
	Day              int     `json:"day"` // 1始まり
	RecommendedPrice float64 `json:"recommendedPrice"`
	ExpectedDemand   float64 `json:"expectedDemand"` // その日の開始在庫に対する販売割合（%）
	ExpectedSales    float64 `json:"expectedSales"`
}

// CurrentMetrics 現状の在庫・価格の要約
type CurrentMetrics struct {
	CurrentPrice  float64 `json:"currentPrice"`
	StockLevel    int     `json:"stockLevel"`
	DaysToExpiry  int     `json:"daysToExpiry"`
	DemandScore   float64 `json:"demandScore"`
	SalesVelocity float64 `json:"salesVelocity"`
}

// Recommendations 推奨価格とその根拠
type Recommendations struct {
	OptimalPrice       float64 `json:"optimalPrice"`
	PriceChangePercent float64 `json:"priceChangePercent"`
	ConfidenceScore    float64 `json:"confidenceScore"`
	Reasoning          string  `json:"reasoning"`
}

// Scenarios 現状・最適・アグレッシブの3シナリオ比較
type Scenarios struct {
	Current    PredictionMetrics `json:"current"`
	Optimal    PredictionMetrics `json:"optimal"`
	Aggressive PredictionMetrics `json:"aggressive"`
}

// Impact 最適化による効果の見積もり
type Impact struct {
	WasteReduction  float64 `json:"wasteReduction"` // 廃棄削減率（%）
	ProfitIncrease  float64 `json:"profitIncrease"`
	RevenueChange   float64 `json:"revenueChange"`
	SellThroughRate float64 `json:"sellThroughRate"` // 販売消化率（%）
}

// AlgorithmInfo 使用した需要予測モデルの静的メタデータ
type AlgorithmInfo struct {
	Version   string   `json:"version"`
	ModelType string   `json:"modelType"`
	Features  []string `json:"features"`
	Accuracy  float64  `json:"accuracy"`
}

// PricingResult POST /predict が返す最終結果
type PricingResult struct {
	PredictionDate  string          `json:"predictionDate"`
	CurrentMetrics  CurrentMetrics  `json:"currentMetrics"`
	Recommendations Recommendations `json:"recommendations"`
	Scenarios       Scenarios       `json:"scenarios"`
	Forecast        []ForecastDay   `json:"forecast"`
	Impact          Impact          `json:"impact"`
	Algorithm       AlgorithmInfo   `json:"algorithm"`
}
