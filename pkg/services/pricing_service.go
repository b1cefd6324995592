package services

import (
	"errors"
	"math"
	"time"

	"freshprice-api/pkg/models"
)

// ErrProductNotFound は未知の商品IDに対して返す
var ErrProductNotFound = errors.New("product not found")

// 最適化に使う割引率の探索範囲。本最適化は0〜90%、
// フォーキャストの日次再最適化は0〜80%で探索する。
const (
	primaryDiscountUpper  = 0.9
	forecastDiscountUpper = 0.8
	aggressiveDiscount    = 0.7
)

// PricingService 価格最適化エンジン本体。
// 保持するのは起動時に読み込んだ不変のアーティファクトへの参照だけで、
// リクエストをまたぐ可変状態は持たない。
type PricingService struct {
	model          DemandModel
	encoder        *CategoryEncoder
	catalog        *Catalog
	assembler      *FeatureAssembler
	dayFactor      map[int]float64
	categoryFactor map[string]float64
	now            func() time.Time
}

// NewPricingService はアセット一式から価格最適化サービスを作る
func NewPricingService(assets *Assets) *PricingService {
	return &PricingService{
		model:          assets.Model,
		encoder:        assets.Encoder,
		catalog:        assets.Catalog,
		assembler:      NewFeatureAssembler(assets.FeatureNames, assets.Encoder.FeatureNames()),
		dayFactor:      assets.DayDemandFactor,
		categoryFactor: assets.CategoryDemandFactor,
		now:            time.Now,
	}
}

// Products はカタログの商品要約一覧を返す
func (s *PricingService) Products() []models.ProductSummary {
	return s.catalog.List()
}

// Evaluate は1つの割引率に対する予測メトリクスを算出する純関数。
// モデルの生予測は物理的に不可能な値を取り得るため [0, inventory] に
// クランプしてから各指標を導出する。
func (s *PricingService) Evaluate(discount, inventory float64, daysLeft int, base models.BaseFeatures) (models.PredictionMetrics, error) {
	features, err := s.assembler.Assemble(discount, inventory, daysLeft, base)
	if err != nil {
		return models.PredictionMetrics{}, err
	}
	sales, err := s.model.Predict(features)
	if err != nil {
		return models.PredictionMetrics{}, err
	}
	sales = clamp(sales, 0, inventory)

	price := base.FullPrice * (1 - discount)
	revenue := price * sales
	cost := base.CostPrice * sales
	profit := revenue - cost
	waste := inventory - sales
	wasteCost := waste * base.CostPrice

	return models.PredictionMetrics{
		DiscountPercentage: discount * 100,
		Price:              price,
		ExpectedSales:      sales,
		ExpectedRevenue:    revenue,
		ExpectedWaste:      waste,
		ExpectedProfit:     profit,
		ExpectedLoss:       wasteCost,
		NetProfit:          profit - wasteCost,
	}, nil
}

// optimizeDiscount は純利益を最大化する割引率を [lower, upper] で探索する
func (s *PricingService) optimizeDiscount(lower, upper, inventory float64, daysLeft int, base models.BaseFeatures) (float64, error) {
	var evalErr error
	objective := func(discount float64) float64 {
		m, err := s.Evaluate(discount, inventory, daysLeft, base)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.Inf(1)
		}
		return -m.NetProfit
	}
	best := MinimizeScalar(objective, lower, upper)
	if evalErr != nil {
		return 0, evalErr
	}
	return best, nil
}

// baseFeatures は商品と基準日からその日の基礎特徴量を組み立てる
func (s *PricingService) baseFeatures(p models.Product, day time.Time) (models.BaseFeatures, error) {
	categoryVector, err := s.encoder.Transform(p.Category)
	if err != nil {
		return models.BaseFeatures{}, err
	}
	dow := pandasWeekday(day)
	return models.BaseFeatures{
		FullPrice:      p.FullPrice,
		CostPrice:      p.CostPrice,
		Popularity:     p.Popularity,
		CategoryVector: categoryVector,
		DayOfWeek:      dow,
		IsWeekend:      weekendFlag(dow),
	}, nil
}

// simulateForecast は在庫を日次で減らしながら毎日再最適化する。
// 各日の最適化はその日単体の純利益に対する強欲な判断で、
// 複数日をまたぐ大域最適ではない。在庫が尽きても残り日数分の
// ゼロ販売エントリを出し続ける。
func (s *PricingService) simulateForecast(inventory float64, daysLeft int, base models.BaseFeatures, today time.Time) ([]models.ForecastDay, error) {
	forecast := make([]models.ForecastDay, 0)
	simInventory := inventory
	for day := 0; day < daysLeft; day++ {
		remaining := daysLeft - day
		dow := pandasWeekday(today.AddDate(0, 0, day))
		dayBase := base
		dayBase.DayOfWeek = dow
		dayBase.IsWeekend = weekendFlag(dow)

		discount, err := s.optimizeDiscount(0.0, forecastDiscountUpper, simInventory, remaining, dayBase)
		if err != nil {
			return nil, err
		}
		m, err := s.Evaluate(discount, simInventory, remaining, dayBase)
		if err != nil {
			return nil, err
		}

		demand := 0.0
		if simInventory > 0 {
			demand = m.ExpectedSales / simInventory * 100
		}
		forecast = append(forecast, models.ForecastDay{
			Day:              day + 1,
			RecommendedPrice: m.Price,
			ExpectedDemand:   demand,
			ExpectedSales:    m.ExpectedSales,
		})
		simInventory = math.Max(0.0, simInventory-m.ExpectedSales)
	}
	return forecast, nil
}

// FindOptimalPricing は商品1件の最適割引・シナリオ比較・売り減らし
// フォーキャスト・効果見積もりをまとめた結果を返す。
func (s *PricingService) FindOptimalPricing(productID string, inventory, daysLeft int, currentDiscount float64) (*models.PricingResult, error) {
	product, ok := s.catalog.Get(productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	now := s.now()
	base, err := s.baseFeatures(product, now)
	if err != nil {
		return nil, err
	}
	inv := float64(inventory)

	// 純利益を最大化する割引率を探索
	bestDiscount, err := s.optimizeDiscount(0.0, primaryDiscountUpper, inv, daysLeft, base)
	if err != nil {
		return nil, err
	}
	scOptimal, err := s.Evaluate(bestDiscount, inv, daysLeft, base)
	if err != nil {
		return nil, err
	}

	// 比較シナリオ：現状維持と固定70%引き
	scCurrent, err := s.Evaluate(currentDiscount, inv, daysLeft, base)
	if err != nil {
		return nil, err
	}
	scAggressive, err := s.Evaluate(aggressiveDiscount, inv, daysLeft, base)
	if err != nil {
		return nil, err
	}

	forecast, err := s.simulateForecast(inv, daysLeft, base, now)
	if err != nil {
		return nil, err
	}

	priceChange := 0.0
	if scCurrent.Price > 0 {
		priceChange = (scOptimal.Price - scCurrent.Price) / scCurrent.Price * 100
	}
	wasteReduction := 0.0
	if scCurrent.ExpectedWaste > 0 {
		wasteReduction = (scCurrent.ExpectedWaste - scOptimal.ExpectedWaste) / scCurrent.ExpectedWaste * 100
	}
	sellThrough := 0.0
	if inventory > 0 {
		sellThrough = scOptimal.ExpectedSales / inv * 100
	}

	info := s.model.Info()
	return &models.PricingResult{
		PredictionDate: now.Format(time.RFC3339),
		CurrentMetrics: models.CurrentMetrics{
			CurrentPrice:  scCurrent.Price,
			StockLevel:    inventory,
			DaysToExpiry:  daysLeft,
			DemandScore:   clamp(product.Popularity*50, 0, 100),
			SalesVelocity: s.salesVelocity(base.DayOfWeek, product.Category),
		},
		Recommendations: models.Recommendations{
			OptimalPrice:       scOptimal.Price,
			PriceChangePercent: priceChange,
			ConfidenceScore:    info.R2Score * 100,
			Reasoning:          "Net Profit Optimized",
		},
		Scenarios: models.Scenarios{
			Current:    scCurrent,
			Optimal:    scOptimal,
			Aggressive: scAggressive,
		},
		Forecast: forecast,
		Impact: models.Impact{
			WasteReduction:  wasteReduction,
			ProfitIncrease:  scOptimal.NetProfit - scCurrent.NetProfit,
			RevenueChange:   scOptimal.ExpectedRevenue - scCurrent.ExpectedRevenue,
			SellThroughRate: sellThrough,
		},
		Algorithm: models.AlgorithmInfo{
			Version:   info.Version,
			ModelType: info.ModelType,
			Features:  s.assembler.Names(),
			Accuracy:  info.R2Score * 100,
		},
	}, nil
}

// salesVelocity は曜日係数×カテゴリ係数。テーブルに無いキーは1.0扱い。
func (s *PricingService) salesVelocity(dayOfWeek int, category string) float64 {
	dayFactor, ok := s.dayFactor[dayOfWeek]
	if !ok {
		dayFactor = 1.0
	}
	categoryFactor, ok := s.categoryFactor[category]
	if !ok {
		categoryFactor = 1.0
	}
	return dayFactor * categoryFactor
}

// pandasWeekday はGoの日曜始まりの曜日を、係数テーブルと学習データが
// 使うMonday=0の番号に変換する
func pandasWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func weekendFlag(dayOfWeek int) int {
	if dayOfWeek >= 5 {
		return 1
	}
	return 0
}
