package services

import (
	"fmt"

	"freshprice-api/pkg/models"
)

// FeatureError は正準特徴量リスト中のある名前に値を供給できなかったことを表す。
// 特徴量の不一致を黙って既定値で埋めると誤った価格判断に直結するため、
// 必ずエラーにして伝播させる。
type FeatureError struct {
	Name string
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("no producer for feature %q", e.Name)
}

// FeatureAssembler はモデルが学習時に使ったのと同じ特徴量集合を
// 同じ順序で組み立てる。順序は外部から与えられる正準リストが決める。
type FeatureAssembler struct {
	names        []string // 正準順序
	encoderNames []string // one-hotカテゴリ列の名前（列順）
}

// NewFeatureAssembler は正準リストとエンコーダ列名からアセンブラを作る
func NewFeatureAssembler(canonical, encoderNames []string) *FeatureAssembler {
	return &FeatureAssembler{names: canonical, encoderNames: encoderNames}
}

// Names は正準特徴量名リストを返す
func (fa *FeatureAssembler) Names() []string {
	return fa.names
}

// Assemble は1回の割引評価に使う特徴量ベクトルを正準順序で組み立てる。
// 交互作用項（割引×緊急度・割引×在庫圧・割引×人気度）もここで算出する。
func (fa *FeatureAssembler) Assemble(discount, inventory float64, daysLeft int, base models.BaseFeatures) ([]float64, error) {
	urgency := PriceSensitivity(daysLeft)
	pressure := InventoryPressure(inventory)

	values := map[string]float64{
		"days_until_expiry":     float64(daysLeft),
		"discount_percentage":   discount,
		"inventory_on_hand":     inventory,
		"full_price":            base.FullPrice,
		"day_of_week":           float64(base.DayOfWeek),
		"is_weekend":            float64(base.IsWeekend),
		"urgency_factor":        urgency,
		"inventory_pressure":    pressure,
		"product_popularity":    base.Popularity,
		"discount_x_urgency":    discount * urgency,
		"discount_x_inventory":  discount * pressure,
		"discount_x_popularity": discount * base.Popularity,
	}
	for i, name := range fa.encoderNames {
		if i < len(base.CategoryVector) {
			values[name] = base.CategoryVector[i]
		}
	}

	vec := make([]float64, len(fa.names))
	for i, name := range fa.names {
		v, ok := values[name]
		if !ok {
			return nil, &FeatureError{Name: name}
		}
		vec[i] = v
	}
	return vec, nil
}
