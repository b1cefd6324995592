package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Assets 起動時に読み込む学習済みアーティファクト一式。
// 全て読み込み後は不変で、リクエスト間で安全に共有できる。
type Assets struct {
	Model                DemandModel
	Encoder              *CategoryEncoder
	Catalog              *Catalog
	FeatureNames         []string
	DayDemandFactor      map[int]float64
	CategoryDemandFactor map[string]float64
}

// LoadAssets は ASSETS_DIR 配下の6つのアーティファクトを読み込む。
// 1つでも欠けるか壊れていればエラーを返し、呼び出し側（main）は
// リクエストを受け付けずにプロセスを終了させる。
func LoadAssets(dir, catalogFile string) (*Assets, error) {
	featureNames, err := loadFeatureNames(filepath.Join(dir, "features.json"))
	if err != nil {
		return nil, fmt.Errorf("features.json: %w", err)
	}

	model, err := LoadLinearDemandModel(filepath.Join(dir, "demand_model.json"), featureNames)
	if err != nil {
		return nil, fmt.Errorf("demand_model.json: %w", err)
	}

	encoder, err := LoadCategoryEncoder(filepath.Join(dir, "category_encoder.json"))
	if err != nil {
		return nil, fmt.Errorf("category_encoder.json: %w", err)
	}

	catalog, err := LoadCatalog(filepath.Join(dir, catalogFile))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", catalogFile, err)
	}

	dayFactor, err := loadDayDemandFactor(filepath.Join(dir, "real_day_demand_factor.json"))
	if err != nil {
		return nil, fmt.Errorf("real_day_demand_factor.json: %w", err)
	}

	categoryFactor, err := loadCategoryDemandFactor(filepath.Join(dir, "real_category_demand_factor.json"))
	if err != nil {
		return nil, fmt.Errorf("real_category_demand_factor.json: %w", err)
	}

	return &Assets{
		Model:                model,
		Encoder:              encoder,
		Catalog:              catalog,
		FeatureNames:         featureNames,
		DayDemandFactor:      dayFactor,
		CategoryDemandFactor: categoryFactor,
	}, nil
}

// loadFeatureNames はモデル学習時の正準特徴量順リストを読み込む
func loadFeatureNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("invalid feature name list: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("feature name list is empty")
	}
	return names, nil
}

// loadDayDemandFactor は曜日→需要係数テーブルを読み込む。
// JSONのキーは文字列なのでpandas曜日番号（Monday=0）のintに変換する。
func loadDayDemandFactor(path string) (map[int]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid day demand factor table: %w", err)
	}
	factors := make(map[int]float64, len(raw))
	for key, factor := range raw {
		day, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("day demand factor table has non-numeric day key %q", key)
		}
		factors[day] = factor
	}
	return factors, nil
}

// loadCategoryDemandFactor はカテゴリ→需要係数テーブルを読み込む
func loadCategoryDemandFactor(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var factors map[string]float64
	if err := json.Unmarshal(data, &factors); err != nil {
		return nil, fmt.Errorf("invalid category demand factor table: %w", err)
	}
	return factors, nil
}
