package services

import (
	"encoding/json"
	"fmt"
	"os"
)

// CategoryEncoder カテゴリラベルのone-hotエンコーダ。
// 学習時に使ったカテゴリ集合と列順をJSONアーティファクトから復元する。
type CategoryEncoder struct {
	prefix     string
	categories []string
	index      map[string]int
	names      []string
}

// categoryEncoderArtifact category_encoder.json のオンディスク表現
type categoryEncoderArtifact struct {
	Prefix     string   `json:"prefix"`
	Categories []string `json:"categories"`
}

// NewCategoryEncoder は与えられたカテゴリ集合でエンコーダを作る
func NewCategoryEncoder(prefix string, categories []string) *CategoryEncoder {
	if prefix == "" {
		prefix = "category"
	}
	index := make(map[string]int, len(categories))
	names := make([]string, len(categories))
	for i, cat := range categories {
		index[cat] = i
		names[i] = prefix + "_" + cat
	}
	return &CategoryEncoder{prefix: prefix, categories: categories, index: index, names: names}
}

// LoadCategoryEncoder は category_encoder.json を読み込む
func LoadCategoryEncoder(path string) (*CategoryEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact categoryEncoderArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("invalid category encoder artifact: %w", err)
	}
	if len(artifact.Categories) == 0 {
		return nil, fmt.Errorf("category encoder artifact has no categories")
	}
	return NewCategoryEncoder(artifact.Prefix, artifact.Categories), nil
}

// Transform はカテゴリラベルをone-hotベクトルに変換する。
// 学習時に存在しなかったカテゴリは黙って全ゼロにせずエラーにする。
func (e *CategoryEncoder) Transform(category string) ([]float64, error) {
	i, ok := e.index[category]
	if !ok {
		return nil, fmt.Errorf("category %q is not known to the encoder", category)
	}
	vec := make([]float64, len(e.categories))
	vec[i] = 1.0
	return vec, nil
}

// FeatureNames はone-hot列の名前（prefix_カテゴリ）を列順で返す
func (e *CategoryEncoder) FeatureNames() []string {
	return e.names
}
