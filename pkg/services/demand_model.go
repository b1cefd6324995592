package services

import (
	"encoding/json"
	"fmt"
	"os"
)

// ModelInfo 学習済み需要予測モデルの静的メタデータ
type ModelInfo struct {
	Version   string
	ModelType string
	R2Score   float64
}

// DemandModel 需要予測モデルのインターフェース。
// モデルの学習・検証・保存は本システムの範囲外で、エンジンからは
// 不透明な純関数呼び出しとして扱う。
type DemandModel interface {
	// Predict は正準順序の特徴量ベクトルから期待販売数を返す
	Predict(features []float64) (float64, error)
	Info() ModelInfo
}

// LinearDemandModel JSONアーティファクトから復元する線形の需要予測モデル
type LinearDemandModel struct {
	info      ModelInfo
	intercept float64
	weights   []float64 // 正準特徴量順
}

// demandModelArtifact demand_model.json のオンディスク表現
type demandModelArtifact struct {
	Version   string             `json:"version"`
	ModelType string             `json:"model_type"`
	R2Score   float64            `json:"r2_score"`
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

// NewLinearDemandModel は特徴量名→係数のマップを正準順序に並べてモデルを作る。
// 正準リストにあるのに係数が無い特徴量は設定エラーとして弾く。
func NewLinearDemandModel(info ModelInfo, intercept float64, weights map[string]float64, featureNames []string) (*LinearDemandModel, error) {
	ordered := make([]float64, len(featureNames))
	for i, name := range featureNames {
		w, ok := weights[name]
		if !ok {
			return nil, fmt.Errorf("model artifact has no weight for feature %q", name)
		}
		ordered[i] = w
	}
	return &LinearDemandModel{info: info, intercept: intercept, weights: ordered}, nil
}

// LoadLinearDemandModel は demand_model.json を読み込む
func LoadLinearDemandModel(path string, featureNames []string) (*LinearDemandModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact demandModelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("invalid demand model artifact: %w", err)
	}
	info := ModelInfo{
		Version:   artifact.Version,
		ModelType: artifact.ModelType,
		R2Score:   artifact.R2Score,
	}
	return NewLinearDemandModel(info, artifact.Intercept, artifact.Weights, featureNames)
}

// Predict は intercept + Σ w_i * x_i を返す
func (m *LinearDemandModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("demand model expects %d features, got %d", len(m.weights), len(features))
	}
	y := m.intercept
	for i, w := range m.weights {
		y += w * features[i]
	}
	return y, nil
}

// Info はモデルのメタデータを返す
func (m *LinearDemandModel) Info() ModelInfo {
	return m.info
}
