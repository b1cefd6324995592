package services

import (
	"errors"
	"testing"

	"freshprice-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

// testFeatureNames はテスト用の正準特徴量順リスト。
// この並びがモデル学習時の並びに相当し、テストで固定される。
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

func testBaseFeatures() models.BaseFeatures {
	return models.BaseFeatures{
		FullPrice:      10.0,
		CostPrice:      4.0,
		Popularity:     0.5,
		CategoryVector: []float64{0, 1}, // Dairy
		DayOfWeek:      2,
		IsWeekend:      0,
	}
}

func TestAssembleExactOrder(t *testing.T) {
	fa := NewFeatureAssembler(testFeatureNames(), []string{"category_Bakery", "category_Dairy"})

	vec, err := fa.Assemble(0.5, 50, 3, testBaseFeatures())
	assert.NoError(t, err)

	// urgency=4.0（残り3日）、pressure=1.1（在庫50）で全項目を固定
	expected := []float64{
		3,    // days_until_expiry
		0.5,  // discount_percentage
		50,   // inventory_on_hand
		10,   // full_price
		2,    // day_of_week
		0,    // is_weekend
		4,    // urgency_factor
		1.1,  // inventory_pressure
		0.5,  // product_popularity
		2.0,  // discount_x_urgency
		0.55, // discount_x_inventory
		0.25, // discount_x_popularity
		0,    // category_Bakery
		1,    // category_Dairy
	}
	assert.Len(t, vec, len(expected))
	assert.InDeltaSlice(t, expected, vec, 1e-12)
}

func TestAssembleUnknownFeatureIsHardError(t *testing.T) {
	names := append(testFeatureNames(), "mystery_feature")
	fa := NewFeatureAssembler(names, []string{"category_Bakery", "category_Dairy"})

	vec, err := fa.Assemble(0.1, 50, 3, testBaseFeatures())
	assert.Nil(t, vec)
	assert.Error(t, err)

	// 既定値で埋めず、欠けた特徴量名を持つFeatureErrorになる
	var featureErr *FeatureError
	assert.True(t, errors.As(err, &featureErr))
	assert.Equal(t, "mystery_feature", featureErr.Name)
}

func TestAssembleInteractionTerms(t *testing.T) {
	fa := NewFeatureAssembler(
		[]string{"discount_x_urgency", "discount_x_inventory", "discount_x_popularity"},
		nil,
	)

	// 残り1日: urgency=7.0、在庫90: pressure=0.9
	vec, err := fa.Assemble(0.2, 90, 1, testBaseFeatures())
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.2 * 7.0, 0.2 * 0.9, 0.2 * 0.5}, vec, 1e-12)
}
