package data

import (
	"encoding/json"
	"fmt"
	"os"

	"md-shaving/internal/model"
)

// WeihengTianwuPoints is the WEIHENG TIANWU series laboratory dataset:
// 21 SOH measurements over 20 years. Steep initial loss, near-linear
// decline to the year-15 warranty end of life, then accelerating decay to
// the year-20 calendar limit.
var WeihengTianwuPoints = []model.DegradationPoint{
	{AgeYears: 0, SOH: 1.0000},
	{AgeYears: 1, SOH: 0.9378},
	{AgeYears: 2, SOH: 0.9285},
	{AgeYears: 3, SOH: 0.9192},
	{AgeYears: 4, SOH: 0.9099},
	{AgeYears: 5, SOH: 0.9006},
	{AgeYears: 6, SOH: 0.8913},
	{AgeYears: 7, SOH: 0.8820},
	{AgeYears: 8, SOH: 0.8727},
	{AgeYears: 9, SOH: 0.8634},
	{AgeYears: 10, SOH: 0.8541},
	{AgeYears: 11, SOH: 0.8448},
	{AgeYears: 12, SOH: 0.8355},
	{AgeYears: 13, SOH: 0.8262},
	{AgeYears: 14, SOH: 0.8169},
	{AgeYears: 15, SOH: 0.7995},
	{AgeYears: 16, SOH: 0.7548},
	{AgeYears: 17, SOH: 0.7101},
	{AgeYears: 18, SOH: 0.6654},
	{AgeYears: 19, SOH: 0.6207},
	{AgeYears: 20, SOH: 0.6048},
}

// WeihengTianwuCurve builds the default degradation curve. The dataset is
// fixed reference data, so construction cannot fail.
func WeihengTianwuCurve() *model.DegradationCurve {
	c, err := model.NewDegradationCurve(WeihengTianwuPoints)
	if err != nil {
		panic(err)
	}
	return c
}

type curveFile struct {
	Points []model.DegradationPoint `json:"points"`
}

// LoadCurveJSON reads a degradation curve from a JSON file of the shape
// {"points": [{"age_years": 0, "soh": 1.0}, ...]}.
func LoadCurveJSON(path string) (*model.DegradationCurve, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curve file: %w", err)
	}
	var f curveFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse curve file: %w", err)
	}
	return model.NewDegradationCurve(f.Points)
}
