package database

import (
	"gorm.io/gorm"
)

type RegimeAnalysis struct {
	gorm.Model
	Pair       string
	Interval   string
	Source     string
	Regime     string
	Confidence float64
	Trend      float64
	Momentum   float64
	Volatility float64
	Volume     float64
}
