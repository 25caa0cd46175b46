package database

import (
	"gorm.io/gorm"
	"time"
)

type TradeRecord struct {
	gorm.Model
	Date       time.Time
	Strategy   string
	ProfitLoss float64
	Drawdown   float64
}
