package models

import "time"

type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "conservative"
	ToleranceModerate     RiskTolerance = "moderate"
	ToleranceAggressive   RiskTolerance = "aggressive"
)

// RiskProfile is the questionnaire outcome a RiskManager is built from.
// It is read-only for the whole life of the manager: a changed profile
// means a new manager.
type RiskProfile struct {
	RiskTolerance       RiskTolerance `json:"riskTolerance" validate:"required,oneof=conservative moderate aggressive"`
	MaxDrawdown         float64       `json:"maxDrawdown" validate:"gt=0,lte=1"`
	TargetReturn        float64       `json:"targetReturn" validate:"gte=0"`
	InvestmentHorizon   int           `json:"investmentHorizon" validate:"gt=0"`
	AccountBalance      float64       `json:"accountBalance" validate:"gt=0"`
	MaxLossPerTrade     float64       `json:"maxLossPerTrade" validate:"gt=0,lte=1"`
	PreferredMarketBias MarketBias    `json:"preferredMarketBias,omitempty" validate:"omitempty,oneof=bullish bearish neutral"`
}

// TradeRecord is one closed trade from the journal.
type TradeRecord struct {
	Date       time.Time `json:"date"`
	Strategy   string    `json:"strategy"`
	ProfitLoss float64   `json:"profitLoss"`
	Drawdown   float64   `json:"drawdown"`
}

// RiskMetrics aggregates a trade history snapshot. All fields are zero for
// an empty history, which is the documented "no data yet" state rather than
// an error.
type RiskMetrics struct {
	CurrentDrawdown   float64        `json:"currentDrawdown"`
	ConsecutiveLosses int            `json:"consecutiveLosses"`
	SharpeRatio       float64        `json:"sharpeRatio"`
	MaxDrawdown       float64        `json:"maxDrawdown"`
	WinRate           float64        `json:"winRate"`
	ProfitFactor      float64        `json:"profitFactor"`
	AverageWin        float64        `json:"averageWin"`
	AverageLoss       float64        `json:"averageLoss"`
	LargestWin        float64        `json:"largestWin"`
	LargestLoss       float64        `json:"largestLoss"`
	Expectancy        float64        `json:"expectancy"`
	KellyCriterion    float64        `json:"kellyCriterion"`
	MarketRegime      *RegimeVerdict `json:"marketRegime,omitempty"`
}
