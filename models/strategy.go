package models

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

type MarketBias string

const (
	BiasBullish MarketBias = "bullish"
	BiasBearish MarketBias = "bearish"
	BiasNeutral MarketBias = "neutral"
)

type StrategySetup struct {
	Entry    []string `json:"entry"`
	Exit     []string `json:"exit"`
	StopLoss string   `json:"stopLoss"`
}

// Strategy is one option-strategy catalog entry. Catalog entries are static
// data; RecommendedPositionSize is filled in per recommendation pass and is
// never stored back into the catalog.
type Strategy struct {
	Name                    string        `json:"name"`
	Description             string        `json:"description"`
	RiskLevel               RiskLevel     `json:"riskLevel"`
	ExpectedReturn          float64       `json:"expectedReturn"`
	MaxDrawdown             float64       `json:"maxDrawdown"`
	SharpeRatio             float64       `json:"sharpeRatio"`
	ProbabilityOfProfit     float64       `json:"probabilityOfProfit"`
	MarketBias              MarketBias    `json:"marketBias"`
	RecommendedPositionSize float64       `json:"recommendedPositionSize"`
	Setup                   StrategySetup `json:"setup"`
}
