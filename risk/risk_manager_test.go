package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/optionscope/OptionScope/models"
)

func testProfile() models.RiskProfile {
	return models.RiskProfile{
		RiskTolerance:     models.ToleranceModerate,
		MaxDrawdown:       0.2,
		TargetReturn:      0.15,
		InvestmentHorizon: 90,
		AccountBalance:    10000,
		MaxLossPerTrade:   0.01,
	}
}

func trades(profitLosses ...float64) []models.TradeRecord {
	history := make([]models.TradeRecord, 0, len(profitLosses))
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, profitLoss := range profitLosses {
		history = append(history, models.TradeRecord{
			Date:       date.AddDate(0, 0, i),
			Strategy:   "Iron Condor",
			ProfitLoss: profitLoss,
		})
	}
	return history
}

func priceSeries(prices []float64) *models.PriceSeries {
	series := models.NewPriceSeries()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, price := range prices {
		series.AddSample(start.Add(time.Duration(i)*time.Hour), price, 1000)
	}
	return series
}

func bullishSeries() *models.PriceSeries {
	return priceSeries([]float64{100, 101, 100.5, 101.5, 102, 101.5, 102.5, 103, 102.5, 103.5,
		104, 103.5, 104.5, 105, 104.5, 105.5, 106, 105.5, 106.5, 107})
}

func volatileSeries() *models.PriceSeries {
	return priceSeries([]float64{100, 120, 95, 125, 90, 122, 93, 126, 91, 124,
		94, 121, 96, 127, 92, 123, 95, 125, 90, 122})
}

func TestNewRiskManagerValidatesProfile(t *testing.T) {
	profile := testProfile()
	profile.RiskTolerance = "reckless"
	_, err := NewRiskManager(profile, nil)
	assert.Error(t, err)

	profile = testProfile()
	profile.AccountBalance = 0
	_, err = NewRiskManager(profile, nil)
	assert.Error(t, err)

	_, err = NewRiskManager(testProfile(), nil)
	assert.Nil(t, err)
}

func TestCalculateRiskMetricsEmptyHistory(t *testing.T) {
	manager, _ := NewRiskManager(testProfile(), nil)

	metrics := manager.CalculateRiskMetrics(nil)

	assert.Equal(t, models.RiskMetrics{}, metrics, "no data yet reads as the all-zero struct")
}

func TestCalculateRiskMetrics(t *testing.T) {
	manager, _ := NewRiskManager(testProfile(), trades(-1, -1, 2, 2, 2))

	metrics := manager.CalculateRiskMetrics(nil)

	assert.InDelta(t, 0.6, metrics.WinRate, 1e-12)
	assert.InDelta(t, 2.0, metrics.AverageWin, 1e-12)
	assert.InDelta(t, -1.0, metrics.AverageLoss, 1e-12)
	assert.InDelta(t, 2.0, metrics.ProfitFactor, 1e-12)
	assert.Equal(t, 2.0, metrics.LargestWin)
	assert.Equal(t, -1.0, metrics.LargestLoss)
	assert.InDelta(t, 0.8, metrics.Expectancy, 1e-12)
	assert.InDelta(t, 0.4, metrics.KellyCriterion, 1e-12)
	assert.Equal(t, 0, metrics.ConsecutiveLosses)
	assert.Equal(t, 0.0, metrics.CurrentDrawdown, "losses before the first peak do not draw down")
	assert.Nil(t, metrics.MarketRegime)
}

func TestCalculateRiskMetricsConsecutiveLossesAndDrawdown(t *testing.T) {
	manager, _ := NewRiskManager(testProfile(), trades(2, -1, -1))

	metrics := manager.CalculateRiskMetrics(nil)

	assert.Equal(t, 2, metrics.ConsecutiveLosses)
	assert.InDelta(t, 1.5, metrics.CurrentDrawdown, 1e-12)
	assert.Equal(t, metrics.CurrentDrawdown, metrics.MaxDrawdown)
}

func TestCalculateRiskMetricsEmbedsRegime(t *testing.T) {
	manager, _ := NewRiskManager(testProfile(), trades(1, 1, -0.5))

	metrics := manager.CalculateRiskMetrics(bullishSeries())

	assert.NotNil(t, metrics.MarketRegime)
	assert.Equal(t, models.RegimeBullish, metrics.MarketRegime.Regime)
}

func TestCalculatePositionSize(t *testing.T) {
	history := trades(-1, -1, 2, 2, 2) // Kelly fraction 0.4
	manager, _ := NewRiskManager(testProfile(), history)

	assert.Equal(t, 0.0, manager.CalculatePositionSize(0))
	assert.Equal(t, 0.0, manager.CalculatePositionSize(-0.1))

	// Fixed-fractional estimate wins: 10000*0.01/0.15 = 666.67 < Kelly's 4000.
	assert.InDelta(t, 666.67, manager.CalculatePositionSize(0.15), 0.01)

	// Both estimates exceed 10% of the account; the cap wins.
	assert.InDelta(t, 1000.0, manager.CalculatePositionSize(0.05), 1e-9)
}

func TestCalculatePositionSizeEmptyHistoryIsZero(t *testing.T) {
	manager, _ := NewRiskManager(testProfile(), nil)

	// No evidence means a zero Kelly fraction, and sizing starts from evidence.
	assert.Equal(t, 0.0, manager.CalculatePositionSize(0.15))
}

func TestCalculatePositionSizeMonotonicInBalance(t *testing.T) {
	history := trades(-1, -1, 2, 2, 2)

	previous := 0.0
	for _, balance := range []float64{1000, 5000, 10000, 50000, 250000} {
		profile := testProfile()
		profile.AccountBalance = balance
		manager, err := NewRiskManager(profile, history)
		assert.Nil(t, err)

		size := manager.CalculatePositionSize(0.15)
		assert.GreaterOrEqual(t, size, previous)
		previous = size
	}
}

func TestRecommendedStrategiesRespectsTolerance(t *testing.T) {
	profile := testProfile()
	profile.RiskTolerance = models.ToleranceConservative
	manager, _ := NewRiskManager(profile, trades(-1, -1, 2, 2, 2))

	for _, strategy := range manager.RecommendedStrategies(nil) {
		assert.Equal(t, models.RiskLevelLow, strategy.RiskLevel)
	}

	profile.RiskTolerance = models.ToleranceModerate
	manager, _ = NewRiskManager(profile, nil)
	for _, strategy := range manager.RecommendedStrategies(nil) {
		assert.NotEqual(t, models.RiskLevelHigh, strategy.RiskLevel)
	}

	profile.RiskTolerance = models.ToleranceAggressive
	manager, _ = NewRiskManager(profile, nil)
	assert.Len(t, manager.RecommendedStrategies(nil), len(Catalog))
}

func TestRecommendedStrategiesRespectsBias(t *testing.T) {
	profile := testProfile()
	profile.RiskTolerance = models.ToleranceConservative
	profile.PreferredMarketBias = models.BiasBullish
	manager, _ := NewRiskManager(profile, trades(-1, -1, 2, 2, 2))

	recommended := manager.RecommendedStrategies(nil)
	assert.Len(t, recommended, 1)
	assert.Equal(t, "Covered Call", recommended[0].Name)
	assert.Greater(t, recommended[0].RecommendedPositionSize, 0.0)
}

func TestRecommendedStrategiesRestrictedByRegime(t *testing.T) {
	manager, _ := NewRiskManager(testProfile(), trades(-1, -1, 2, 2, 2))

	bullishAllowed := map[string]bool{
		"Bull Call Spread": true,
		"Covered Call":     true,
		"Bull Put Spread":  true,
	}

	unrestricted := map[string]float64{}
	for _, strategy := range manager.RecommendedStrategies(nil) {
		unrestricted[strategy.Name] = strategy.RecommendedPositionSize
	}

	recommended := manager.RecommendedStrategies(bullishSeries())
	assert.NotEmpty(t, recommended)
	for _, strategy := range recommended {
		assert.True(t, bullishAllowed[strategy.Name], "%s is outside the bullish allowlist", strategy.Name)
		assert.LessOrEqual(t, strategy.RecommendedPositionSize, unrestricted[strategy.Name],
			"confidence scaling never inflates the size")
	}
}

func TestShouldTradeRegimeFloors(t *testing.T) {
	// 11 equal losses then 9 wins of 1.4: win rate 0.45, profit factor 1.4,
	// no drawdown past the running peak and no trailing loss streak.
	profitLosses := make([]float64, 0, 20)
	for i := 0; i < 11; i++ {
		profitLosses = append(profitLosses, -1)
	}
	for i := 0; i < 9; i++ {
		profitLosses = append(profitLosses, 1.4)
	}
	manager, _ := NewRiskManager(testProfile(), trades(profitLosses...))

	assert.False(t, manager.ShouldTrade(nil), "profit factor 1.4 misses the 1.5 baseline floor")
	assert.True(t, manager.ShouldTrade(bullishSeries()), "a trending regime relaxes the floors to 0.35/1.3")
	assert.False(t, manager.ShouldTrade(volatileSeries()), "a volatile regime tightens the floors to 0.5/2.0")
}

func TestShouldTradeBlocksLossStreaksAndDrawdown(t *testing.T) {
	manager, _ := NewRiskManager(testProfile(), trades(2, 2, 2, -0.1, -0.1, -0.1))
	assert.False(t, manager.ShouldTrade(nil), "three consecutive losses close the gate")

	manager, _ = NewRiskManager(testProfile(), nil)
	assert.False(t, manager.ShouldTrade(nil), "an empty history has nothing to trade on")
}
