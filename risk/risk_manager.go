package risk

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"gitlab.com/optionscope/OptionScope/helpers"
	"gitlab.com/optionscope/OptionScope/models"
	"gitlab.com/optionscope/OptionScope/regime"
)

// Annual risk-free rate backed into the Sharpe calculation, spread over
// daily bars.
const riskFreeRate = 0.02

var validate = validator.New()

// RiskManager evaluates a risk profile against a trade-history snapshot.
// Both are immutable for the life of the manager; build a new manager when
// either changes. Every method recomputes from the snapshot, so calls are
// independent and side-effect free.
type RiskManager struct {
	profile  models.RiskProfile
	history  []models.TradeRecord
	analyzer *regime.MarketRegimeAnalyzer
}

func NewRiskManager(profile models.RiskProfile, history []models.TradeRecord) (*RiskManager, error) {
	if err := validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("risk: invalid profile: %w", err)
	}
	return &RiskManager{
		profile:  profile,
		history:  history,
		analyzer: regime.NewMarketRegimeAnalyzer(),
	}, nil
}

// CalculateRiskMetrics aggregates the trade history. An empty history
// answers the all-zero struct, the documented "no data yet" state. When a
// series is supplied the current regime verdict is embedded alongside.
func (rm *RiskManager) CalculateRiskMetrics(series *models.PriceSeries) models.RiskMetrics {
	metrics := models.RiskMetrics{}
	if len(rm.history) == 0 {
		return metrics
	}

	returns := make([]float64, 0, len(rm.history))
	for _, trade := range rm.history {
		returns = append(returns, trade.ProfitLoss)
	}

	metrics.CurrentDrawdown = maxDrawdown(returns)
	metrics.MaxDrawdown = metrics.CurrentDrawdown

	for i := len(rm.history) - 1; i >= 0; i-- {
		if rm.history[i].ProfitLoss >= 0 {
			break
		}
		metrics.ConsecutiveLosses++
	}

	var wins, losses []float64
	for _, trade := range rm.history {
		if trade.ProfitLoss > 0 {
			wins = append(wins, trade.ProfitLoss)
		} else if trade.ProfitLoss < 0 {
			losses = append(losses, trade.ProfitLoss)
		}
	}

	metrics.WinRate = float64(len(wins)) / float64(len(rm.history))
	metrics.AverageWin = helpers.Mean(wins)
	metrics.AverageLoss = helpers.Mean(losses)
	metrics.LargestWin = helpers.MaxFloat(wins)
	metrics.LargestLoss = helpers.MinFloat(losses)
	metrics.ProfitFactor = profitFactor(metrics.AverageWin, metrics.AverageLoss)
	metrics.Expectancy = metrics.WinRate*metrics.AverageWin + (1-metrics.WinRate)*metrics.AverageLoss
	metrics.KellyCriterion = kellyCriterion(metrics.WinRate, metrics.AverageWin, metrics.AverageLoss)
	metrics.SharpeRatio = sharpeRatio(returns)

	if series != nil {
		verdict, err := rm.analyzer.Analyze(series)
		if err == nil {
			metrics.MarketRegime = verdict
		}
	}

	return metrics
}

// CalculatePositionSize sizes a trade against a strategy's drawdown
// budget: the fixed-fractional estimate and the Kelly estimate are both
// computed and the smaller one wins, capped at 10% of the account. With no
// trade history the Kelly fraction is 0 and so is the answer: sizing
// starts from evidence, not hope.
func (rm *RiskManager) CalculatePositionSize(maxDrawdownBudget float64) float64 {
	if maxDrawdownBudget <= 0 {
		return 0
	}

	maxLossAmount := rm.profile.AccountBalance * rm.profile.MaxLossPerTrade
	positionSize := maxLossAmount / maxDrawdownBudget

	metrics := rm.CalculateRiskMetrics(nil)
	kellySize := rm.profile.AccountBalance * metrics.KellyCriterion

	conservativeSize := math.Min(positionSize, kellySize)
	if conservativeSize < 0 {
		return 0
	}
	return math.Min(conservativeSize, rm.profile.AccountBalance*0.1)
}

// RecommendedStrategies filters the catalog down to what the profile
// tolerates: conservative keeps low risk only, moderate adds medium,
// aggressive takes all, and a preferred market bias restricts further.
// With a series the detected regime narrows the list to its allowlist and
// rescales each position size by confidence and a per-regime multiplier.
// A failed regime analysis falls back to the profile-only filtering.
func (rm *RiskManager) RecommendedStrategies(series *models.PriceSeries) []models.Strategy {
	var filtered []models.Strategy
	for _, strategy := range Catalog {
		if !rm.toleratesRiskLevel(strategy.RiskLevel) {
			continue
		}
		if rm.profile.PreferredMarketBias != "" && strategy.MarketBias != rm.profile.PreferredMarketBias {
			continue
		}
		strategy.RecommendedPositionSize = rm.CalculatePositionSize(strategy.MaxDrawdown)
		filtered = append(filtered, strategy)
	}

	if series == nil {
		return filtered
	}

	verdict, err := rm.analyzer.Analyze(series)
	if err != nil {
		return filtered
	}

	allowed := map[string]bool{}
	for _, name := range rm.analyzer.RecommendedStrategyNames(verdict.Regime) {
		allowed[name] = true
	}

	var recommended []models.Strategy
	for _, strategy := range filtered {
		if !allowed[strategy.Name] {
			continue
		}
		strategy.RecommendedPositionSize *= verdict.Confidence * regimeMultiplier(verdict.Regime)
		recommended = append(recommended, strategy)
	}
	return recommended
}

// ShouldTrade is the binary trade gate. The drawdown and loss-streak
// checks always apply; the win-rate and profit-factor floors depend on the
// detected regime, tightening when volatile and loosening when trending.
func (rm *RiskManager) ShouldTrade(series *models.PriceSeries) bool {
	metrics := rm.CalculateRiskMetrics(series)

	winRateFloor := 0.4
	profitFactorFloor := 1.5
	if metrics.MarketRegime != nil {
		switch metrics.MarketRegime.Regime {
		case models.RegimeVolatile:
			winRateFloor, profitFactorFloor = 0.5, 2.0
		case models.RegimeBullish, models.RegimeBearish:
			winRateFloor, profitFactorFloor = 0.35, 1.3
		}
	}

	return metrics.CurrentDrawdown < rm.profile.MaxDrawdown &&
		metrics.ConsecutiveLosses < 3 &&
		metrics.WinRate >= winRateFloor &&
		metrics.ProfitFactor >= profitFactorFloor
}

func (rm *RiskManager) toleratesRiskLevel(level models.RiskLevel) bool {
	switch rm.profile.RiskTolerance {
	case models.ToleranceConservative:
		return level == models.RiskLevelLow
	case models.ToleranceModerate:
		return level == models.RiskLevelLow || level == models.RiskLevelMedium
	case models.ToleranceAggressive:
		return true
	default:
		return false
	}
}

func regimeMultiplier(detected models.Regime) float64 {
	switch detected {
	case models.RegimeVolatile:
		return 0.7
	case models.RegimeNeutral:
		return 0.9
	default:
		return 1.0
	}
}

// maxDrawdown is the largest peak-to-trough decline over the value list,
// as a fraction of the peak. Peaks at zero contribute nothing rather than
// dividing by zero.
func maxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	worst := 0.0
	for _, value := range values {
		if value > peak {
			peak = value
		}
		if peak == 0 {
			continue
		}
		drawdown := (peak - value) / peak
		if drawdown > worst {
			worst = drawdown
		}
	}
	return worst
}

// profitFactor relates average win to average loss. Without any losses
// (or wins) the ratio is undefined and reads as 0.
func profitFactor(averageWin float64, averageLoss float64) float64 {
	if averageLoss == 0 {
		return 0
	}
	return math.Abs(averageWin / averageLoss)
}

// kellyCriterion is the growth-optimal bet fraction given the observed win
// rate and win/loss magnitudes. Degenerate histories (no losses or no
// wins) read as 0 so sizing falls back to the fixed-fractional estimate.
func kellyCriterion(winRate float64, averageWin float64, averageLoss float64) float64 {
	if averageLoss == 0 || averageWin == 0 {
		return 0
	}
	winLossRatio := math.Abs(averageWin / averageLoss)
	return (winRate*winLossRatio - (1 - winRate)) / winLossRatio
}

// sharpeRatio annualizes mean daily excess return over its deviation.
// A flat return stream has no deviation and reads as 0.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	excessReturns := make([]float64, 0, len(returns))
	for _, r := range returns {
		excessReturns = append(excessReturns, r-riskFreeRate/252)
	}
	avgExcess := helpers.Mean(excessReturns)
	stdDev := helpers.StdDev(excessReturns, avgExcess)
	if stdDev == 0 {
		return 0
	}
	return avgExcess / stdDev * math.Sqrt(252)
}
