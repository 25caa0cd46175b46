package regime

import (
	"fmt"
	"math"

	"gitlab.com/optionscope/OptionScope/helpers"
	"gitlab.com/optionscope/OptionScope/indicators"
	"gitlab.com/optionscope/OptionScope/interfaces"
	"gitlab.com/optionscope/OptionScope/models"
)

// Normalization bounds for the raw readings. Values outside them are kept
// as-is rather than clamped: a reading far outside its usual range keeps
// pushing its regime score further, which the scoring below relies on.
const (
	trendLowerBound      = -2.0
	trendUpperBound      = 2.0
	momentumLowerBound   = -0.1
	momentumUpperBound   = 0.1
	volatilityLowerBound = 0.0
	volatilityUpperBound = 0.5
	volumeLowerBound     = 0.5
	volumeUpperBound     = 2.0
)

// MarketRegimeAnalyzer is the rule-based regime classifier. It is
// stateless between calls: Analyze recomputes everything from the series
// snapshot it is handed.
type MarketRegimeAnalyzer struct {
	settings AnalyzerSettings
}

func NewMarketRegimeAnalyzer() *MarketRegimeAnalyzer {
	return &MarketRegimeAnalyzer{settings: NewAnalyzerSettings()}
}

func NewMarketRegimeAnalyzerWithSettings(settings AnalyzerSettings) *MarketRegimeAnalyzer {
	return &MarketRegimeAnalyzer{settings: settings}
}

var _ interfaces.RegimeAnalyzer = (*MarketRegimeAnalyzer)(nil)

// Analyze classifies the series into exactly one regime. Confidence is the
// winning score's share of all four scores, bounded to [0,1]; it is a
// relative measure, not a calibrated probability, and sits near 0.25 when
// the scores are close.
func (mra *MarketRegimeAnalyzer) Analyze(series *models.PriceSeries) (*models.RegimeVerdict, error) {
	if series == nil || series.Len() < 2 {
		return nil, fmt.Errorf("regime: series needs at least 2 samples, got %d", seriesLen(series))
	}

	volatility := indicators.Volatility(series.Prices)
	volumeTrend := indicators.VolumeTrend(series.Volumes, mra.settings.LookbackPeriod)
	trendStrength := indicators.TrendStrength(series.Prices)
	momentum := indicators.Momentum(series.Prices, mra.settings.LookbackPeriod)

	// A zero volume reading is the no-data sentinel; treat it as flat.
	if volumeTrend == 0 {
		volumeTrend = 1
	}

	normalized := models.RegimeIndicators{
		Trend:      normalize(sanitize(trendStrength, 0), trendLowerBound, trendUpperBound),
		Momentum:   normalize(sanitize(momentum, 0), momentumLowerBound, momentumUpperBound),
		Volatility: normalize(sanitize(volatility, 0), volatilityLowerBound, volatilityUpperBound),
		Volume:     normalize(sanitize(volumeTrend, 1), volumeLowerBound, volumeUpperBound),
	}

	return mra.determineRegime(normalized), nil
}

func (mra *MarketRegimeAnalyzer) determineRegime(normalized models.RegimeIndicators) *models.RegimeVerdict {
	trend := normalized.Trend
	momentum := normalized.Momentum
	volatility := normalized.Volatility
	volume := normalized.Volume

	// One linear score per regime, evaluated in models.Regimes order.
	scores := []float64{
		(trend + momentum + volume) / 3,
		(-trend - momentum + volume) / 3,
		(1 - math.Abs(trend) - math.Abs(momentum)) * volume,
		volatility * (1 - math.Abs(trend)),
	}

	best := helpers.ArgMax(scores)
	totalScore := helpers.Sum(scores)

	// A zero score sum leaves confidence undefined; answer the explicit
	// "nothing to say" verdict instead of propagating NaN.
	if totalScore == 0 || math.IsNaN(totalScore) {
		return &models.RegimeVerdict{
			Regime:     models.RegimeNeutral,
			Confidence: 0,
			Indicators: normalized,
		}
	}

	confidence := scores[best] / totalScore
	if confidence < 0 || math.IsNaN(confidence) {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return &models.RegimeVerdict{
		Regime:     models.RegimeFromIndex(best),
		Confidence: confidence,
		Indicators: normalized,
	}
}

// RecommendedStrategyNames is the catalog allowlist a detected regime
// restricts recommendations to.
func (mra *MarketRegimeAnalyzer) RecommendedStrategyNames(regime models.Regime) []string {
	switch regime {
	case models.RegimeBullish:
		return []string{"Bull Call Spread", "Covered Call", "Bull Put Spread"}
	case models.RegimeBearish:
		return []string{"Bear Call Spread", "Protective Put", "Put Debit Spread"}
	case models.RegimeNeutral:
		return []string{"Iron Condor", "Calendar Spread", "Butterfly Spread"}
	case models.RegimeVolatile:
		return []string{"Straddle", "Strangle", "Iron Butterfly"}
	default:
		return []string{}
	}
}

func normalize(value float64, lowerBound float64, upperBound float64) float64 {
	return (value - lowerBound) / (upperBound - lowerBound)
}

// sanitize swaps a NaN/Inf reading for its neutral default so a degenerate
// indicator cannot poison the regime scores.
func sanitize(value float64, neutral float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return neutral
	}
	return value
}

func seriesLen(series *models.PriceSeries) int {
	if series == nil {
		return 0
	}
	return series.Len()
}
