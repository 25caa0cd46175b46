package indicators

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: every indicator is total over arbitrary positive price lists.
// Undersized input answers a documented sentinel (NaN for the oscillators,
// 0 for the return statistics) and never panics.
func TestProperty_IndicatorsTotalOverShortSeries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(1)

	properties := gopter.NewProperties(parameters)

	pricesGen := gen.SliceOf(gen.Float64Range(0.01, 10000))

	properties.Property("oscillators answer NaN below their lookback, never panic", prop.ForAll(
		func(prices []float64) bool {
			rsi := RSI(prices, 14)
			if len(prices) <= 14 && !math.IsNaN(rsi) {
				return false
			}
			macd := MACD(prices, 12, 26, 9)
			if len(prices) < 35 && !math.IsNaN(macd) {
				return false
			}
			bollinger := BollingerPosition(prices, 20, 2)
			if len(prices) < 20 && !math.IsNaN(bollinger) {
				return false
			}
			return true
		},
		pricesGen,
	))

	properties.Property("return statistics answer finite values", prop.ForAll(
		func(prices []float64) bool {
			return !math.IsNaN(Volatility(prices)) &&
				!math.IsNaN(Momentum(prices, 20)) &&
				!math.IsNaN(TrendStrength(prices)) &&
				!math.IsNaN(LastReturn(prices))
		},
		pricesGen,
	))

	properties.TestingRun(t)
}

// Property: RSI stays inside its [0,100] definition whenever it is defined.
func TestProperty_RSIBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(1)

	properties := gopter.NewProperties(parameters)

	pricesGen := gen.SliceOfN(30, gen.Float64Range(1, 1000))

	properties.Property("0 <= RSI <= 100", prop.ForAll(
		func(prices []float64) bool {
			rsi := RSI(prices, 14)
			return !math.IsNaN(rsi) && rsi >= 0 && rsi <= 100
		},
		pricesGen,
	))

	properties.TestingRun(t)
}

// Property: VolumeTrend of non-negative volumes is never negative.
func TestProperty_VolumeTrendNonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(1)

	properties := gopter.NewProperties(parameters)

	volumesGen := gen.SliceOf(gen.Float64Range(0, 1e9))

	properties.Property("VolumeTrend >= 0", prop.ForAll(
		func(volumes []float64) bool {
			return VolumeTrend(volumes, 20) >= 0
		},
		volumesGen,
	))

	properties.TestingRun(t)
}
