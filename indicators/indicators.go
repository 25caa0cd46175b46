// Package indicators holds the pure technical-analysis functions shared by
// the rule-based regime analyzer and the sequence predictor. Every function
// is deterministic and side-effect free. Undersized input never panics:
// oscillator-style indicators (RSI, MACD, Bollinger) answer NaN, the
// return-statistics ones answer 0. Callers are expected to check before
// feeding the values into scoring.
package indicators

import (
	"math"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
	"gitlab.com/optionscope/OptionScope/helpers"
)

// AnnualizationFactor converts a per-bar volatility into an annual figure
// assuming daily bars.
const AnnualizationFactor = 252

// seriesFromPrices wraps a plain price list into a throwaway techan series
// with one synthetic candle per price.
func seriesFromPrices(prices []float64) *techan.TimeSeries {
	timeSeries := techan.TimeSeries{}
	for i, price := range prices {
		candle := techan.NewCandle(techan.TimePeriod{Start: time.Unix(int64(i-1), 0), End: time.Unix(int64(i), 0)})
		candle.ClosePrice = big.NewDecimal(price)
		timeSeries.AddCandle(candle)
	}
	return &timeSeries
}

// RSI is the classic relative strength index over closing prices. A series
// no longer than the period has no complete window and yields NaN.
func RSI(prices []float64, period int) float64 {
	if len(prices) <= period {
		return math.NaN()
	}
	series := seriesFromPrices(prices)
	rsi := techan.NewRelativeStrengthIndexIndicator(techan.NewClosePriceIndicator(series), period)
	return rsi.Calculate(series.LastIndex()).Float()
}

// MACD is the last value of the fast-minus-slow EMA line. The signal period
// only bounds the minimum series length needed for the line to have settled;
// shorter input yields NaN.
func MACD(prices []float64, fastPeriod int, slowPeriod int, signalPeriod int) float64 {
	if len(prices) < slowPeriod+signalPeriod {
		return math.NaN()
	}
	series := seriesFromPrices(prices)
	macd := techan.NewMACDIndicator(techan.NewClosePriceIndicator(series), fastPeriod, slowPeriod)
	return macd.Calculate(series.LastIndex()).Float()
}

// BollingerPosition locates the last price inside its band, in units of
// stdDevMultiplier standard deviations off the moving average. This is a
// deliberate reduction of the usual three-band output: downstream consumers
// only ever needed the relative position, so the raw bands are never
// exposed. A flat window (zero band width) reads as 0, too little data as
// NaN.
func BollingerPosition(prices []float64, period int, stdDevMultiplier float64) float64 {
	if len(prices) < period {
		return math.NaN()
	}
	series := seriesFromPrices(prices)
	lastIndex := series.LastIndex()
	closePrices := techan.NewClosePriceIndicator(series)
	middle := techan.NewSimpleMovingAverage(closePrices, period).Calculate(lastIndex)
	upper := techan.NewBollingerUpperBandIndicator(closePrices, period, stdDevMultiplier).Calculate(lastIndex)
	halfWidth := upper.Sub(middle)
	if halfWidth.EQ(big.ZERO) {
		return 0
	}
	return closePrices.Calculate(lastIndex).Sub(middle).Div(halfWidth).Float()
}

// Volatility is the annualized standard deviation of bar-over-bar returns.
func Volatility(prices []float64) float64 {
	returns := helpers.SimpleReturns(prices)
	if len(returns) == 0 {
		return 0
	}
	return helpers.StdDev(returns, helpers.Mean(returns)) * math.Sqrt(AnnualizationFactor)
}

// Momentum is the total percentage move over the trailing lookback window.
func Momentum(prices []float64, lookback int) float64 {
	if len(prices) < 2 {
		return 0
	}
	window := prices
	if lookback < len(prices) {
		window = prices[len(prices)-lookback:]
	}
	if len(window) < 2 || window[0] == 0 {
		return 0
	}
	return (window[len(window)-1] - window[0]) / window[0]
}

// VolumeTrend relates the last volume to the trailing window average.
// Above 1 means expanding participation.
func VolumeTrend(volumes []float64, lookback int) float64 {
	if len(volumes) == 0 {
		return 0
	}
	window := volumes
	if lookback < len(volumes) {
		window = volumes[len(volumes)-lookback:]
	}
	volumeMA := helpers.Mean(window)
	if volumeMA == 0 {
		return 0
	}
	return window[len(window)-1] / volumeMA
}

// TrendStrength is mean return over return deviation, a Sharpe-like reading
// on raw bar returns. Flat series read as 0.
func TrendStrength(prices []float64) float64 {
	returns := helpers.SimpleReturns(prices)
	if len(returns) < 2 {
		return 0
	}
	avgReturn := helpers.Mean(returns)
	stdReturn := helpers.StdDev(returns, avgReturn)
	if stdReturn == 0 {
		return 0
	}
	return avgReturn / stdReturn
}

// LastReturn is the most recent bar-over-bar percentage change.
func LastReturn(prices []float64) float64 {
	if len(prices) < 2 || prices[len(prices)-2] == 0 {
		return 0
	}
	last := len(prices) - 1
	return (prices[last] - prices[last-1]) / prices[last-1]
}
