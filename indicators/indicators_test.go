package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func risingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	return prices
}

func TestRSI(t *testing.T) {
	assert.True(t, math.IsNaN(RSI(risingPrices(14), 14)), "series no longer than the period has no RSI")

	rising := RSI(risingPrices(30), 14)
	assert.False(t, math.IsNaN(rising))
	assert.Greater(t, rising, 70.0)

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}
	assert.Less(t, RSI(falling, 14), 30.0)
}

func TestMACD(t *testing.T) {
	assert.True(t, math.IsNaN(MACD(risingPrices(34), 12, 26, 9)))

	rising := MACD(risingPrices(60), 12, 26, 9)
	assert.False(t, math.IsNaN(rising))
	assert.Greater(t, rising, 0.0, "fast EMA sits above slow EMA in an uptrend")
}

func TestBollingerPosition(t *testing.T) {
	assert.True(t, math.IsNaN(BollingerPosition(risingPrices(19), 20, 2)))

	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	assert.Equal(t, 0.0, BollingerPosition(flat, 20, 2), "zero band width reads as 0")

	position := BollingerPosition(risingPrices(20), 20, 2)
	assert.Greater(t, position, 0.0, "last price of an uptrend sits above the moving average")
	assert.LessOrEqual(t, position, 2.0)
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, 0.0, Volatility([]float64{100}))

	flat := []float64{100, 100, 100, 100}
	assert.Equal(t, 0.0, Volatility(flat))

	choppy := []float64{100, 110, 95, 112, 90}
	assert.Greater(t, Volatility(choppy), Volatility(risingPrices(5)))
}

func TestMomentum(t *testing.T) {
	assert.Equal(t, 0.0, Momentum([]float64{100}, 10))

	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110}
	assert.InDelta(t, 0.1, Momentum(prices, 20), 1e-12, "lookback longer than the series uses the whole series")
	assert.InDelta(t, (110.0-106.0)/106.0, Momentum(prices, 5), 1e-12)
}

func TestVolumeTrend(t *testing.T) {
	assert.Equal(t, 0.0, VolumeTrend(nil, 10))
	assert.Equal(t, 0.0, VolumeTrend([]float64{0, 0, 0}, 10), "zero volume is the no-data sentinel")

	volumes := []float64{1000, 1000, 1000, 2000}
	assert.InDelta(t, 2000.0/1250.0, VolumeTrend(volumes, 4), 1e-12)
}

func TestTrendStrength(t *testing.T) {
	assert.Equal(t, 0.0, TrendStrength([]float64{100, 101}), "a single return has no deviation")
	assert.Equal(t, 0.0, TrendStrength([]float64{100, 100, 100}))

	up := []float64{100, 102, 101, 103, 105, 107, 106, 108, 110, 112}
	down := []float64{112, 110, 111, 109, 107, 105, 106, 104, 102, 100}
	assert.Greater(t, TrendStrength(up), 0.0)
	assert.Less(t, TrendStrength(down), 0.0)
}

func TestLastReturn(t *testing.T) {
	assert.Equal(t, 0.0, LastReturn([]float64{100}))
	assert.InDelta(t, 0.05, LastReturn([]float64{90, 100, 105}), 1e-12)
}
